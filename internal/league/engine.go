package league

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/calendar"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/draft"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTeamCount  = 12
	DefaultRosterSize = 13
)

// DataSource supplies the season's game logs and schedule
type DataSource interface {
	GameLogs() ([]stats.PlayerStatRow, error)
	Schedule() ([]calendar.Game, error)
}

// Engine applies league operations to in-memory state. It performs no
// persistence; Service wraps it with load and save.
type Engine struct {
	profiles *scoring.Registry
	data     DataSource
	logger   *logrus.Logger
	now      func() time.Time
	namePool []string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option customizes an Engine
type Option func(*Engine)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand overrides the random source used by bot draft picks
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithNamePool sets the team names used to fill out a league
func WithNamePool(names []string) Option {
	return func(e *Engine) { e.namePool = append([]string(nil), names...) }
}

// NewEngine creates a new league engine
func NewEngine(profiles *scoring.Registry, data DataSource, logger *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		profiles: profiles,
		data:     data,
		logger:   logger,
		now:      time.Now,
		namePool: DefaultTeamNames(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profiles returns the scoring profile registry
func (e *Engine) Profiles() *scoring.Registry {
	return e.profiles
}

// CreateLeagueRequest holds the parameters for a new league
type CreateLeagueRequest struct {
	Name           string         `json:"league_name" validate:"required,max=100"`
	TeamCount      int            `json:"team_count" validate:"omitempty,min=2,max=30"`
	RosterSize     int            `json:"roster_size" validate:"omitempty,min=1,max=30"`
	ScoringProfile string         `json:"scoring_profile"`
	UserTeam       string         `json:"user_team_name" validate:"max=60"`
	TeamNames      []string       `json:"team_names" validate:"omitempty,dive,max=60"`
	Playoffs       *PlayoffConfig `json:"playoffs,omitempty" validate:"-"`
}

// Create builds a new league: calendar, weeks, rosters and, when a user team
// is named, a pending interactive draft
func (e *Engine) Create(id string, req CreateLeagueRequest) (*State, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.UserTeam = strings.TrimSpace(req.UserTeam)
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, configErrorf("invalid %s: failed '%s' validation", strings.ToLower(fe.Field()), fe.Tag())
		}
		return nil, configErrorf("invalid league request: %v", err)
	}
	if req.TeamCount == 0 {
		req.TeamCount = DefaultTeamCount
	}
	if req.RosterSize == 0 {
		req.RosterSize = DefaultRosterSize
	}

	profile, err := e.profiles.Resolve(req.ScoringProfile)
	if err != nil {
		return nil, classify(err)
	}

	st := &State{
		ID:                 id,
		Name:               req.Name,
		CreatedAt:          e.now().UTC(),
		TeamCount:          req.TeamCount,
		RosterSize:         req.RosterSize,
		ScoringProfileKey:  profile.Key,
		ScoringProfileName: profile.Name,
		UserTeam:           req.UserTeam,
		TeamNames:          buildTeamNames(req.TeamNames, req.UserTeam, req.TeamCount, e.namePool),
		Phase:              PhaseRegular,
	}

	if err := e.initializeSeason(st, profile); err != nil {
		return nil, err
	}
	if req.Playoffs != nil {
		if err := e.ConfigurePlayoffs(st, *req.Playoffs); err != nil {
			return nil, err
		}
	}

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"teams":     len(st.TeamNames),
		"weeks":     len(st.Weeks),
		"dates":     len(st.Calendar),
		"draft":     st.DraftActive(),
		"profile":   st.ScoringProfileKey,
	}).Info("Created league")
	return st, nil
}

// Reset rebuilds the league from the start of the season. The playoff
// configuration is kept; history, rosters and any bracket are discarded.
func (e *Engine) Reset(st *State) error {
	profile, err := e.profiles.Resolve(st.ScoringProfileKey)
	if err != nil {
		return classify(err)
	}
	st.ScoringProfileKey = profile.Key
	st.ScoringProfileName = profile.Name

	if err := e.initializeSeason(st, profile); err != nil {
		return err
	}
	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"phase":     st.Phase,
	}).Info("Reset league")
	return nil
}

// initializeSeason lays out the calendar, weeks and rosters for st
func (e *Engine) initializeSeason(st *State, profile scoring.Profile) error {
	logs, games, err := e.loadData()
	if err != nil {
		return err
	}

	dates := calendar.SeasonDates(games)
	if len(dates) == 0 {
		return unavailable("schedule", errors.New("no game dates found"))
	}
	weeks, err := buildWeeks(dates, st.TeamNames)
	if err != nil {
		return configErrorf("failed to build weeks: %v", err)
	}

	ordered, err := draft.RankCandidates(stats.SeasonAverages(logs), profile.Weights)
	if err != nil {
		return classify(err)
	}

	st.Calendar = dates
	st.CurrentIndex = 0
	st.AwaitingSimulation = true
	st.Weeks = weeks
	st.History = []DayRecord{}
	st.Phase = PhaseRegular
	st.Bracket = nil

	if st.UserTeam != "" {
		st.Rosters = make(map[string][]int, len(st.TeamNames))
		for _, team := range st.TeamNames {
			st.Rosters[team] = []int{}
		}
		st.Draft = draft.NewState(st.UserTeam, st.RosterSize, ordered)
	} else {
		st.Rosters = draft.AutoDraft(st.TeamNames, st.RosterSize, ordered, nil)
		st.Draft = nil
	}

	st.RebuildWeeklyResults()
	return nil
}

// AdvanceDay moves the cursor to the next calendar date once today's games
// have been simulated
func (e *Engine) AdvanceDay(st *State) error {
	if st.DraftActive() {
		return stateErrorf("complete the draft before advancing the schedule")
	}
	if st.Phase == PhaseFinished {
		return stateErrorf("the league has finished; the schedule can no longer advance")
	}
	date, ok := st.CurrentDate()
	if !ok {
		return nil
	}
	if st.AwaitingSimulation {
		return stateErrorf("simulate %s before advancing", date)
	}

	st.CurrentIndex++
	if st.CurrentIndex >= len(st.Calendar) {
		st.CurrentIndex = len(st.Calendar)
		st.AwaitingSimulation = false
		if !st.Playoffs.Enabled && st.Phase == PhaseRegular {
			st.Phase = PhaseFinished
		}
		e.logger.WithFields(logrus.Fields{
			"league_id": st.ID,
			"phase":     st.Phase,
		}).Info("Reached the end of the calendar")
		return nil
	}

	st.AwaitingSimulation = true
	if err := e.startPlayoffsIfDue(st); err != nil {
		return err
	}

	next, _ := st.CurrentDate()
	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"date":      next,
	}).Debug("Advanced to next date")
	return nil
}

// SimulateUntilPlayoffs simulates and advances until the playoff phase
// begins, the league finishes or the calendar runs out
func (e *Engine) SimulateUntilPlayoffs(st *State) (int, error) {
	if st.DraftActive() {
		return 0, stateErrorf("complete the draft before simulating games")
	}
	if st.Phase != PhaseRegular {
		return 0, stateErrorf("the regular season is already over (phase %s)", st.Phase)
	}

	simulated := 0
	limit := len(st.Calendar)*2 + 8
	for i := 0; i < limit && st.Phase == PhaseRegular; i++ {
		if _, ok := st.CurrentDate(); !ok {
			break
		}
		if st.AwaitingSimulation {
			if _, err := e.SimulateDay(st, ""); err != nil {
				return simulated, err
			}
			simulated++
			continue
		}
		if err := e.AdvanceDay(st); err != nil {
			return simulated, err
		}
	}

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"simulated": simulated,
		"phase":     st.Phase,
	}).Info("Simulated through the regular season")
	return simulated, nil
}

func (e *Engine) loadData() ([]stats.PlayerStatRow, []calendar.Game, error) {
	logs, err := e.data.GameLogs()
	if err != nil {
		return nil, nil, unavailable("game logs", err)
	}
	games, err := e.data.Schedule()
	if err != nil {
		return nil, nil, unavailable("schedule", err)
	}
	return logs, games, nil
}

func (e *Engine) botRand() (*rand.Rand, func()) {
	e.rngMu.Lock()
	return e.rng, e.rngMu.Unlock
}
