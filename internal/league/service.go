package league

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sirupsen/logrus"
)

// Store persists league state. Save performs an optimistic version check:
// a state with Version 0 is inserted, otherwise the stored version must
// equal st.Version. A successful Save increments st.Version.
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, st *State) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Summary, error)
}

// ProfileSink is notified after the scoring profile registry changes
type ProfileSink func(registry *scoring.Registry) error

// Service runs league operations against persisted state. Each mutating
// operation loads a fresh copy, applies the change and saves it in full;
// a failed operation persists nothing.
type Service struct {
	engine *Engine
	store  Store
	logger *logrus.Logger
	locks  *leagueLocks
	newID  func() string
	sink   ProfileSink
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithIDGenerator overrides league id generation
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

// WithProfileSink registers a callback run after scoring profile upserts
func WithProfileSink(sink ProfileSink) ServiceOption {
	return func(s *Service) { s.sink = sink }
}

// NewService creates a new league service
func NewService(engine *Engine, store Store, logger *logrus.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		engine: engine,
		store:  store,
		logger: logger,
		locks:  newLeagueLocks(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateLeague builds and persists a new league
func (s *Service) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*State, error) {
	st, err := s.engine.Create(s.newID(), req)
	if err != nil {
		s.logger.WithError(err).WithField("league_name", req.Name).Warn("Failed to create league")
		return nil, err
	}
	if err := s.store.Save(ctx, st); err != nil {
		s.logger.WithError(err).WithField("league_id", st.ID).Error("Failed to save new league")
		return nil, err
	}
	return st, nil
}

// GetLeague loads a league
func (s *Service) GetLeague(ctx context.Context, id string) (*State, error) {
	return s.load(ctx, id)
}

// ListLeagues returns every league ordered by creation time
func (s *Service) ListLeagues(ctx context.Context) ([]Summary, error) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	SortSummaries(summaries)
	return summaries, nil
}

// DeleteLeague removes a league
func (s *Service) DeleteLeague(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return withLeague(err, id)
	}
	s.logger.WithField("league_id", id).Info("Deleted league")
	return nil
}

// DraftBoard returns the interactive draft board
func (s *Service) DraftBoard(ctx context.Context, id string, limit int) (*DraftBoard, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	board, err := s.engine.DraftBoard(st, limit)
	return board, withLeague(err, id)
}

// DraftPick drafts a player by id for the user's team
func (s *Service) DraftPick(ctx context.Context, id string, playerID int) (*PlayerView, error) {
	var picked *PlayerView
	_, err := s.mutate(ctx, id, func(st *State) (err error) {
		picked, err = s.engine.DraftPick(st, playerID)
		return err
	})
	return picked, err
}

// DraftPickByName drafts the best available match for a player name
func (s *Service) DraftPickByName(ctx context.Context, id, name string) (*PlayerView, error) {
	var picked *PlayerView
	_, err := s.mutate(ctx, id, func(st *State) (err error) {
		picked, err = s.engine.DraftPickByName(st, name)
		return err
	})
	return picked, err
}

// DraftAutoPick makes one bot pick for the user's team
func (s *Service) DraftAutoPick(ctx context.Context, id string) (*PlayerView, error) {
	var picked *PlayerView
	_, err := s.mutate(ctx, id, func(st *State) (err error) {
		picked, err = s.engine.DraftAutoPick(st)
		return err
	})
	return picked, err
}

// DraftAutoRest completes the draft with bot picks
func (s *Service) DraftAutoRest(ctx context.Context, id string) (*State, error) {
	return s.mutate(ctx, id, s.engine.DraftAutoRest)
}

// FinalizeDraft locks a draft whose user roster is full
func (s *Service) FinalizeDraft(ctx context.Context, id string) (*State, error) {
	return s.mutate(ctx, id, s.engine.FinalizeDraft)
}

// RemovePlayer drops a player from the user's roster
func (s *Service) RemovePlayer(ctx context.Context, id string, playerID int) (*State, error) {
	return s.mutate(ctx, id, func(st *State) error {
		return s.engine.RemovePlayer(st, playerID)
	})
}

// Rosters returns every team's roster
func (s *Service) Rosters(ctx context.Context, id string) ([]TeamRoster, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rosters, err := s.engine.Rosters(st)
	return rosters, withLeague(err, id)
}

// SimulateDay scores the current date
func (s *Service) SimulateDay(ctx context.Context, id, profileKey string) (*DayRecord, *State, error) {
	var record *DayRecord
	st, err := s.mutate(ctx, id, func(st *State) (err error) {
		record, err = s.engine.SimulateDay(st, profileKey)
		return err
	})
	return record, st, err
}

// ResimulateDay re-scores an already simulated date
func (s *Service) ResimulateDay(ctx context.Context, id, date, profileKey string) (*DayRecord, *State, error) {
	var record *DayRecord
	st, err := s.mutate(ctx, id, func(st *State) (err error) {
		record, err = s.engine.ResimulateDay(st, date, profileKey)
		return err
	})
	return record, st, err
}

// AdvanceDay moves the league to its next calendar date
func (s *Service) AdvanceDay(ctx context.Context, id string) (*State, error) {
	return s.mutate(ctx, id, s.engine.AdvanceDay)
}

// SimulateUntilPlayoffs runs the regular season to its end
func (s *Service) SimulateUntilPlayoffs(ctx context.Context, id string) (*State, int, error) {
	simulated := 0
	st, err := s.mutate(ctx, id, func(st *State) (err error) {
		simulated, err = s.engine.SimulateUntilPlayoffs(st)
		return err
	})
	return st, simulated, err
}

// Reset restarts a league's season
func (s *Service) Reset(ctx context.Context, id string) (*State, error) {
	return s.mutate(ctx, id, s.engine.Reset)
}

// WeekOverview returns one week's matchup overview
func (s *Service) WeekOverview(ctx context.Context, id string, week int) (*WeekOverview, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	overview, err := s.engine.WeekOverview(st, week)
	return overview, withLeague(err, id)
}

// Standings returns the regular-season standings with playoff annotations
func (s *Service) Standings(ctx context.Context, id string) ([]StandingEntry, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.AnnotatedStandings(), nil
}

// ConfigurePlayoffs sets a league's playoff format
func (s *Service) ConfigurePlayoffs(ctx context.Context, id string, cfg PlayoffConfig) (*State, error) {
	return s.mutate(ctx, id, func(st *State) error {
		return s.engine.ConfigurePlayoffs(st, cfg)
	})
}

// PlayoffPreview returns the live or projected bracket
func (s *Service) PlayoffPreview(ctx context.Context, id string) (*PlayoffView, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.engine.PlayoffPreview(st)
	return view, withLeague(err, id)
}

// Bracket returns the live bracket of a league whose playoffs have started
func (s *Service) Bracket(ctx context.Context, id string) (*Bracket, error) {
	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Bracket == nil {
		return nil, withLeague(stateErrorf("playoffs have not started for this league"), id)
	}
	return st.Bracket, nil
}

// ScoringProfiles lists the registered scoring profiles
func (s *Service) ScoringProfiles() ([]scoring.Profile, string) {
	registry := s.engine.Profiles()
	return registry.List(), registry.DefaultKey()
}

// UpsertScoringProfile creates or updates a scoring profile
func (s *Service) UpsertScoringProfile(key, name string, weights map[string]float64, makeDefault bool) (scoring.Profile, error) {
	registry := s.engine.Profiles()
	profile, err := registry.Upsert(key, name, weights, makeDefault)
	if err != nil {
		return scoring.Profile{}, classify(err)
	}
	if s.sink != nil {
		if err := s.sink(registry); err != nil {
			s.logger.WithError(err).WithField("profile", profile.Key).Error("Failed to persist scoring profiles")
			return profile, unavailable("scoring profile storage", err)
		}
	}
	s.logger.WithFields(logrus.Fields{
		"profile": profile.Key,
		"default": registry.DefaultKey() == profile.Key,
	}).Info("Upserted scoring profile")
	return profile, nil
}

// Tick runs one autopilot step for a league: simulate today when it is
// still awaiting simulation, then advance
func (s *Service) Tick(ctx context.Context, id string) (*State, error) {
	return s.mutate(ctx, id, func(st *State) error {
		if st.AwaitingSimulation {
			if _, err := s.engine.SimulateDay(st, ""); err != nil {
				return err
			}
			if st.Phase == PhaseFinished {
				return nil
			}
		}
		return s.engine.AdvanceDay(st)
	})
}

func (s *Service) load(ctx context.Context, id string) (*State, error) {
	st, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, withLeague(err, id)
	}
	st.RebuildWeeklyResults()
	return st, nil
}

// mutate applies fn to a freshly loaded copy of the league under the
// league's lock and saves it when fn succeeds
func (s *Service) mutate(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	st, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"league_id":  id,
			"error_type": ErrorType(err),
		}).Warn("League operation rejected")
		return nil, withLeague(err, id)
	}
	if err := s.store.Save(ctx, st); err != nil {
		s.logger.WithError(err).WithField("league_id", id).Error("Failed to save league")
		return nil, withLeague(err, id)
	}
	return st, nil
}

// leagueLocks serializes operations per league id
type leagueLocks struct {
	mu    sync.Mutex
	locks map[string]*leagueLock
}

type leagueLock struct {
	mu   sync.Mutex
	refs int
}

func newLeagueLocks() *leagueLocks {
	return &leagueLocks{locks: make(map[string]*leagueLock)}
}

func (l *leagueLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &leagueLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
