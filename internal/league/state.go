package league

import (
	"sort"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/calendar"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/draft"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
)

// Phase is the season stage of a league
type Phase string

const (
	PhaseRegular  Phase = "regular"
	PhasePlayoffs Phase = "playoffs"
	PhaseFinished Phase = "finished"
)

// WeekStatus describes how far simulation has progressed through a week
type WeekStatus string

const (
	WeekNotStarted WeekStatus = "not_started"
	WeekInProgress WeekStatus = "in_progress"
	WeekCompleted  WeekStatus = "completed"
)

// State is the full persisted state of one league
type State struct {
	ID        string    `json:"league_id"`
	Name      string    `json:"league_name"`
	CreatedAt time.Time `json:"created_at"`
	Version   int64     `json:"version"`

	TeamCount          int      `json:"team_count"`
	RosterSize         int      `json:"roster_size"`
	ScoringProfileKey  string   `json:"scoring_profile_key"`
	ScoringProfileName string   `json:"scoring_profile"`
	UserTeam           string   `json:"user_team_name,omitempty"`
	TeamNames          []string `json:"team_names"`

	Calendar           []string `json:"calendar"`
	CurrentIndex       int      `json:"current_index"`
	AwaitingSimulation bool     `json:"awaiting_simulation"`

	Rosters       map[string][]int          `json:"rosters"`
	Weeks         []Week                    `json:"weeks"`
	WeeklyResults map[string]*MatchupResult `json:"weekly_results"`
	History       []DayRecord               `json:"history"`
	Draft         *draft.State              `json:"draft_state,omitempty"`

	Phase    Phase         `json:"phase"`
	Playoffs PlayoffConfig `json:"playoff_config"`
	Bracket  *Bracket      `json:"playoff_bracket,omitempty"`
}

// Week is one fantasy week and its scheduled matchups
type Week struct {
	Index        int       `json:"index"`
	Name         string    `json:"name"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	Matchups     []Matchup `json:"matchups"`
	Playoff      bool      `json:"playoff,omitempty"`
	PlayoffRound int       `json:"playoff_round,omitempty"`
}

// Range returns the week's date span
func (w Week) Range() calendar.WeekRange {
	return calendar.WeekRange{Start: w.Start, End: w.End}
}

// Matchup pairs two teams for a week
type Matchup struct {
	ID       string `json:"id"`
	Home     string `json:"home"`
	Away     string `json:"away"`
	HomeSeed int    `json:"home_seed,omitempty"`
	AwaySeed int    `json:"away_seed,omitempty"`
	Bracket  string `json:"bracket_matchup,omitempty"`
}

// Teams lists the matchup's teams, home first
func (m Matchup) Teams() []string {
	return []string{m.Home, m.Away}
}

// Has reports whether team plays in the matchup
func (m Matchup) Has(team string) bool {
	return m.Home == team || m.Away == team
}

// MatchupResult accumulates a matchup's totals across the week's days
type MatchupResult struct {
	MatchupID string                    `json:"matchup_id"`
	WeekIndex int                       `json:"week_index"`
	Teams     map[string]*TeamWeekTotal `json:"teams"`
	Days      []string                  `json:"days"`
}

// TeamWeekTotal is one team's side of a matchup result
type TeamWeekTotal struct {
	Team        string                            `json:"team"`
	Total       float64                           `json:"total"`
	Players     map[int]*PlayerWeekTotal          `json:"players"`
	DailyTotals map[string]float64                `json:"daily_totals"`
	Categories  map[string]scoring.CategoryResult `json:"categories,omitempty"`
}

// PlayerWeekTotal is one player's accumulated contribution within a week
type PlayerWeekTotal struct {
	PlayerID      int     `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Team          string  `json:"team"`
	FantasyPoints float64 `json:"fantasy_points"`
	GamesPlayed   int     `json:"games_played"`
}

// DayRecord captures the simulation of one calendar date
type DayRecord struct {
	Date              string                     `json:"date"`
	ScoringProfile    string                     `json:"scoring_profile"`
	ScoringProfileKey string                     `json:"scoring_profile_key"`
	WeekIndex         int                        `json:"week_index"`
	TeamResults       []TeamResult               `json:"team_results"`
	Scoreboard        []calendar.ScoreboardEntry `json:"nba_scoreboard"`
	SimulatedAt       time.Time                  `json:"simulated_at"`
}

// TeamResult is a team's score for a single date
type TeamResult struct {
	Team       string                            `json:"team"`
	Total      float64                           `json:"total"`
	Players    []PlayerContribution              `json:"players"`
	Categories map[string]scoring.CategoryResult `json:"categories,omitempty"`
}

// PlayerContribution is one rostered player's score for a date
type PlayerContribution struct {
	PlayerID      int     `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Team          string  `json:"team"`
	FantasyPoints float64 `json:"fantasy_points"`
	Played        bool    `json:"played"`
}

// CurrentDate returns today's calendar date, or false once the season is over
func (s *State) CurrentDate() (string, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Calendar) {
		return "", false
	}
	return s.Calendar[s.CurrentIndex], true
}

// DraftActive reports whether an interactive draft is still open
func (s *State) DraftActive() bool {
	return s.Draft.Active()
}

// LatestSimulatedDate returns the most recent simulated date, or ""
func (s *State) LatestSimulatedDate() string {
	latest := ""
	for _, record := range s.History {
		if record.Date > latest {
			latest = record.Date
		}
	}
	return latest
}

// Simulated reports whether date has a history record
func (s *State) Simulated(date string) bool {
	for _, record := range s.History {
		if record.Date == date {
			return true
		}
	}
	return false
}

// Week returns the week with the given 1-based index
func (s *State) Week(index int) (*Week, bool) {
	if index < 1 || index > len(s.Weeks) {
		return nil, false
	}
	return &s.Weeks[index-1], true
}

// WeekForDate returns the week containing date. Dates past the final week
// map to the final week.
func (s *State) WeekForDate(date string) (*Week, bool) {
	ranges := make([]calendar.WeekRange, len(s.Weeks))
	for i := range s.Weeks {
		ranges[i] = s.Weeks[i].Range()
	}
	if i := calendar.FindWeek(ranges, date); i >= 0 {
		return &s.Weeks[i], true
	}
	return nil, false
}

// WeekStatus reports a week's progress. A week is completed once a date on
// or after its end has been simulated, or once it has started and every
// calendar date inside it has been simulated.
func (s *State) WeekStatus(w Week) WeekStatus {
	latest := s.LatestSimulatedDate()
	if latest == "" || latest < w.Start {
		return WeekNotStarted
	}
	if latest >= w.End {
		return WeekCompleted
	}
	simulated := make(map[string]bool, len(s.History))
	for _, record := range s.History {
		simulated[record.Date] = true
	}
	for _, date := range s.Calendar {
		if w.Range().Contains(date) && !simulated[date] {
			return WeekInProgress
		}
	}
	return WeekCompleted
}

// Summary is the listing view of a league
type Summary struct {
	ID                  string    `json:"id"`
	Name                string    `json:"league_name"`
	TeamCount           int       `json:"team_count"`
	RosterSize          int       `json:"roster_size"`
	ScoringProfile      string    `json:"scoring_profile"`
	ScoringProfileKey   string    `json:"scoring_profile_key"`
	LatestCompletedDate string    `json:"latest_completed_date,omitempty"`
	Phase               Phase     `json:"phase"`
	CreatedAt           time.Time `json:"created_at"`
}

// Summarize builds the listing view of s
func (s *State) Summarize() Summary {
	return Summary{
		ID:                  s.ID,
		Name:                s.Name,
		TeamCount:           s.TeamCount,
		RosterSize:          s.RosterSize,
		ScoringProfile:      s.ScoringProfileName,
		ScoringProfileKey:   s.ScoringProfileKey,
		LatestCompletedDate: s.LatestSimulatedDate(),
		Phase:               s.Phase,
		CreatedAt:           s.CreatedAt,
	}
}

// SortSummaries orders summaries by creation time
func SortSummaries(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
}

// sortHistory keeps history in date order
func (s *State) sortHistory() {
	sort.SliceStable(s.History, func(i, j int) bool {
		return s.History[i].Date < s.History[j].Date
	})
}
