package handlers

import (
	"context"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
)

// APIResponse represents the standard response format for our tools
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Summary   string      `json:"summary"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	Metadata  Metadata    `json:"metadata"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	LeagueID    string    `json:"league_id,omitempty"`
	Version     int64     `json:"version,omitempty"`
	Phase       string    `json:"phase,omitempty"`
	CurrentDate string    `json:"current_date,omitempty"`
}

// LeagueService is the league operations the tools expose
type LeagueService interface {
	CreateLeague(ctx context.Context, req league.CreateLeagueRequest) (*league.State, error)
	GetLeague(ctx context.Context, id string) (*league.State, error)
	ListLeagues(ctx context.Context) ([]league.Summary, error)
	DeleteLeague(ctx context.Context, id string) error
	Reset(ctx context.Context, id string) (*league.State, error)

	DraftBoard(ctx context.Context, id string, limit int) (*league.DraftBoard, error)
	DraftPick(ctx context.Context, id string, playerID int) (*league.PlayerView, error)
	DraftPickByName(ctx context.Context, id, name string) (*league.PlayerView, error)
	DraftAutoPick(ctx context.Context, id string) (*league.PlayerView, error)
	DraftAutoRest(ctx context.Context, id string) (*league.State, error)
	FinalizeDraft(ctx context.Context, id string) (*league.State, error)
	RemovePlayer(ctx context.Context, id string, playerID int) (*league.State, error)
	Rosters(ctx context.Context, id string) ([]league.TeamRoster, error)

	SimulateDay(ctx context.Context, id, profileKey string) (*league.DayRecord, *league.State, error)
	ResimulateDay(ctx context.Context, id, date, profileKey string) (*league.DayRecord, *league.State, error)
	AdvanceDay(ctx context.Context, id string) (*league.State, error)
	SimulateUntilPlayoffs(ctx context.Context, id string) (*league.State, int, error)
	WeekOverview(ctx context.Context, id string, week int) (*league.WeekOverview, error)
	Standings(ctx context.Context, id string) ([]league.StandingEntry, error)

	ConfigurePlayoffs(ctx context.Context, id string, cfg league.PlayoffConfig) (*league.State, error)
	PlayoffPreview(ctx context.Context, id string) (*league.PlayoffView, error)
	Bracket(ctx context.Context, id string) (*league.Bracket, error)

	ScoringProfiles() ([]scoring.Profile, string)
	UpsertScoringProfile(key, name string, weights map[string]float64, makeDefault bool) (scoring.Profile, error)
}

// LeagueDetails is the get_league payload
type LeagueDetails struct {
	league.Summary

	UserTeam           string                 `json:"user_team_name,omitempty"`
	TeamNames          []string               `json:"team_names"`
	CurrentDate        string                 `json:"current_date,omitempty"`
	AwaitingSimulation bool                   `json:"awaiting_simulation"`
	DraftActive        bool                   `json:"draft_active"`
	SimulatedDays      int                    `json:"simulated_days"`
	SeasonDays         int                    `json:"season_days"`
	Weeks              []league.Week          `json:"weeks"`
	Playoffs           league.PlayoffConfig   `json:"playoff_config"`
	Champion           string                 `json:"champion,omitempty"`
	History            []league.DayRecord     `json:"history,omitempty"`
	Standings          []league.StandingEntry `json:"standings"`
}

func leagueDetails(st *league.State, includeHistory bool) LeagueDetails {
	details := LeagueDetails{
		Summary:            st.Summarize(),
		UserTeam:           st.UserTeam,
		TeamNames:          st.TeamNames,
		AwaitingSimulation: st.AwaitingSimulation,
		DraftActive:        st.DraftActive(),
		SimulatedDays:      len(st.History),
		SeasonDays:         len(st.Calendar),
		Weeks:              st.Weeks,
		Playoffs:           st.Playoffs,
		Standings:          st.AnnotatedStandings(),
	}
	if date, ok := st.CurrentDate(); ok {
		details.CurrentDate = date
	}
	if st.Bracket != nil {
		details.Champion = st.Bracket.Champion
	}
	if includeHistory {
		details.History = st.History
	}
	return details
}

// SimulationResult is the payload of the day simulation tools
type SimulationResult struct {
	Record             *league.DayRecord `json:"record"`
	CurrentDate        string            `json:"current_date,omitempty"`
	AwaitingSimulation bool              `json:"awaiting_simulation"`
	Phase              league.Phase      `json:"phase"`
}

// ProgressResult is the payload of tools that move a league through its calendar
type ProgressResult struct {
	CurrentDate        string       `json:"current_date,omitempty"`
	AwaitingSimulation bool         `json:"awaiting_simulation"`
	Phase              league.Phase `json:"phase"`
	SimulatedDays      int          `json:"simulated_days"`
	DaysSimulatedNow   int          `json:"days_simulated_now,omitempty"`
	CurrentWeek        *league.Week `json:"current_week,omitempty"`
}

func progressResult(st *league.State, simulatedNow int) ProgressResult {
	result := ProgressResult{
		AwaitingSimulation: st.AwaitingSimulation,
		Phase:              st.Phase,
		SimulatedDays:      len(st.History),
		DaysSimulatedNow:   simulatedNow,
	}
	if date, ok := st.CurrentDate(); ok {
		result.CurrentDate = date
		if week, ok := st.WeekForDate(date); ok {
			result.CurrentWeek = week
		}
	}
	return result
}
