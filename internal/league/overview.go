package league

import (
	"sort"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
)

// WeekOverview summarizes every matchup of one week
type WeekOverview struct {
	LeagueID       string            `json:"league_id"`
	WeekIndex      int               `json:"week_index"`
	Name           string            `json:"name"`
	Start          string            `json:"start"`
	End            string            `json:"end"`
	Status         WeekStatus        `json:"status"`
	Playoff        bool              `json:"playoff"`
	PlayoffRound   int               `json:"playoff_round,omitempty"`
	CurrentDate    string            `json:"current_date,omitempty"`
	ScoringProfile string            `json:"scoring_profile"`
	Matchups       []MatchupOverview `json:"matchups"`
}

// MatchupOverview is one matchup's running totals
type MatchupOverview struct {
	MatchupID  string                      `json:"matchup_id"`
	Bracket    string                      `json:"bracket_matchup,omitempty"`
	Status     WeekStatus                  `json:"status"`
	Leader     string                      `json:"leader,omitempty"`
	Days       []string                    `json:"days"`
	Teams      []TeamOverview              `json:"teams"`
	Categories *scoring.CategoryComparison `json:"categories,omitempty"`
}

// TeamOverview is one side of a matchup overview
type TeamOverview struct {
	Team        string                            `json:"team"`
	Seed        int                               `json:"seed,omitempty"`
	Total       float64                           `json:"total"`
	DailyTotals map[string]float64                `json:"daily_totals"`
	Players     []PlayerWeekTotal                 `json:"players"`
	Categories  map[string]scoring.CategoryResult `json:"categories,omitempty"`
}

// WeekOverview builds the overview for weekIndex. Zero selects the week of
// the current date, falling back to the latest simulated date and then to
// the first week.
func (e *Engine) WeekOverview(st *State, weekIndex int) (*WeekOverview, error) {
	if weekIndex == 0 {
		weekIndex = st.currentWeekIndex()
	}
	week, ok := st.Week(weekIndex)
	if !ok {
		return nil, notFoundf("week %d does not exist; the season has %d weeks", weekIndex, len(st.Weeks))
	}

	weekStatus := st.WeekStatus(*week)
	current, _ := st.CurrentDate()
	overview := &WeekOverview{
		LeagueID:       st.ID,
		WeekIndex:      week.Index,
		Name:           week.Name,
		Start:          week.Start,
		End:            week.End,
		Status:         weekStatus,
		Playoff:        week.Playoff,
		PlayoffRound:   week.PlayoffRound,
		CurrentDate:    current,
		ScoringProfile: st.ScoringProfileName,
		Matchups:       make([]MatchupOverview, 0, len(week.Matchups)),
	}

	for _, m := range week.Matchups {
		overview.Matchups = append(overview.Matchups, st.matchupOverview(m, weekStatus))
	}
	return overview, nil
}

func (s *State) matchupOverview(m Matchup, weekStatus WeekStatus) MatchupOverview {
	result, ok := s.WeeklyResults[m.ID]
	if !ok {
		result = newMatchupResult(m, 0)
	}

	view := MatchupOverview{
		MatchupID: m.ID,
		Bracket:   m.Bracket,
		Days:      append([]string{}, result.Days...),
		Status:    WeekNotStarted,
	}
	if len(result.Days) > 0 {
		view.Status = WeekInProgress
		if weekStatus == WeekCompleted {
			view.Status = WeekCompleted
		}
	}

	seeds := map[string]int{m.Home: m.HomeSeed, m.Away: m.AwaySeed}
	for _, team := range m.Teams() {
		total := result.Teams[team]
		if total == nil {
			total = newTeamWeekTotal(team)
		}
		view.Teams = append(view.Teams, teamOverview(total, seeds[team]))
	}

	home, away := view.Teams[0], view.Teams[1]
	switch {
	case home.Total > away.Total:
		view.Leader = home.Team
	case away.Total > home.Total:
		view.Leader = away.Team
	}

	if len(home.Categories) > 0 || len(away.Categories) > 0 {
		defs := definitionsFor(home.Categories)
		if len(defs) == 0 {
			defs = definitionsFor(away.Categories)
		}
		comparison := scoring.CompareCategories(home.Categories, away.Categories, defs)
		view.Categories = &comparison
	}
	return view
}

func teamOverview(total *TeamWeekTotal, seed int) TeamOverview {
	players := make([]PlayerWeekTotal, 0, len(total.Players))
	for _, p := range total.Players {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].FantasyPoints != players[j].FantasyPoints {
			return players[i].FantasyPoints > players[j].FantasyPoints
		}
		return players[i].PlayerID < players[j].PlayerID
	})

	daily := make(map[string]float64, len(total.DailyTotals))
	for date, v := range total.DailyTotals {
		daily[date] = v
	}
	return TeamOverview{
		Team:        total.Team,
		Seed:        seed,
		Total:       total.Total,
		DailyTotals: daily,
		Players:     players,
		Categories:  total.Categories,
	}
}

// currentWeekIndex returns the week of the current or latest simulated date
func (s *State) currentWeekIndex() int {
	date, ok := s.CurrentDate()
	if !ok {
		date = s.LatestSimulatedDate()
	}
	if date != "" {
		if week, ok := s.WeekForDate(date); ok {
			return week.Index
		}
	}
	return 1
}
