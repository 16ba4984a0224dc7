package league

import (
	"fmt"
	"sort"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/calendar"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/schedule"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
)

// buildWeeks lays out the regular-season weeks for a calendar, assigning
// round-robin pairings to each week
func buildWeeks(dates []string, teams []string) ([]Week, error) {
	ranges, err := calendar.ComputeWeekRanges(dates)
	if err != nil {
		return nil, err
	}

	pairings := schedule.WeeklyPairings(teams, len(ranges))
	weeks := make([]Week, len(ranges))
	for i, r := range ranges {
		index := i + 1
		matchups := make([]Matchup, len(pairings[i]))
		for j, p := range pairings[i] {
			matchups[j] = Matchup{
				ID:   fmt.Sprintf("week%d-matchup%d", index, j),
				Home: p.Home,
				Away: p.Away,
			}
		}
		weeks[i] = Week{
			Index:    index,
			Name:     fmt.Sprintf("Week %d", index),
			Start:    r.Start,
			End:      r.End,
			Matchups: matchups,
		}
	}
	return weeks, nil
}

// RebuildWeeklyResults recomputes every matchup aggregate from history.
// History is the source of truth, so re-simulated dates and rebound playoff
// weeks never leave stale or double-counted totals behind.
func (s *State) RebuildWeeklyResults() {
	results := make(map[string]*MatchupResult)
	for _, week := range s.Weeks {
		for _, m := range week.Matchups {
			results[m.ID] = newMatchupResult(m, week.Index)
		}
	}

	s.sortHistory()
	for _, record := range s.History {
		week, ok := s.WeekForDate(record.Date)
		if !ok {
			continue
		}
		applyDay(results, *week, record)
	}
	s.WeeklyResults = results
}

// applyDay merges one day's team results into the week's matchup entries
func applyDay(results map[string]*MatchupResult, week Week, record DayRecord) {
	for _, teamResult := range record.TeamResults {
		matchup, ok := findMatchup(week, teamResult.Team)
		if !ok {
			continue
		}

		entry, exists := results[matchup.ID]
		if !exists {
			entry = newMatchupResult(matchup, week.Index)
			results[matchup.ID] = entry
		}

		total, exists := entry.Teams[teamResult.Team]
		if !exists {
			total = newTeamWeekTotal(teamResult.Team)
			entry.Teams[teamResult.Team] = total
		}
		total.Total += teamResult.Total
		total.DailyTotals[record.Date] += teamResult.Total

		for _, p := range teamResult.Players {
			player, exists := total.Players[p.PlayerID]
			if !exists {
				player = &PlayerWeekTotal{PlayerID: p.PlayerID, PlayerName: p.PlayerName, Team: p.Team}
				total.Players[p.PlayerID] = player
			}
			player.FantasyPoints += p.FantasyPoints
			if p.Played {
				player.GamesPlayed++
			}
		}

		if len(teamResult.Categories) > 0 {
			total.Categories = scoring.MergeCategoryTotals(total.Categories, teamResult.Categories, definitionsFor(teamResult.Categories))
		}

		if !containsString(entry.Days, record.Date) {
			entry.Days = append(entry.Days, record.Date)
			sort.Strings(entry.Days)
		}
	}
}

func findMatchup(week Week, team string) (Matchup, bool) {
	for _, m := range week.Matchups {
		if m.Has(team) {
			return m, true
		}
	}
	return Matchup{}, false
}

func newMatchupResult(m Matchup, weekIndex int) *MatchupResult {
	result := &MatchupResult{
		MatchupID: m.ID,
		WeekIndex: weekIndex,
		Teams:     make(map[string]*TeamWeekTotal, 2),
		Days:      []string{},
	}
	for _, team := range m.Teams() {
		if team != "" {
			result.Teams[team] = newTeamWeekTotal(team)
		}
	}
	return result
}

func newTeamWeekTotal(team string) *TeamWeekTotal {
	return &TeamWeekTotal{
		Team:        team,
		Players:     make(map[int]*PlayerWeekTotal),
		DailyTotals: make(map[string]float64),
	}
}

// definitionsFor recovers the merge rules carried by stored category results
func definitionsFor(results map[string]scoring.CategoryResult) []scoring.CategoryDefinition {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	defs := make([]scoring.CategoryDefinition, len(keys))
	for i, k := range keys {
		r := results[k]
		defs[i] = scoring.CategoryDefinition{
			Key:            k,
			Label:          r.Label,
			Kind:           r.Kind,
			HigherIsBetter: r.HigherIsBetter,
			Precision:      r.Precision,
		}
	}
	return defs
}

// matchupTotals returns both teams' accumulated totals for a matchup
func (s *State) matchupTotals(m Matchup) (home, away float64) {
	entry, ok := s.WeeklyResults[m.ID]
	if !ok {
		return 0, 0
	}
	if t, ok := entry.Teams[m.Home]; ok {
		home = t.Total
	}
	if t, ok := entry.Teams[m.Away]; ok {
		away = t.Total
	}
	return home, away
}

func containsString(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
