package league

import "sort"

// StandingEntry represents a team's regular-season record
type StandingEntry struct {
	Rank           int     `json:"rank"`
	Team           string  `json:"team"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Ties           int     `json:"ties"`
	GamesPlayed    int     `json:"games_played"`
	WinPct         float64 `json:"win_pct"`
	PointsFor      float64 `json:"points_for"`
	PointsAgainst  float64 `json:"points_against"`
	PointDiff      float64 `json:"point_diff"`
	PlayoffSeed    int     `json:"playoff_seed,omitempty"`
	PlayoffOutcome string  `json:"playoff_outcome,omitempty"`
}

// Standings computes head-to-head standings from regular-season weeks.
// When beforeWeek is positive only weeks with a smaller index count.
// Points accrue for started weeks; results only for completed ones.
func (s *State) Standings(beforeWeek int) []StandingEntry {
	records := make(map[string]*StandingEntry, len(s.TeamNames))
	for _, team := range s.TeamNames {
		records[team] = &StandingEntry{Team: team}
	}

	playoffWeeks := make(map[int]bool)
	if s.Playoffs.Enabled {
		for _, w := range s.Playoffs.Weeks {
			playoffWeeks[w] = true
		}
	}

	for _, week := range s.Weeks {
		if week.Playoff || playoffWeeks[week.Index] {
			continue
		}
		if beforeWeek > 0 && week.Index >= beforeWeek {
			continue
		}
		status := s.WeekStatus(week)
		if status == WeekNotStarted {
			continue
		}

		for _, m := range week.Matchups {
			home, away := records[m.Home], records[m.Away]
			if home == nil || away == nil {
				continue
			}
			homeTotal, awayTotal := s.matchupTotals(m)

			home.PointsFor += homeTotal
			home.PointsAgainst += awayTotal
			away.PointsFor += awayTotal
			away.PointsAgainst += homeTotal

			if status != WeekCompleted {
				continue
			}
			switch {
			case homeTotal > awayTotal:
				home.Wins++
				away.Losses++
			case awayTotal > homeTotal:
				away.Wins++
				home.Losses++
			default:
				home.Ties++
				away.Ties++
			}
		}
	}

	standings := make([]StandingEntry, 0, len(records))
	for _, team := range s.TeamNames {
		entry := records[team]
		entry.GamesPlayed = entry.Wins + entry.Losses + entry.Ties
		if entry.GamesPlayed > 0 {
			entry.WinPct = (float64(entry.Wins) + 0.5*float64(entry.Ties)) / float64(entry.GamesPlayed)
		}
		entry.PointDiff = entry.PointsFor - entry.PointsAgainst
		standings = append(standings, *entry)
	}

	sortStandings(standings)
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// sortStandings orders by win percentage, wins, point differential and
// points for, all descending, then by team name
func sortStandings(standings []StandingEntry) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.WinPct != b.WinPct {
			return a.WinPct > b.WinPct
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return a.Team < b.Team
	})
}

// AnnotatedStandings returns the full regular-season standings with playoff
// seeds and, once the bracket is decided, each team's playoff outcome
func (s *State) AnnotatedStandings() []StandingEntry {
	standings := s.Standings(0)
	if s.Bracket == nil {
		return standings
	}

	outcomes := make(map[string]string, len(s.Bracket.Placements))
	for _, p := range s.Bracket.Placements {
		outcomes[p.Team] = p.Outcome
	}
	for i := range standings {
		standings[i].PlayoffSeed = s.Bracket.seedOf(standings[i].Team)
		standings[i].PlayoffOutcome = outcomes[standings[i].Team]
	}
	return standings
}
