package league

import (
	"sort"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/calendar"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
	"github.com/sirupsen/logrus"
)

// SimulateDay scores today's games for every team. An empty profileKey
// scores with the league's own profile.
func (e *Engine) SimulateDay(st *State, profileKey string) (*DayRecord, error) {
	if st.DraftActive() {
		return nil, stateErrorf("complete the draft before simulating games")
	}
	if st.Phase == PhaseFinished {
		return nil, stateErrorf("the league has finished; no further games can be simulated")
	}
	date, ok := st.CurrentDate()
	if !ok {
		return nil, stateErrorf("the season simulation has already completed")
	}
	if !st.AwaitingSimulation {
		return nil, stateErrorf("games for %s have already been simulated; advance to the next day", date)
	}
	if err := e.startPlayoffsIfDue(st); err != nil {
		return nil, err
	}

	profile, err := e.resolveProfile(st, profileKey)
	if err != nil {
		return nil, err
	}
	record, err := e.scoreDate(st, date, profile)
	if err != nil {
		return nil, err
	}

	st.recordDay(*record)
	st.AwaitingSimulation = false
	e.resolvePlayoffs(st)

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"date":      date,
		"week":      record.WeekIndex,
		"profile":   profile.Key,
		"phase":     st.Phase,
	}).Info("Simulated day")
	return record, nil
}

// ResimulateDay re-scores an already simulated date, replacing its record.
// Dates in the week of a decided playoff round are locked.
func (e *Engine) ResimulateDay(st *State, date, profileKey string) (*DayRecord, error) {
	if st.DraftActive() {
		return nil, stateErrorf("complete the draft before simulating games")
	}
	if st.Phase == PhaseFinished {
		return nil, stateErrorf("the league has finished; results are final")
	}
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, configErrorf("invalid date '%s': expected YYYY-MM-DD", date)
	}
	if !st.Simulated(date) {
		return nil, stateErrorf("%s has not been simulated yet", date)
	}
	if week, ok := st.WeekForDate(date); ok && week.Playoff && st.Bracket != nil {
		if round, ok := st.Bracket.Round(week.PlayoffRound); ok && round.Status == RoundCompleted {
			return nil, stateErrorf("%s belongs to a decided playoff round", date)
		}
	}

	profile, err := e.resolveProfile(st, profileKey)
	if err != nil {
		return nil, err
	}
	record, err := e.scoreDate(st, date, profile)
	if err != nil {
		return nil, err
	}

	st.recordDay(*record)
	e.resolvePlayoffs(st)

	e.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"date":      date,
		"profile":   profile.Key,
	}).Info("Re-simulated day")
	return record, nil
}

func (e *Engine) resolveProfile(st *State, key string) (scoring.Profile, error) {
	if key == "" {
		key = st.ScoringProfileKey
	}
	profile, err := e.profiles.Resolve(key)
	if err != nil {
		return scoring.Profile{}, classify(err)
	}
	return profile, nil
}

// scoreDate computes every team's fantasy score for date from the game logs.
// A rostered player with no log row for the date contributes zero and is
// marked as not having played.
func (e *Engine) scoreDate(st *State, date string, profile scoring.Profile) (*DayRecord, error) {
	logs, games, err := e.loadData()
	if err != nil {
		return nil, err
	}

	if err := scoring.ValidateWeights(logs, profile.Weights); err != nil {
		return nil, classify(err)
	}
	byPlayer := make(map[int][]scoring.ScoredRow)
	for _, row := range stats.FilterByDate(logs, date) {
		byPlayer[row.PlayerID] = append(byPlayer[row.PlayerID], scoring.ScoredRow{
			PlayerStatRow: row,
			FantasyPoints: scoring.FantasyPoints(row, profile.Weights),
		})
	}
	directory := playerDirectory(logs)

	results := make([]TeamResult, 0, len(st.TeamNames))
	for _, team := range st.TeamNames {
		result := TeamResult{Team: team, Players: []PlayerContribution{}}
		var teamRows []stats.PlayerStatRow

		for _, id := range st.Rosters[team] {
			contribution := PlayerContribution{PlayerID: id}
			rows := byPlayer[id]
			if len(rows) == 0 {
				meta := directory[id]
				contribution.PlayerName = meta.PlayerName
				contribution.Team = meta.Team
			}
			for _, row := range rows {
				contribution.PlayerName = row.PlayerName
				contribution.Team = row.Team
				contribution.FantasyPoints += row.FantasyPoints
				contribution.Played = true
				teamRows = append(teamRows, row.PlayerStatRow)
			}
			result.Total += contribution.FantasyPoints
			result.Players = append(result.Players, contribution)
		}

		if len(profile.Categories) > 0 {
			result.Categories = scoring.ComputeCategoryTotals(teamRows, profile.Categories)
		}
		results = append(results, result)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Total > results[j].Total
	})

	scoreboard := calendar.DailyScoreboard(games, date)
	for i := range scoreboard {
		scoreboard[i].Simulated = true
	}

	record := &DayRecord{
		Date:              date,
		ScoringProfile:    profile.Name,
		ScoringProfileKey: profile.Key,
		TeamResults:       results,
		Scoreboard:        scoreboard,
		SimulatedAt:       e.now().UTC(),
	}
	if week, ok := st.WeekForDate(date); ok {
		record.WeekIndex = week.Index
	}
	return record, nil
}

// recordDay stores record, replacing any earlier record for the same date,
// and recomputes weekly aggregates
func (s *State) recordDay(record DayRecord) {
	kept := s.History[:0]
	for _, existing := range s.History {
		if existing.Date != record.Date {
			kept = append(kept, existing)
		}
	}
	s.History = append(kept, record)
	s.RebuildWeeklyResults()
}

// playerDirectory maps player ids to their most recent name and team
func playerDirectory(logs []stats.PlayerStatRow) map[int]stats.PlayerStatRow {
	directory := make(map[int]stats.PlayerStatRow)
	for _, row := range logs {
		current, ok := directory[row.PlayerID]
		if !ok || row.GameDate >= current.GameDate {
			directory[row.PlayerID] = stats.PlayerStatRow{
				PlayerID:   row.PlayerID,
				PlayerName: row.PlayerName,
				Team:       row.Team,
				GameDate:   row.GameDate,
			}
		}
	}
	return directory
}
