package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for every calendar date
const DateLayout = "2006-01-02"

// Game represents one row of the season schedule
type Game struct {
	GameID       string `json:"game_id"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	HomeTeam     string `json:"home_team"`
	HomeTeamName string `json:"home_team_name,omitempty"`
	AwayTeam     string `json:"away_team"`
	AwayTeamName string `json:"away_team_name,omitempty"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`
	Period       int    `json:"period"`
	Time         string `json:"time"`
}

// Final reports whether the game has finished
func (g Game) Final() bool {
	return strings.HasPrefix(strings.ToLower(g.Status), "final")
}

// Winner returns the winning team abbreviation, or "" when the game is not
// final or ended level
func (g Game) Winner() string {
	if !g.Final() {
		return ""
	}
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeTeam
	case g.AwayScore > g.HomeScore:
		return g.AwayTeam
	}
	return ""
}

// ScoreboardEntry is a game as shown on a day's scoreboard
type ScoreboardEntry struct {
	Game
	Winner    string `json:"winner,omitempty"`
	Simulated bool   `json:"simulated"`
}

// WeekRange is an inclusive span of dates forming one fantasy week
type WeekRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date falls inside the range
func (w WeekRange) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// ParseDate parses an ISO date
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate renders t as an ISO date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SeasonDates returns the sorted distinct game dates in the schedule
func SeasonDates(games []Game) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, g := range games {
		if g.Date == "" || seen[g.Date] {
			continue
		}
		seen[g.Date] = true
		dates = append(dates, g.Date)
	}
	sort.Strings(dates)
	return dates
}

// DailyScoreboard lists the games played on date
func DailyScoreboard(games []Game, date string) []ScoreboardEntry {
	var board []ScoreboardEntry
	for _, g := range games {
		if g.Date != date {
			continue
		}
		board = append(board, ScoreboardEntry{Game: g, Winner: g.Winner()})
	}
	return board
}

// ComputeWeekRanges groups calendar dates into fantasy weeks. Week 1 runs
// from the first date through that week's Sunday; later weeks are full
// Monday to Sunday spans until the last date is covered.
func ComputeWeekRanges(dates []string) ([]WeekRange, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)

	first, err := ParseDate(sorted[0])
	if err != nil {
		return nil, err
	}
	last, err := ParseDate(sorted[len(sorted)-1])
	if err != nil {
		return nil, err
	}

	firstMonday := weekMonday(first)
	ranges := []WeekRange{{
		Start: FormatDate(first),
		End:   FormatDate(firstMonday.AddDate(0, 0, 6)),
	}}

	for monday := firstMonday.AddDate(0, 0, 7); !monday.After(last); monday = monday.AddDate(0, 0, 7) {
		ranges = append(ranges, WeekRange{
			Start: FormatDate(monday),
			End:   FormatDate(monday.AddDate(0, 0, 6)),
		})
	}
	return ranges, nil
}

// FindWeek returns the index of the range containing date. A date past the
// final range maps to the last range; a date before the first, or an empty
// range list, gives -1.
func FindWeek(ranges []WeekRange, date string) int {
	for i, r := range ranges {
		if r.Contains(date) {
			return i
		}
	}
	if n := len(ranges); n > 0 && date > ranges[n-1].End {
		return n - 1
	}
	return -1
}

// weekMonday returns the Monday on or before t
func weekMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
