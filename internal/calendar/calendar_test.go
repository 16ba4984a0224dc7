package calendar

import (
	"testing"
	"time"
)

func TestComputeWeekRanges(t *testing.T) {
	tests := []struct {
		name     string
		dates    []string
		expected []WeekRange
	}{
		{
			name:     "empty calendar",
			dates:    nil,
			expected: nil,
		},
		{
			name:  "tuesday start",
			dates: []string{"2024-10-22", "2024-10-25", "2024-10-28", "2024-11-04"},
			expected: []WeekRange{
				{Start: "2024-10-22", End: "2024-10-27"},
				{Start: "2024-10-28", End: "2024-11-03"},
				{Start: "2024-11-04", End: "2024-11-10"},
			},
		},
		{
			name:  "sunday start",
			dates: []string{"2024-10-27", "2024-10-28"},
			expected: []WeekRange{
				{Start: "2024-10-27", End: "2024-10-27"},
				{Start: "2024-10-28", End: "2024-11-03"},
			},
		},
		{
			name:  "monday start unsorted input",
			dates: []string{"2024-11-05", "2024-10-28"},
			expected: []WeekRange{
				{Start: "2024-10-28", End: "2024-11-03"},
				{Start: "2024-11-04", End: "2024-11-10"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := ComputeWeekRanges(tt.dates)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(ranges) != len(tt.expected) {
				t.Fatalf("Expected %d weeks, got %d: %v", len(tt.expected), len(ranges), ranges)
			}
			for i := range ranges {
				if ranges[i] != tt.expected[i] {
					t.Errorf("Week %d: expected %v, got %v", i+1, tt.expected[i], ranges[i])
				}
			}
		})
	}
}

func TestFirstWeekSpanLength(t *testing.T) {
	// Monday=1 .. Sunday=7; week 1 spans 8-startWeekday days
	start := time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC) // Monday
	for weekday := 1; weekday <= 7; weekday++ {
		first := start.AddDate(0, 0, weekday-1)
		last := first.AddDate(0, 0, 20)

		ranges, err := ComputeWeekRanges([]string{FormatDate(first), FormatDate(last)})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		s, _ := ParseDate(ranges[0].Start)
		e, _ := ParseDate(ranges[0].End)
		span := int(e.Sub(s).Hours()/24) + 1
		if span != 8-weekday {
			t.Errorf("Weekday %d: expected week 1 span %d, got %d", weekday, 8-weekday, span)
		}

		for i := 1; i < len(ranges); i++ {
			s, _ := ParseDate(ranges[i].Start)
			e, _ := ParseDate(ranges[i].End)
			if s.Weekday() != time.Monday || int(e.Sub(s).Hours()/24)+1 != 7 {
				t.Errorf("Weekday %d: week %d is not a Monday-Sunday span: %v", weekday, i+1, ranges[i])
			}
		}
		if ranges[len(ranges)-1].End < FormatDate(last) {
			t.Errorf("Weekday %d: last week %v does not cover %s", weekday, ranges[len(ranges)-1], FormatDate(last))
		}
	}
}

func TestSeasonDatesAndScoreboard(t *testing.T) {
	games := []Game{
		{GameID: "3", Date: "2024-10-23", Status: "Final", HomeTeam: "BOS", AwayTeam: "NYK", HomeScore: 110, AwayScore: 100},
		{GameID: "1", Date: "2024-10-22", Status: "Final/OT", HomeTeam: "LAL", AwayTeam: "MIN", HomeScore: 98, AwayScore: 103},
		{GameID: "2", Date: "2024-10-23", Status: "7:30 pm ET", HomeTeam: "PHX", AwayTeam: "LAC"},
	}

	dates := SeasonDates(games)
	if len(dates) != 2 || dates[0] != "2024-10-22" || dates[1] != "2024-10-23" {
		t.Fatalf("Expected two sorted dates, got %v", dates)
	}

	board := DailyScoreboard(games, "2024-10-23")
	if len(board) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(board))
	}
	if board[0].Winner != "BOS" {
		t.Errorf("Expected BOS to win, got %q", board[0].Winner)
	}
	if board[1].Winner != "" {
		t.Errorf("Expected no winner for unfinished game, got %q", board[1].Winner)
	}

	overtime := DailyScoreboard(games, "2024-10-22")
	if overtime[0].Winner != "MIN" {
		t.Errorf("Expected MIN to win in overtime, got %q", overtime[0].Winner)
	}
}

func TestFindWeek(t *testing.T) {
	ranges := []WeekRange{
		{Start: "2024-10-22", End: "2024-10-27"},
		{Start: "2024-10-28", End: "2024-11-03"},
	}

	if got := FindWeek(ranges, "2024-10-30"); got != 1 {
		t.Errorf("Expected week index 1, got %d", got)
	}
	if got := FindWeek(ranges, "2024-12-01"); got != 1 {
		t.Errorf("Expected a date past the season to map to the last week, got %d", got)
	}
	if got := FindWeek(ranges, "2024-10-01"); got != -1 {
		t.Errorf("Expected -1 before the season, got %d", got)
	}
	if got := FindWeek(nil, "2024-10-30"); got != -1 {
		t.Errorf("Expected -1 without weeks, got %d", got)
	}
}
