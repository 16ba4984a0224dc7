package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

const sampleLogs = `player_id,player_name,team_abbreviation,game_id,game_date,MINUTES,PTS,REB,OREB,DREB,AST,STL,BLK,FG3M,FG3A,FGM,FGA,FTM,FTA,TOV,PF,PLUS_MINUS,IS_HOME,HUSTLE
1,Alpha Guard,bos,1001.0,2024-10-22T00:00:00,34:30,28,11,2,9,4,1,0,3,7,10,18,5,6,2,3,12,true,4
2,Beta Center,nyk,1001,2024-10-22,0,,,,,,,,,,,,,,,,,false,
`

const sampleSchedule = `GAME_ID,GAME_DATE,STATUS,HOME_TEAM_ABBREVIATION,HOME_TEAM_FULL_NAME,HOME_TEAM_SCORE,VISITOR_TEAM_ABBREVIATION,VISITOR_TEAM_FULL_NAME,VISITOR_TEAM_SCORE,PERIOD,TIME
1001,2024-10-22,Final,BOS,Boston Celtics,132,NYK,New York Knicks,109,4,
1002,"Oct 23, 2024",7:30 pm ET,lal,,,MIN,,,,
`

func TestParseGameLogs(t *testing.T) {
	rows, err := ParseGameLogs(strings.NewReader(sampleLogs))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	alpha := rows[0]
	if alpha.PlayerID != 1 || alpha.PlayerName != "Alpha Guard" || alpha.Team != "BOS" {
		t.Errorf("Unexpected identity %+v", alpha)
	}
	if alpha.GameID != "1001" || alpha.GameDate != "2024-10-22" {
		t.Errorf("Expected game 1001 on 2024-10-22, got %s on %s", alpha.GameID, alpha.GameDate)
	}
	if alpha.Minutes != 34.5 {
		t.Errorf("Expected 34.5 minutes, got %v", alpha.Minutes)
	}

	tests := []struct {
		key      string
		expected float64
	}{
		{"PTS", 28},
		{"TREB", 11},
		{"3PM", 3},
		{"3PA", 7},
		{"TO", 2},
		{"FG_MISS", 8},
		{"DD", 1},
		{"HUSTLE", 4},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := alpha.Value(tt.key)
			if !ok {
				t.Fatalf("Expected %s to be present", tt.key)
			}
			if got != tt.expected {
				t.Errorf("Expected %s = %v, got %v", tt.key, tt.expected, got)
			}
		})
	}

	if _, ok := alpha.Value("IS_HOME"); ok {
		t.Error("Expected IS_HOME to be ignored")
	}
	if rows[1].Played() {
		t.Error("Expected blank row to be a DNP")
	}
}

func TestParseGameLogsRequiresColumns(t *testing.T) {
	_, err := ParseGameLogs(strings.NewReader("PLAYER_ID,PTS\n1,10\n"))
	if err == nil {
		t.Fatal("Expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "PLAYER_NAME, GAME_DATE") {
		t.Errorf("Expected missing columns listed, got %v", err)
	}
}

func TestParseSchedule(t *testing.T) {
	games, err := ParseSchedule(strings.NewReader(sampleSchedule))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(games))
	}
	if games[0].Winner() != "BOS" || games[0].HomeTeamName != "Boston Celtics" {
		t.Errorf("Unexpected first game %+v", games[0])
	}
	if games[1].Date != "2024-10-23" {
		t.Errorf("Expected 2024-10-23, got %s", games[1].Date)
	}
	if games[1].HomeTeam != "LAL" || games[1].HomeTeamName != "LAL" || games[1].Final() {
		t.Errorf("Unexpected scheduled game %+v", games[1])
	}
}

func TestFilesLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	logsPath := filepath.Join(dir, "logs.csv")
	schedulePath := filepath.Join(dir, "games.csv")
	if err := os.WriteFile(logsPath, []byte(sampleLogs), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(schedulePath, []byte(sampleSchedule), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, hook := test.NewNullLogger()
	files := NewFiles(logsPath, schedulePath, logger)

	for i := 0; i < 2; i++ {
		if _, err := files.GameLogs(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	// Removing the file after the first read must not matter
	os.Remove(logsPath)
	rows, err := files.GameLogs()
	if err != nil || len(rows) != 2 {
		t.Errorf("Expected cached rows, got %d rows and %v", len(rows), err)
	}
	if _, err := files.Schedule(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(hook.Entries) != 2 {
		t.Errorf("Expected one load log per file, got %d", len(hook.Entries))
	}
}

func TestFilesMissingData(t *testing.T) {
	logger, _ := test.NewNullLogger()
	files := NewFiles(filepath.Join(t.TempDir(), "absent.csv"), "", logger)

	_, err := files.GameLogs()
	if !errors.Is(err, ErrMissingData) {
		t.Errorf("Expected ErrMissingData, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "download_player_stats.py") {
		t.Errorf("Expected download hint in error, got %v", err)
	}
	if _, err := files.Schedule(); !errors.Is(err, ErrMissingData) {
		t.Errorf("Expected ErrMissingData for unset path, got %v", err)
	}
}
