package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/calendar"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
	"github.com/sirupsen/logrus"
)

// ErrMissingData is returned when a cached CSV file does not exist
var ErrMissingData = errors.New("cached data file not found")

// Identity columns of the game log table
const (
	colPlayerID   = "PLAYER_ID"
	colPlayerName = "PLAYER_NAME"
	colTeam       = "TEAM_ABBREVIATION"
	colGameID     = "GAME_ID"
	colGameDate   = "GAME_DATE"
)

// Schedule columns
const (
	colStatus       = "STATUS"
	colHomeTeam     = "HOME_TEAM_ABBREVIATION"
	colHomeTeamName = "HOME_TEAM_FULL_NAME"
	colHomeScore    = "HOME_TEAM_SCORE"
	colVisitorTeam  = "VISITOR_TEAM_ABBREVIATION"
	colVisitorName  = "VISITOR_TEAM_FULL_NAME"
	colVisitorScore = "VISITOR_TEAM_SCORE"
	colPeriod       = "PERIOD"
	colTime         = "TIME"
)

const downloadHint = "run `python scripts/download_player_stats.py` to cache the season first"

// descriptive columns carried in game logs that are never statistics
var ignoredLogColumns = map[string]bool{
	"PLAYER_POSITION": true,
	"TEAM_ID":         true,
	"GAME_SEASON":     true,
	"IS_HOME":         true,
	"SEASON_ID":       true,
	"MATCHUP":         true,
	"WL":              true,
	"VIDEO_AVAILABLE": true,
}

var dateLayouts = []string{
	calendar.DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"Jan 02, 2006",
	"01/02/2006",
}

// Files loads the season game logs and schedule from cached CSV files.
// Each file is read once, on first use.
type Files struct {
	GameLogsPath string
	SchedulePath string

	logger *logrus.Logger

	logsOnce sync.Once
	logs     []stats.PlayerStatRow
	logsErr  error

	scheduleOnce sync.Once
	schedule     []calendar.Game
	scheduleErr  error
}

// NewFiles creates a CSV-backed data source
func NewFiles(gameLogsPath, schedulePath string, logger *logrus.Logger) *Files {
	return &Files{GameLogsPath: gameLogsPath, SchedulePath: schedulePath, logger: logger}
}

// GameLogs returns every per-game player row of the season
func (f *Files) GameLogs() ([]stats.PlayerStatRow, error) {
	f.logsOnce.Do(func() {
		f.logs, f.logsErr = readFile(f.GameLogsPath, "game logs", ParseGameLogs)
		if f.logsErr == nil {
			f.logger.WithFields(logrus.Fields{
				"path": f.GameLogsPath,
				"rows": len(f.logs),
			}).Info("Loaded game logs")
		}
	})
	return f.logs, f.logsErr
}

// Schedule returns every game of the season
func (f *Files) Schedule() ([]calendar.Game, error) {
	f.scheduleOnce.Do(func() {
		f.schedule, f.scheduleErr = readFile(f.SchedulePath, "game schedule", ParseSchedule)
		if f.scheduleErr == nil {
			f.logger.WithFields(logrus.Fields{
				"path":  f.SchedulePath,
				"games": len(f.schedule),
			}).Info("Loaded game schedule")
		}
	})
	return f.schedule, f.scheduleErr
}

func readFile[T any](path, what string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, fmt.Errorf("no %s path configured: %w", what, ErrMissingData)
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("missing cached %s at %s (%s): %w", what, path, downloadHint, ErrMissingData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", what, err)
	}
	defer file.Close()

	rows, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s at %s: %w", what, path, err)
	}
	return rows, nil
}

// table is a CSV file with upper-cased headers
type table struct {
	reader  *csv.Reader
	headers []string
	index   map[string]int
	line    int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &table{reader: reader, index: make(map[string]int, len(headers)), line: 1}
	for i, h := range headers {
		name := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		t.headers = append(t.headers, name)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return t, nil
}

// next returns the following record, or io.EOF
func (t *table) next() ([]string, error) {
	record, err := t.reader.Read()
	t.line++
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("line %d: %w", t.line, err)
	}
	return record, err
}

func (t *table) get(record []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ParseGameLogs reads per-game player rows. Statistic columns are routed
// through their canonical keys, so REB, FG3M, MINUTES and TOV land on the
// same fields as TREB, 3PM, MPG and TO.
func ParseGameLogs(r io.Reader) ([]stats.PlayerStatRow, error) {
	t, err := newTable(r, colPlayerID, colPlayerName, colGameDate)
	if err != nil {
		return nil, err
	}

	var rows []stats.PlayerStatRow
	for {
		record, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row, err := t.gameLogRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", t.line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *table) gameLogRow(record []string) (stats.PlayerStatRow, error) {
	var row stats.PlayerStatRow

	id, err := parseInt(t.get(record, colPlayerID))
	if err != nil {
		return row, fmt.Errorf("invalid %s: %w", colPlayerID, err)
	}
	date, err := normalizeDate(t.get(record, colGameDate))
	if err != nil {
		return row, fmt.Errorf("invalid %s: %w", colGameDate, err)
	}
	row.PlayerID = id
	row.PlayerName = t.get(record, colPlayerName)
	row.Team = strings.ToUpper(t.get(record, colTeam))
	row.GameID = normalizeGameID(t.get(record, colGameID))
	row.GameDate = date

	for i, col := range t.headers {
		if i >= len(record) || ignoredLogColumns[col] {
			continue
		}
		switch col {
		case colPlayerID, colPlayerName, colTeam, colGameID, colGameDate:
			continue
		}
		value, ok := parseStat(col, record[i])
		if !ok {
			continue
		}
		row.Set(col, value)
	}
	return row, nil
}

// ParseSchedule reads the season's games
func ParseSchedule(r io.Reader) ([]calendar.Game, error) {
	t, err := newTable(r, colGameID, colGameDate)
	if err != nil {
		return nil, err
	}

	var games []calendar.Game
	for {
		record, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := normalizeDate(t.get(record, colGameDate))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", t.line, colGameDate, err)
		}
		home := strings.ToUpper(t.get(record, colHomeTeam))
		away := strings.ToUpper(t.get(record, colVisitorTeam))
		games = append(games, calendar.Game{
			GameID:       normalizeGameID(t.get(record, colGameID)),
			Date:         date,
			Status:       t.get(record, colStatus),
			HomeTeam:     home,
			HomeTeamName: fallback(t.get(record, colHomeTeamName), home),
			AwayTeam:     away,
			AwayTeamName: fallback(t.get(record, colVisitorName), away),
			HomeScore:    lenientInt(t.get(record, colHomeScore)),
			AwayScore:    lenientInt(t.get(record, colVisitorScore)),
			Period:       lenientInt(t.get(record, colPeriod)),
			Time:         t.get(record, colTime),
		})
	}
	return games, nil
}

// normalizeDate accepts the date shapes found in cached files and returns YYYY-MM-DD
func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) > 10 && value[4] == '-' && value[7] == '-' {
		if _, err := time.Parse(calendar.DateLayout, value[:10]); err == nil {
			return value[:10], nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return calendar.FormatDate(t), nil
		}
	}
	return "", fmt.Errorf("unrecognized date '%s'", value)
}

// normalizeGameID drops the float suffix pandas adds to integer ids
func normalizeGameID(value string) string {
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return value
}

// parseStat converts a statistic cell. Blank cells count as zero and
// minutes may be written as MM:SS.
func parseStat(col, value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, true
	}
	if stats.CanonicalKey(col) == stats.KeyMinutes && strings.Contains(value, ":") {
		parts := strings.SplitN(value, ":", 2)
		minutes, err1 := strconv.ParseFloat(parts[0], 64)
		seconds, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return minutes + seconds/60, true
	}
	switch strings.ToLower(value) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseInt(value string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func lenientInt(value string) int {
	n, err := parseInt(value)
	if err != nil {
		return 0
	}
	return n
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
