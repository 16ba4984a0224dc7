package league

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/calendar"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/scoring"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/stats"
	"github.com/sirupsen/logrus/hooks/test"
)

// MockDataSource is a mock implementation of DataSource
type MockDataSource struct {
	GameLogsFunc func() ([]stats.PlayerStatRow, error)
	ScheduleFunc func() ([]calendar.Game, error)
}

func (m *MockDataSource) GameLogs() ([]stats.PlayerStatRow, error) {
	if m.GameLogsFunc != nil {
		return m.GameLogsFunc()
	}
	return nil, nil
}

func (m *MockDataSource) Schedule() ([]calendar.Game, error) {
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc()
	}
	return nil, nil
}

var fixedNow = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)

// weekDate returns the single game date of fixture week n, always a Monday
func weekDate(n int) string {
	return time.Date(2024, 10, 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(n-1)).Format(calendar.DateLayout)
}

// fixtureSource builds a season with one game date per week in which player
// id scores points[id] every date
func fixtureSource(weeks int, points map[int]float64) *MockDataSource {
	var logs []stats.PlayerStatRow
	var games []calendar.Game
	for w := 1; w <= weeks; w++ {
		date := weekDate(w)
		gameID := fmt.Sprintf("G%02d", w)
		games = append(games, calendar.Game{
			GameID:    gameID,
			Date:      date,
			Status:    "Final",
			HomeTeam:  "BOS",
			AwayTeam:  "NYK",
			HomeScore: 110,
			AwayScore: 101,
		})
		for id := 1; id <= len(points); id++ {
			logs = append(logs, stats.PlayerStatRow{
				PlayerID:   id,
				PlayerName: fmt.Sprintf("Player %d", id),
				Team:       "BOS",
				GameID:     gameID,
				GameDate:   date,
				Minutes:    30,
				Points:     points[id],
			})
		}
	}
	return &MockDataSource{
		GameLogsFunc: func() ([]stats.PlayerStatRow, error) { return logs, nil },
		ScheduleFunc: func() ([]calendar.Game, error) { return games, nil },
	}
}

func pointsOnlyRegistry(t *testing.T) *scoring.Registry {
	t.Helper()
	registry, err := scoring.NewRegistry(map[string]scoring.Profile{
		"pts": {Name: "Points Only", Weights: map[string]float64{"PTS": 1}},
		"nine_cat": {
			Name:       "9-Category",
			Weights:    map[string]float64{"PTS": 1},
			Categories: scoring.NineCategoryDefinitions(),
		},
	}, "pts")
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	return registry
}

func newTestEngine(t *testing.T, src DataSource) (*Engine, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	engine := NewEngine(pointsOnlyRegistry(t), src, logger,
		WithClock(func() time.Time { return fixedNow }),
		WithRand(rand.New(rand.NewSource(7))),
		WithNamePool(nil),
	)
	return engine, hook
}

// fourTeamLeague creates teams A-D with one player each: A has player 1
// (the best) through D with player 4
func fourTeamLeague(t *testing.T, weeks int, playoffs *PlayoffConfig) (*Engine, *State, *test.Hook) {
	t.Helper()
	engine, hook := newTestEngine(t, fixtureSource(weeks, map[int]float64{1: 20, 2: 15, 3: 10, 4: 5}))
	st, err := engine.Create("league-1", CreateLeagueRequest{
		Name:       "Test League",
		TeamCount:  4,
		RosterSize: 1,
		TeamNames:  []string{"A", "B", "C", "D"},
		Playoffs:   playoffs,
	})
	if err != nil {
		t.Fatalf("Failed to create league: %v", err)
	}
	return engine, st, hook
}

// MockStore is an in-memory Store with optimistic versioning. SaveFunc, when
// set, replaces the default save behavior.
type MockStore struct {
	mu       sync.Mutex
	leagues  map[string][]byte
	versions map[string]int64
	SaveFunc func(ctx context.Context, st *State) error
}

func newMockStore() *MockStore {
	return &MockStore{leagues: make(map[string][]byte), versions: make(map[string]int64)}
}

func (m *MockStore) Load(ctx context.Context, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.leagues[id]
	if !ok {
		return nil, NotFound(id)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (m *MockStore) Save(ctx context.Context, st *State) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, st)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if current := m.versions[st.ID]; current != st.Version {
		return Conflict(st.ID, st.Version, current)
	}
	st.Version++
	data, err := json.Marshal(st)
	if err != nil {
		st.Version--
		return err
	}
	m.leagues[st.ID] = data
	m.versions[st.ID] = st.Version
	return nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leagues[id]; !ok {
		return NotFound(id)
	}
	delete(m.leagues, id)
	delete(m.versions, id)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var summaries []Summary
	for _, data := range m.leagues {
		var st State
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, err
		}
		summaries = append(summaries, st.Summarize())
	}
	return summaries, nil
}
