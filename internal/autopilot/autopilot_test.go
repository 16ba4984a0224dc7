package autopilot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus/hooks/test"
)

// MockTicker is a mock implementation of Ticker
type MockTicker struct {
	mu            sync.Mutex
	calls         map[string]int
	TickFunc      func(ctx context.Context, id string) (*league.State, error)
	GetLeagueFunc func(ctx context.Context, id string) (*league.State, error)
}

func (m *MockTicker) Tick(ctx context.Context, id string) (*league.State, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[id]++
	m.mu.Unlock()
	return m.TickFunc(ctx, id)
}

func (m *MockTicker) GetLeague(ctx context.Context, id string) (*league.State, error) {
	if m.GetLeagueFunc != nil {
		return m.GetLeagueFunc(ctx, id)
	}
	return nil, league.NotFound(id)
}

func (m *MockTicker) count(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

func TestRunOnce(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ticks := 0
	ticker := &MockTicker{
		TickFunc: func(ctx context.Context, id string) (*league.State, error) {
			switch id {
			case "running":
				ticks++
				phase := league.PhaseRegular
				if ticks >= 2 {
					phase = league.PhaseFinished
				}
				return &league.State{ID: id, Phase: phase, Calendar: []string{"2024-10-22"}}, nil
			case "drafting":
				return nil, &league.Error{Type: league.ErrTypeState, Message: "complete the draft before simulating games"}
			case "done":
				return nil, &league.Error{Type: league.ErrTypeState, Message: "the season is finished"}
			}
			return nil, league.NotFound(id)
		},
		GetLeagueFunc: func(ctx context.Context, id string) (*league.State, error) {
			phase := league.PhaseRegular
			if id == "done" {
				phase = league.PhaseFinished
			}
			return &league.State{ID: id, Phase: phase}, nil
		},
	}

	a, err := New(ticker, []string{"running", "drafting", "done", "missing"}, time.Minute, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ctx := context.Background()

	if advanced := a.RunOnce(ctx); advanced != 1 {
		t.Errorf("Expected 1 league advanced, got %d", advanced)
	}
	if advanced := a.RunOnce(ctx); advanced != 1 {
		t.Errorf("Expected 1 league advanced, got %d", advanced)
	}
	a.RunOnce(ctx)

	tests := []struct {
		id       string
		expected int
	}{
		{"running", 2},
		{"drafting", 3},
		{"done", 1},
		{"missing", 1},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ticker.count(tt.id); got != tt.expected {
				t.Errorf("Expected %d ticks, got %d", tt.expected, got)
			}
		})
	}
}

func TestStartRunsScheduledTicks(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ticked := make(chan string, 8)
	ticker := &MockTicker{
		TickFunc: func(ctx context.Context, id string) (*league.State, error) {
			select {
			case ticked <- id:
			default:
			}
			return &league.State{ID: id, Phase: league.PhaseRegular}, nil
		},
	}

	a, err := New(ticker, []string{"league-1"}, 20*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer a.Stop()

	select {
	case id := <-ticked:
		if id != "league-1" {
			t.Errorf("Expected league-1 to tick, got %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a scheduled tick within 2s")
	}
}
