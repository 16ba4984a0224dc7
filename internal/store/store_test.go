package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus/hooks/test"
)

func newStores(t *testing.T) map[string]league.Store {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "leagues"), logger)
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	sqliteStore, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "leagues.db"), logger)
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]league.Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func sampleLeague(id string, created time.Time) *league.State {
	return &league.State{
		ID:                id,
		Name:              "League " + id,
		CreatedAt:         created,
		TeamCount:         2,
		RosterSize:        1,
		ScoringProfileKey: "points_league",
		TeamNames:         []string{"A", "B"},
		Calendar:          []string{"2024-10-22"},
		Rosters:           map[string][]int{"A": {1}, "B": {2}},
		History: []league.DayRecord{
			{Date: "2024-10-22", TeamResults: []league.TeamResult{{Team: "A", Total: 12.5}}},
		},
		Phase: league.PhaseRegular,
	}
}

func TestStoreContract(t *testing.T) {
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.Load(ctx, "missing"); !league.IsNotFound(err) {
				t.Errorf("Expected not found error, got %v", err)
			}

			second := sampleLeague("b", base.Add(time.Hour))
			first := sampleLeague("a", base)
			for _, st := range []*league.State{second, first} {
				if err := store.Save(ctx, st); err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if st.Version != 1 {
					t.Errorf("Expected version 1 after insert, got %d", st.Version)
				}
			}

			loaded, err := store.Load(ctx, "a")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if loaded.Name != "League a" || loaded.Version != 1 || loaded.Rosters["A"][0] != 1 {
				t.Errorf("Unexpected loaded league %+v", loaded)
			}
			if len(loaded.History) != 1 || loaded.History[0].TeamResults[0].Total != 12.5 {
				t.Errorf("Expected history to round-trip, got %+v", loaded.History)
			}

			// A stale copy must not overwrite a newer save
			stale, _ := store.Load(ctx, "a")
			loaded.Name = "Renamed"
			if err := store.Save(ctx, loaded); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			stale.Name = "Stale"
			if err := store.Save(ctx, stale); !league.IsConflict(err) {
				t.Errorf("Expected conflict for stale save, got %v", err)
			}
			if stale.Version != 1 {
				t.Errorf("Expected failed save to keep version 1, got %d", stale.Version)
			}

			// Inserting over an existing league is a conflict too
			if err := store.Save(ctx, sampleLeague("b", base)); !league.IsConflict(err) {
				t.Errorf("Expected conflict inserting a duplicate id, got %v", err)
			}

			summaries, err := store.List(ctx)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(summaries) != 2 || summaries[0].ID != "a" || summaries[1].ID != "b" {
				t.Errorf("Expected summaries ordered by creation time, got %+v", summaries)
			}
			if summaries[0].Name != "Renamed" || summaries[0].LatestCompletedDate != "2024-10-22" {
				t.Errorf("Unexpected summary %+v", summaries[0])
			}

			if err := store.Delete(ctx, "a"); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if err := store.Delete(ctx, "a"); !league.IsNotFound(err) {
				t.Errorf("Expected not found deleting twice, got %v", err)
			}
		})
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store, err := NewFileStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := store.Load(context.Background(), "../etc/passwd"); !league.IsNotFound(err) {
		t.Errorf("Expected not found for a path-like id, got %v", err)
	}
}
