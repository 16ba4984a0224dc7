package store

import (
	"context"
	"sync"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
)

// MemoryStore keeps leagues in process memory. Leagues are stored encoded so
// callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	leagues map[string]record
}

type record struct {
	version int64
	summary league.Summary
	data    []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{leagues: make(map[string]record)}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*league.State, error) {
	m.mu.RLock()
	rec, ok := m.leagues[id]
	m.mu.RUnlock()
	if !ok {
		return nil, league.NotFound(id)
	}
	return decode(rec.data)
}

func (m *MemoryStore) Save(ctx context.Context, st *league.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.leagues[st.ID].version
	if current != st.Version {
		return league.Conflict(st.ID, st.Version, current)
	}

	data, err := encodeNext(st)
	if err != nil {
		return err
	}
	m.leagues[st.ID] = record{version: st.Version, summary: st.Summarize(), data: data}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leagues[id]; !ok {
		return league.NotFound(id)
	}
	delete(m.leagues, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]league.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]league.Summary, 0, len(m.leagues))
	for _, rec := range m.leagues {
		summaries = append(summaries, rec.summary)
	}
	league.SortSummaries(summaries)
	return summaries, nil
}
