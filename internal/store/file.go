package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one JSON document per league under a directory
type FileStore struct {
	Root   string
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewFileStore creates a file store rooted at root, creating it if needed
func NewFileStore(root string, logger *logrus.Logger) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create league directory %s: %w", root, err)
	}
	return &FileStore{Root: root, logger: logger}, nil
}

// Path returns the file holding league id
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.Root, id+".json")
}

func (s *FileStore) Load(ctx context.Context, id string) (*league.State, error) {
	if !validID.MatchString(id) {
		return nil, league.NotFound(id)
	}
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, league.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read league %s: %w", id, err)
	}
	return decode(data)
}

func (s *FileStore) Save(ctx context.Context, st *league.State) error {
	if !validID.MatchString(st.ID) {
		return fmt.Errorf("invalid league id '%s'", st.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.storedVersion(st.ID)
	if err != nil {
		return err
	}
	if current != st.Version {
		return league.Conflict(st.ID, st.Version, current)
	}

	data, err := encodeNext(st)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err == nil {
		data = pretty.Bytes()
	}

	// Write to a temporary file and rename so readers never see a partial league
	tmp, err := os.CreateTemp(s.Root, st.ID+".*.tmp")
	if err != nil {
		st.Version--
		return fmt.Errorf("failed to save league %s: %w", st.ID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		st.Version--
		return fmt.Errorf("failed to save league %s: %w", st.ID, err)
	}
	if err := tmp.Close(); err != nil {
		st.Version--
		return fmt.Errorf("failed to save league %s: %w", st.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(st.ID)); err != nil {
		st.Version--
		return fmt.Errorf("failed to save league %s: %w", st.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"version":   st.Version,
		"bytes":     len(data),
	}).Debug("Saved league file")
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !validID.MatchString(id) {
		return league.NotFound(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return league.NotFound(id)
	}
	return err
}

func (s *FileStore) List(ctx context.Context) ([]league.Summary, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}

	summaries := []league.Summary{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		st, err := s.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			s.logger.WithError(err).WithField("file", name).Warn("Skipping unreadable league file")
			continue
		}
		summaries = append(summaries, st.Summarize())
	}
	league.SortSummaries(summaries)
	return summaries, nil
}

// storedVersion returns the version on disk, or 0 when the league is new
func (s *FileStore) storedVersion(id string) (int64, error) {
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read league %s: %w", id, err)
	}
	var header struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return 0, fmt.Errorf("failed to decode league %s: %w", id, err)
	}
	return header.Version, nil
}
