package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS leagues (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	version    INTEGER NOT NULL,
	summary    BLOB NOT NULL,
	data       BLOB NOT NULL
)`

// SQLiteStore keeps leagues in a SQLite table with an optimistic version column
type SQLiteStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewSQLiteStore opens the database at dsn and ensures the schema exists
func NewSQLiteStore(ctx context.Context, dsn string, logger *logrus.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps in-memory databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create leagues table: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*league.State, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM leagues WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load league %s: %w", id, err)
	}
	return decode(data)
}

func (s *SQLiteStore) Save(ctx context.Context, st *league.State) error {
	expected := st.Version
	data, err := encodeNext(st)
	if err != nil {
		return err
	}
	summary, err := encodeSummary(st.Summarize())
	if err != nil {
		st.Version = expected
		return err
	}

	var result sql.Result
	if expected == 0 {
		result, err = s.db.ExecContext(ctx,
			`INSERT INTO leagues (id, name, created_at, version, summary, data) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			st.ID, st.Name, st.CreatedAt.UTC().Format(time.RFC3339Nano), st.Version, summary, data)
	} else {
		result, err = s.db.ExecContext(ctx,
			`UPDATE leagues SET name = ?, version = ?, summary = ?, data = ? WHERE id = ? AND version = ?`,
			st.Name, st.Version, summary, data, st.ID, expected)
	}
	if err != nil {
		st.Version = expected
		return fmt.Errorf("failed to save league %s: %w", st.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		st.Version = expected
		return fmt.Errorf("failed to save league %s: %w", st.ID, err)
	}
	if rows == 0 {
		st.Version = expected
		actual, err := s.version(ctx, st.ID)
		if err != nil {
			return err
		}
		return league.Conflict(st.ID, expected, actual)
	}

	s.logger.WithFields(logrus.Fields{
		"league_id": st.ID,
		"version":   st.Version,
	}).Debug("Saved league row")
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete league %s: %w", id, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return league.NotFound(id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]league.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT summary FROM leagues ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	summaries := []league.Summary{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan league summary: %w", err)
		}
		summary, err := decodeSummary(data)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	league.SortSummaries(summaries)
	return summaries, nil
}

func (s *SQLiteStore) version(ctx context.Context, id string) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM leagues WHERE id = ?`, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read version of league %s: %w", id, err)
	}
	return version, nil
}
