package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/golabel/internal/state"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Snapshot describes one saved state
type Snapshot struct {
	ID        string    `json:"id"`
	Session   string    `json:"session"`
	CreatedAt time.Time `json:"createdAt"`
}

// SnapshotStore keeps full state snapshots in a single sqlite table
type SnapshotStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSnapshotStore opens or creates the database at path
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	if path == "" {
		path = "golabel.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		session TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SnapshotStore{db: db, path: path, now: time.Now}, nil
}

// Path returns the database path
func (s *SnapshotStore) Path() string { return s.path }

// Save stores the state under a new id
func (s *SnapshotStore) Save(ctx context.Context, session string, st state.State) (string, error) {
	payload, err := state.Marshal(st)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots(id, session, created_at, payload) VALUES(?,?,?,?)`,
		id, session, s.now().UnixNano(), payload); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// Get loads a snapshot by id
func (s *SnapshotStore) Get(ctx context.Context, id string) (state.State, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id).Scan(&payload)
	return decodeRow(payload, err, "snapshot "+id)
}

// Latest loads the newest snapshot of a session
func (s *SnapshotStore) Latest(ctx context.Context, session string) (state.State, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE session = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		session).Scan(&payload)
	return decodeRow(payload, err, "session "+session)
}

func decodeRow(payload []byte, err error, what string) (state.State, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return state.State{}, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if err != nil {
		return state.State{}, fmt.Errorf("select %s: %w", what, err)
	}
	return state.Unmarshal(payload)
}

// List returns the snapshots of a session, oldest first. An empty session
// lists all snapshots.
func (s *SnapshotStore) List(ctx context.Context, session string) ([]Snapshot, error) {
	query := `SELECT id, session, created_at FROM snapshots WHERE session = ? ORDER BY created_at, rowid`
	args := []any{session}
	if session == "" {
		query = `SELECT id, session, created_at FROM snapshots ORDER BY created_at, rowid`
		args = nil
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		var created int64
		if err := rows.Scan(&snap.ID, &snap.Session, &created); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		snap.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Close closes the database
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
