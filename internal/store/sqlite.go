package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite keeps snapshots in a local SQLite database.
type SQLite struct {
	db   *sql.DB
	opts options
}

// OpenSQLite opens or creates the snapshot database at dbPath.
func OpenSQLite(dbPath string, opts ...Option) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db, opts: buildOptions(opts)}, nil
}

// Close closes the snapshot database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Save implements Snapshots.
func (s *SQLite) Save(ctx context.Context, projectID string, doc model.Document, note string) (Metadata, error) {
	var buf bytes.Buffer
	if err := source.Encode(&buf, doc); err != nil {
		return Metadata{}, fmt.Errorf("encoding snapshot: %w", err)
	}

	m := Metadata{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		CreatedAt: s.opts.now().UTC(),
		Note:      note,
		Size:      int64(buf.Len()),
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO snapshots
		(id, project_id, created_at, note, size_bytes, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.CreatedAt.Format(time.RFC3339Nano), m.Note, m.Size, buf.String(),
	)
	if err != nil {
		return Metadata{}, fmt.Errorf("saving snapshot: %w", err)
	}

	s.opts.logger.Info("snapshot saved",
		zap.String("id", m.ID),
		zap.String("project", projectID),
		zap.Int64("bytes", m.Size),
	)
	return m, nil
}

// List implements Snapshots.
func (s *SQLite) List(ctx context.Context, projectID string) ([]Metadata, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, created_at, note, size_bytes
		FROM snapshots WHERE project_id = ? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Metadata
	for rows.Next() {
		var m Metadata
		var created string
		if err := rows.Scan(&m.ID, &m.ProjectID, &created, &m.Note, &m.Size); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Fetch implements Snapshots.
func (s *SQLite) Fetch(ctx context.Context, id string) (*model.Document, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM snapshots WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	doc, err := source.Decode(strings.NewReader(payload), s.opts.now())
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return &doc, nil
}
