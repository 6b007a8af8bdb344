// Package store saves and fetches snapshots of the rentroll document. A
// snapshot is an opaque copy of the whole document filed under a project
// id with a note; the engine never sees which backend holds it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/model"
)

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Metadata describes a saved snapshot.
type Metadata struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
	Note      string    `json:"note"`
	Size      int64     `json:"size"`
}

// Snapshots is a snapshot backend.
type Snapshots interface {
	// Save stores doc under projectID.
	Save(ctx context.Context, projectID string, doc model.Document, note string) (Metadata, error)
	// List returns the project's snapshots, newest first.
	List(ctx context.Context, projectID string) ([]Metadata, error)
	// Fetch loads a snapshot by id.
	Fetch(ctx context.Context, id string) (*model.Document, error)
	Close() error
}

// Open returns the backend selected in cfg.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Snapshots, error) {
	switch cfg.Snapshot.Backend {
	case "", config.BackendSQLite:
		return OpenSQLite(config.SnapshotDBPath(cfg), WithLogger(logger))
	case config.BackendS3:
		return NewS3(ctx, cfg, WithLogger(logger))
	}
	return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
}

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a backend.
type Option func(*options)

// WithLogger sets the backend's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
