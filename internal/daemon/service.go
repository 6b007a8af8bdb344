// Package daemon provides the long-running rentroll service: it watches
// the data file, keeps a recomputed dashboard and serves it over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/rentroll/internal/billing"
	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataFile     string
	Conventions  billing.Conventions
	Year         int // 0 follows the clock
	Quarter      calendar.Quarter
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *zap.Logger
	Now          func() time.Time
}

// Snapshot is a compact dashboard state for status/event payloads.
type Snapshot struct {
	At                     time.Time `json:"at"`
	Year                   int       `json:"year"`
	Tenants                int       `json:"tenants"`
	LeasedArea             float64   `json:"leased_area"`
	OccupancyRate          float64   `json:"occupancy_rate"`
	PeriodRevenueTarget    float64   `json:"period_revenue_target"`
	PeriodRevenueCollected float64   `json:"period_revenue_collected"`
	CollectionRate         float64   `json:"collection_rate"`
	ExpiringSoon           int       `json:"expiring_soon"`
	Warnings               int       `json:"warnings"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Tenants          int     `json:"tenants"`
	LeasedArea       float64 `json:"leased_area"`
	OccupancyRate    float64 `json:"occupancy_rate"`
	RevenueTarget    float64 `json:"revenue_target"`
	RevenueCollected float64 `json:"revenue_collected"`
}

func (d Delta) isZero() bool {
	return d.Tenants == 0 &&
		d.LeasedArea == 0 &&
		d.OccupancyRate == 0 &&
		d.RevenueTarget == 0 &&
		d.RevenueCollected == 0
}

// Event is emitted whenever the dashboard snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventDelta    = "dashboard_delta"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	LastLoadAt      time.Time `json:"last_load_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	LoadCount       int64     `json:"load_count"`
	DataFile        string    `json:"data_file"`
	Year            int       `json:"year"`
	Quarter         string    `json:"quarter"`
	Summary         Snapshot  `json:"summary"`
	Issues          []string  `json:"issues,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// fileStamp identifies a version of the data file.
type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	logger *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	lastLoadAt  time.Time
	pollCount   int64
	loadCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	stamp       fileStamp
	doc         model.Document
	dashboard   model.Dashboard
	issues      []string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Quarter == "" {
		cfg.Quarter = calendar.FullYear
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Conventions.MaxCycles == 0 {
		cfg.Conventions = billing.DefaultConventions()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		logger:    logger.Named("daemon"),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("listening", zap.String("addr", s.cfg.Addr), zap.String("data_file", s.cfg.DataFile))

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) year(now time.Time) int {
	if s.cfg.Year > 0 {
		return s.cfg.Year
	}
	return now.Year()
}

func (s *Service) options(now time.Time, year int, quarter calendar.Quarter) pipeline.Options {
	return pipeline.Options{
		Year:         year,
		Quarter:      quarter,
		BillingMonth: calendar.MonthOf(now),
		Conventions:  s.cfg.Conventions,
	}
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fileStamp{}, nil
	}
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}, nil
}

// pollOnce reloads the data file when it changed since the last load and
// publishes an event when the recomputed dashboard moved.
func (s *Service) pollOnce() {
	now := s.cfg.Now()
	stamp, err := statFile(s.cfg.DataFile)
	if err != nil {
		s.recordError(now, err)
		return
	}

	s.mu.Lock()
	unchanged := s.hasSnapshot && s.stamp == stamp
	if unchanged {
		s.lastPollAt = now
		s.pollCount++
	}
	s.mu.Unlock()
	if unchanged {
		return
	}

	res, err := pipeline.Load(s.cfg.DataFile, now)
	if err != nil {
		s.recordError(now, err)
		return
	}
	dash := pipeline.Recalculate(res.Document, s.options(now, s.year(now), s.cfg.Quarter))
	snap := snapshotFromDashboard(dash, len(res.Document.Tenants), now)
	issues := make([]string, 0, len(res.Issues))
	for _, is := range res.Issues {
		issues = append(issues, is.String())
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.stamp = stamp
	s.doc = res.Document
	s.dashboard = dash
	s.issues = issues
	s.lastPollAt = now
	s.lastLoadAt = now
	s.pollCount++
	s.loadCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventDelta, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	s.logger.Debug("data file reloaded",
		zap.Int("tenants", snap.Tenants),
		zap.Int("issues", len(issues)),
		zap.Bool("changed", publish),
	)
	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) recordError(now time.Time, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = now
	s.pollCount++
	s.mu.Unlock()
	s.logger.Warn("poll failed", zap.Error(err))
}

func snapshotFromDashboard(d model.Dashboard, tenants int, at time.Time) Snapshot {
	return Snapshot{
		At:                     at,
		Year:                   d.Year,
		Tenants:                tenants,
		LeasedArea:             d.LeasedArea,
		OccupancyRate:          d.OccupancyRate,
		PeriodRevenueTarget:    d.PeriodRevenueTarget,
		PeriodRevenueCollected: d.PeriodRevenueCollected,
		CollectionRate:         d.CollectionRate,
		ExpiringSoon:           d.ExpiringSoonCount,
		Warnings:               len(d.Warnings),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Tenants:          curr.Tenants - prev.Tenants,
		LeasedArea:       curr.LeasedArea - prev.LeasedArea,
		OccupancyRate:    curr.OccupancyRate - prev.OccupancyRate,
		RevenueTarget:    curr.PeriodRevenueTarget - prev.PeriodRevenueTarget,
		RevenueCollected: curr.PeriodRevenueCollected - prev.PeriodRevenueCollected,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// document returns the last loaded document and dashboard.
func (s *Service) document() (model.Document, model.Dashboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.dashboard, s.hasSnapshot
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		LastLoadAt:      s.lastLoadAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		LoadCount:       s.loadCount,
		DataFile:        s.cfg.DataFile,
		Year:            s.snapshot.Year,
		Quarter:         string(s.cfg.Quarter),
		Summary:         s.snapshot,
		Issues:          s.issues,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
