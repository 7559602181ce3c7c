// Package daemon provides the long-running projection HTTP service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/bkcost/internal/logging"
	"github.com/theirongolddev/bkcost/internal/model"
	"github.com/theirongolddev/bkcost/internal/pipeline"
)

// Config controls the service runtime behavior.
type Config struct {
	PlanFile      string // optional; polled for changes when set
	Months        int    // horizon when the plan file does not set one
	GrowthPercent float64
	DataSizeGB    float64
	MaxMonths     int
	Interval      time.Duration
	Addr          string
	EventsBuffer  int
}

// Snapshot is a compact projection state for status/event payloads.
type Snapshot struct {
	At               time.Time `json:"at"`
	Plans            int       `json:"plans"`
	Months           int       `json:"months"`
	GrowthPercent    float64   `json:"growth_percent"`
	TotalCostUSD     float64   `json:"total_cost_usd"`
	AverageYearlyUSD float64   `json:"average_yearly_usd"`
	AnnualizedUSD    float64   `json:"annualized_usd"`
	PeakMonthlyUSD   float64   `json:"peak_monthly_usd"`
	FinalSizeGB      float64   `json:"final_size_gb"`
	CacheHits        int       `json:"cache_hits"`
	CacheMisses      int       `json:"cache_misses"`
	PlanFile         string    `json:"plan_file,omitempty"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Plans        int     `json:"plans"`
	Months       int     `json:"months"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	FinalSizeGB  float64 `json:"final_size_gb"`
}

func (d Delta) isZero() bool {
	return d.Plans == 0 &&
		d.Months == 0 &&
		math.Abs(d.TotalCostUSD) < 1e-9 &&
		math.Abs(d.FinalSizeGB) < 1e-9
}

// Event is emitted whenever the projection snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot          = "snapshot"
	EventProjectionChanged = "projection_changed"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	PlanFile        string    `json:"plan_file,omitempty"`
	Requests        int64     `json:"requests"`
	Summary         Snapshot  `json:"summary"`
	HasSnapshot     bool      `json:"has_snapshot"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the projection runtime and HTTP API.
type Service struct {
	cfg       Config
	projector *pipeline.Projector

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	requests    int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service. A nil projector projects with reference prices
// and no cache.
func New(cfg Config, projector *pipeline.Projector) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.MaxMonths < 1 {
		cfg.MaxMonths = 72
	}
	if cfg.Months < 1 {
		cfg.Months = 12
	}
	if projector == nil {
		projector = pipeline.NewProjector(nil, nil)
	}

	return &Service{
		cfg:       cfg,
		projector: projector,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /v1/pricing", s.handlePricing)
	mux.HandleFunc("POST /v1/project", s.handleProject)
	return logRequests(mux)
}

// Run starts HTTP endpoints and polling until ctx is canceled. Without a
// plan file the service only answers requests.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var tick <-chan time.Time
	if s.cfg.PlanFile != "" {
		// Seed initial snapshot so status is useful immediately.
		s.pollOnce(ctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-tick:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("serve http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	pf, stats, err := s.projectPlanFile(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		logging.Logger.Warn("plan file poll failed", zap.String("path", s.cfg.PlanFile), zap.Error(err))
		return
	}

	now := time.Now()
	snap := snapshotFromPortfolio(pf, stats, now)
	snap.PlanFile = s.cfg.PlanFile

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventProjectionChanged,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		logging.Logger.Info("projection updated",
			zap.String("event", ev.Type),
			zap.Int("plans", snap.Plans),
			zap.Float64("total_cost_usd", snap.TotalCostUSD))
		s.publishEvent(ev)
	}
}

func (s *Service) projectPlanFile(ctx context.Context) (model.Portfolio, pipeline.CacheStats, error) {
	res, err := pipeline.LoadDir(ctx, s.cfg.PlanFile, s.cfg.DataSizeGB, nil)
	if err != nil {
		return model.Portfolio{}, pipeline.CacheStats{}, err
	}
	if res.TotalFiles == 0 {
		return model.Portfolio{}, pipeline.CacheStats{}, fmt.Errorf("no plan files found at %s", s.cfg.PlanFile)
	}

	months := s.cfg.Months
	if res.Months != nil {
		months = *res.Months
	}
	growth := s.cfg.GrowthPercent
	if res.GrowthPercent != nil {
		growth = *res.GrowthPercent
	}
	if err := validateHorizon(months, growth, s.cfg.MaxMonths); err != nil {
		return model.Portfolio{}, pipeline.CacheStats{}, err
	}

	return s.projector.Project(res.Plans, months, growth/100)
}

func snapshotFromPortfolio(pf model.Portfolio, stats pipeline.CacheStats, at time.Time) Snapshot {
	return Snapshot{
		At:               at,
		Plans:            len(pf.Plans),
		Months:           pf.TotalMonths,
		GrowthPercent:    pf.YearlyGrowth * 100,
		TotalCostUSD:     pf.TotalCost,
		AverageYearlyUSD: pf.AverageYearlyCost,
		AnnualizedUSD:    pf.AnnualizedCost,
		PeakMonthlyUSD:   pf.PeakMonthlyCost(),
		FinalSizeGB:      pf.FinalSizeGB(),
		CacheHits:        stats.Hits,
		CacheMisses:      stats.Misses,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Plans:        curr.Plans - prev.Plans,
		Months:       curr.Months - prev.Months,
		TotalCostUSD: curr.TotalCostUSD - prev.TotalCostUSD,
		FinalSizeGB:  curr.FinalSizeGB - prev.FinalSizeGB,
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

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		PlanFile:        s.cfg.PlanFile,
		Requests:        s.requests,
		Summary:         s.snapshot,
		HasSnapshot:     s.hasSnapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
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
