package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/raidplan/api"
	"github.com/kilianp07/raidplan/config"
	"github.com/kilianp07/raidplan/core/events"
	"github.com/kilianp07/raidplan/core/exclusion"
	"github.com/kilianp07/raidplan/core/history"
	coremetrics "github.com/kilianp07/raidplan/core/metrics"
	coremon "github.com/kilianp07/raidplan/core/monitoring"
	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/planner"
	"github.com/kilianp07/raidplan/core/sequence"
	"github.com/kilianp07/raidplan/infra/logger"
	"github.com/kilianp07/raidplan/infra/metrics"
	_ "github.com/kilianp07/raidplan/infra/mqtt"
	"github.com/kilianp07/raidplan/infra/roster"
	"github.com/kilianp07/raidplan/internal/eventbus"
)

// ErrRunNotFound is returned by Complete when the schedule has no such run.
var ErrRunNotFound = errors.New("run not found")

// RosterSource supplies the characters to schedule.
type RosterSource interface {
	Load(ctx context.Context) ([]model.Character, error)
}

// Result is the outcome of one Build.
type Result struct {
	ID          string
	Schedule    model.Schedule
	Report      planner.Report
	Fingerprint string
	Exclusions  model.ExclusionMap
	Settings    model.SettingsMap
	Characters  int
	// Changed is false when the previous schedule had the same fingerprint.
	Changed bool
	Time    time.Time
}

// Completion describes a run marked complete.
type Completion struct {
	BatchID    string
	Raid       model.RaidID
	RunIndex   int
	Added      []string
	Exclusions model.ExclusionMap
}

// Service loads the roster and persisted state, builds schedules, and
// records the outcome in the history log, metrics and event bus.
type Service struct {
	cfg        *config.Config
	planner    *planner.Planner
	roster     RosterSource
	exclusions exclusion.Store
	history    history.Store
	sink       coremetrics.MetricsSink
	bus        *eventbus.TypedBus[events.Event]
	log        logger.Logger
	now        func() time.Time

	collectorDone <-chan struct{}
	stopCollector context.CancelFunc

	mu   sync.Mutex
	last *Result
}

// Option customises a Service.
type Option func(*Service)

// WithRoster replaces the roster loader built from the configuration.
func WithRoster(r RosterSource) Option { return func(s *Service) { s.roster = r } }

// WithExclusionStore replaces the configured exclusion store.
func WithExclusionStore(st exclusion.Store) Option { return func(s *Service) { s.exclusions = st } }

// WithHistoryStore replaces the configured history store.
func WithHistoryStore(st history.Store) Option { return func(s *Service) { s.history = st } }

// WithSink replaces the configured metrics sink.
func WithSink(sink coremetrics.MetricsSink) Option { return func(s *Service) { s.sink = sink } }

// WithLogger replaces the service logger.
func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New creates a Service from the configuration. Collaborators not supplied
// through options are built from cfg.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{cfg: cfg, bus: eventbus.NewTyped[events.Event](), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.New("service")
	}
	if s.roster == nil {
		s.roster = roster.NewLoader(cfg.Roster, logger.New("roster"))
	}
	if s.exclusions == nil {
		st, err := exclusion.Open(cfg.Exclusions)
		if err != nil {
			return nil, fmt.Errorf("exclusion store: %w", err)
		}
		s.exclusions = st
	}
	if s.history == nil {
		st, err := history.Open(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		s.history = st
	}
	if s.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
	}
	s.planner = planner.New(cfg.Planner.Config, logger.New("planner"))

	ctx, cancel := context.WithCancel(context.Background())
	s.stopCollector = cancel
	s.collectorDone = metrics.StartEventCollector(ctx, s.bus, s.sink)
	return s, nil
}

// Bus exposes the event bus for additional subscribers.
func (s *Service) Bus() *eventbus.TypedBus[events.Event] { return s.bus }

// Exclusions exposes the exclusion store.
func (s *Service) Exclusions() exclusion.Store { return s.exclusions }

// History exposes the history store. It is nil when history is disabled.
func (s *Service) History() history.Store { return s.history }

// Build loads the roster and the persisted state and computes a schedule.
func (s *Service) Build(ctx context.Context, mode model.BalanceMode) (*Result, error) {
	start := s.now()
	chars, err := s.roster.Load(ctx)
	if err != nil {
		return nil, err
	}
	excl, err := s.exclusions.Exclusions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exclusions: %w", err)
	}
	settings, err := s.exclusions.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	sched, rep := s.planner.BuildSchedule(chars, excl, mode, settings)
	res := &Result{
		ID:          uuid.NewString(),
		Schedule:    sched,
		Report:      rep,
		Fingerprint: planner.Fingerprint(sched),
		Exclusions:  excl,
		Settings:    settings,
		Characters:  len(chars),
		Changed:     true,
		Time:        start,
	}
	if prev, ok := s.previousFingerprint(ctx); ok && prev == res.Fingerprint {
		res.Changed = false
	}
	if err := s.record(ctx, res); err != nil {
		return nil, err
	}

	s.publishBuild(res, s.now().Sub(start))
	s.log.Infof("schedule %s built: %d characters, %d degraded, %d unplaced, changed=%t",
		res.Fingerprint, res.Characters, len(rep.Degraded), len(rep.Unplaced), res.Changed)

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
	return res, nil
}

func (s *Service) previousFingerprint(ctx context.Context) (string, bool) {
	if s.history != nil {
		rec, ok, err := history.Latest(ctx, s.history)
		if err != nil {
			s.log.Warnf("read history: %v", err)
		} else if ok {
			return rec.Fingerprint, true
		}
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return "", false
	}
	return s.last.Fingerprint, true
}

func (s *Service) record(ctx context.Context, res *Result) error {
	if s.history == nil {
		return nil
	}
	rec := history.NewRecord(res.Schedule, res.Report, res.Characters, res.Time, s.cfg.History.KeepSchedule)
	rec.ID = res.ID
	if err := s.history.Append(ctx, rec); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *Service) publishBuild(res *Result, d time.Duration) {
	at := s.now()
	s.bus.Publish(events.ScheduleBuilt{
		ID:          res.ID,
		Fingerprint: res.Fingerprint,
		Report:      res.Report,
		Duration:    d,
		Time:        at,
	})
	for _, p := range res.Report.Degraded {
		s.bus.Publish(events.DegradedPlacement{Placement: p, Time: at})
	}
	for _, p := range res.Report.Unplaced {
		s.bus.Publish(events.DegradedPlacement{Placement: p, Unplaced: true, Time: at})
	}
}

// Last returns the most recent result, or nil before the first Build.
func (s *Service) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Snapshot exposes the latest result to the HTTP API.
func (s *Service) Snapshot() (api.Snapshot, bool) {
	res := s.Last()
	if res == nil {
		return api.Snapshot{}, false
	}
	return api.Snapshot{
		ID:          res.ID,
		Fingerprint: res.Fingerprint,
		Schedule:    res.Schedule,
		Report:      res.Report,
		Exclusions:  res.Exclusions,
		Time:        res.Time,
	}, true
}

// Sequence orders the runs of res for play.
func (s *Service) Sequence(res *Result) (sequence.Sequence, error) {
	order, err := s.cfg.Sequence.Raids()
	if err != nil {
		return sequence.Sequence{}, err
	}
	return sequence.BuildSequence(res.Schedule, sequence.Options{Order: order, Exclusions: res.Exclusions}), nil
}

// Complete excludes the visible members of one run of res from its tier and
// persists the change. Completing an already completed run adds nothing.
func (s *Service) Complete(ctx context.Context, res *Result, raid model.RaidID, runIndex int, updatedBy string) (Completion, error) {
	if !raid.Valid() {
		return Completion{}, fmt.Errorf("%w: %q", model.ErrUnknownRaid, raid)
	}
	var (
		run   model.Run
		found bool
	)
	for _, r := range res.Schedule[raid] {
		if r.RunIndex == runIndex {
			run, found = r, true
			break
		}
	}
	if !found {
		return Completion{}, fmt.Errorf("%w: %s #%d", ErrRunNotFound, raid, runIndex)
	}
	current, err := s.exclusions.Exclusions(ctx)
	if err != nil {
		return Completion{}, fmt.Errorf("load exclusions: %w", err)
	}
	_, added := sequence.MarkComplete(current, raid, run)
	c := Completion{BatchID: uuid.NewString(), Raid: raid, RunIndex: runIndex, Added: added, Exclusions: current}
	if len(added) == 0 {
		return c, nil
	}
	if c.Exclusions, err = s.exclusions.Exclude(ctx, raid, added, updatedBy); err != nil {
		return Completion{}, fmt.Errorf("persist exclusions: %w", err)
	}
	s.bus.Publish(events.RunCompleted{BatchID: c.BatchID, Raid: raid, RunIndex: runIndex, Excluded: added, Time: s.now()})
	s.log.Infof("run %s #%d completed by %q: %d characters excluded", raid, runIndex, updatedBy, len(added))
	return c, nil
}

// Run rebuilds the schedule every refresh interval and serves /metrics when
// configured. It blocks until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if addr := s.cfg.Metrics.ListenAddr; addr != "" {
		order, err := s.cfg.Sequence.Raids()
		if err != nil {
			return err
		}
		mux := metrics.Handler(nil)
		api.Register(mux, s, s.history, order)
		go func() {
			if err := metrics.Serve(ctx, addr, mux); err != nil {
				s.log.Errorf("http server: %v", err)
			}
		}()
		s.log.Infof("serving metrics and api on %s", addr)
	}
	mode := s.cfg.Planner.Mode()
	if _, err := s.Build(ctx, mode); err != nil {
		s.reportBuildError(err)
	}
	interval := time.Duration(s.cfg.Planner.RefreshIntervalSeconds) * time.Second
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Build(ctx, mode); err != nil {
				s.reportBuildError(err)
			}
		}
	}
}

func (s *Service) reportBuildError(err error) {
	s.log.Errorf("build schedule: %v", err)
	coremon.CaptureException(err, map[string]string{"component": "service", "op": "build"})
}

// Push sends the default registry to the configured pushgateway, if any.
func (s *Service) Push(ctx context.Context) error {
	if s.cfg.Metrics.PushGateway == "" {
		return nil
	}
	s.flush()
	return metrics.Push(ctx, s.cfg.Metrics.PushGateway, s.cfg.Metrics.Job, nil)
}

// flush waits for the collector to drain pending events.
func (s *Service) flush() {
	s.bus.Close()
	<-s.collectorDone
}

// Close drains pending events and releases the stores.
func (s *Service) Close() error {
	s.flush()
	s.stopCollector()
	var errs []error
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	errs = append(errs, s.exclusions.Close())
	if c, ok := s.sink.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
