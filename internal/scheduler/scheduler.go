package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/five82/sqmon/internal/diag"
	"github.com/five82/sqmon/internal/snapshot"
	"github.com/five82/sqmon/internal/state"
	"github.com/five82/sqmon/internal/table"
)

const (
	// MinInterval and MaxInterval bound the refresh interval in seconds.
	MinInterval = 1
	MaxInterval = 9999

	// DefaultInterval is the refresh interval used when none is configured.
	DefaultInterval = 1
)

// ErrInvalidInterval is returned by SetInterval for values outside
// [MinInterval, MaxInterval].
var ErrInvalidInterval = errors.New("invalid interval")

// Source returns raw queue records holding the requested columns.
type Source interface {
	Query(ctx context.Context, columns []string) ([]snapshot.Record, error)
}

// Config is the initial scheduler configuration.
type Config struct {
	Interval     int // seconds; zero uses DefaultInterval
	Enabled      bool
	FilterToSelf bool
	SelfUser     string
	Columns      []string // nil uses snapshot.DefaultColumns
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the entry cycles are logged through.
func WithLogger(l *log.Entry) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithStore records every cycle outcome in store.
func WithStore(store *state.Store) Option {
	return func(s *Scheduler) { s.store = store }
}

// WithProbe sets the memory probe sampled after each cycle.
func WithProbe(p diag.Probe) Option {
	return func(s *Scheduler) { s.probe = p }
}

// Scheduler periodically refreshes a table from a Source. At most one cycle
// runs at a time; ticks that arrive while a cycle is in flight are dropped.
type Scheduler struct {
	source   Source
	table    *table.Table
	columns  []string
	selfUser string
	clock    clockwork.Clock
	log      *log.Entry
	store    *state.Store
	probe    diag.Probe

	// permit is held for the duration of a cycle.
	permit *semaphore.Weighted
	wg     sync.WaitGroup

	mu           sync.Mutex
	interval     int
	enabled      bool
	filterToSelf bool
	cycles       int
	skipped      int
	ctx          context.Context
	cancel       context.CancelFunc
	ticker       clockwork.Ticker
	stopTicker   chan struct{}
	generation   uint64
}

// New builds a stopped Scheduler. Call Start to begin ticking.
func New(cfg Config, source Source, t *table.Table, opts ...Option) (*Scheduler, error) {
	if source == nil {
		return nil, fmt.Errorf("scheduler: source is nil")
	}
	if t == nil {
		return nil, fmt.Errorf("scheduler: table is nil")
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	if err := validInterval(interval); err != nil {
		return nil, err
	}
	columns := cfg.Columns
	if columns == nil {
		columns = snapshot.DefaultColumns()
	}
	s := &Scheduler{
		source:       source,
		table:        t,
		columns:      append([]string(nil), columns...),
		selfUser:     cfg.SelfUser,
		clock:        clockwork.NewRealClock(),
		log:          log.WithField("component", "scheduler"),
		permit:       semaphore.NewWeighted(1),
		interval:     interval,
		enabled:      cfg.Enabled,
		filterToSelf: cfg.FilterToSelf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start binds the scheduler to ctx and arms the timer if auto refresh is
// enabled. Cancelling ctx has the same effect as Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	if s.enabled {
		s.arm()
	}
	go func(ctx context.Context) {
		<-ctx.Done()
		s.mu.Lock()
		s.disarm()
		s.mu.Unlock()
	}(s.ctx)
}

// Stop disarms the timer, cancels any in-flight cycle and waits for it to
// return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.disarm()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// SetInterval changes the refresh interval in seconds. Out-of-range values
// return ErrInvalidInterval and keep the current interval. An armed timer
// is restarted at the new interval; the cycle count is untouched.
func (s *Scheduler) SetInterval(seconds int) error {
	if err := validInterval(seconds); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = seconds
	if s.ticker != nil {
		s.arm()
	}
	return nil
}

// Interval returns the refresh interval in seconds.
func (s *Scheduler) Interval() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Enable resets the cycle count and arms the timer. The first tick fires
// one full interval later.
func (s *Scheduler) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	s.cycles = 0
	if s.ctx != nil && s.ctx.Err() == nil {
		s.arm()
	}
}

// Disable disarms the timer. A cycle already in flight runs to completion,
// but no new tick starts after Disable returns.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
	s.disarm()
}

// Enabled reports whether auto refresh is on.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetFilterToSelf toggles the own-entries filter for subsequent cycles.
func (s *Scheduler) SetFilterToSelf(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterToSelf = on
}

// FilterToSelf reports whether only the current user's entries are kept.
func (s *Scheduler) FilterToSelf() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterToSelf
}

// SelfUser returns the user the own-entries filter matches.
func (s *Scheduler) SelfUser() string {
	return s.selfUser
}

// Cycles returns the number of cycles started since the last Enable.
func (s *Scheduler) Cycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

// Skipped returns the number of ticks dropped because a cycle was in flight.
func (s *Scheduler) Skipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

// RefreshNow runs one cycle immediately without touching the timer. It
// returns false without running when a cycle is already in flight.
func (s *Scheduler) RefreshNow(ctx context.Context) (bool, error) {
	if !s.permit.TryAcquire(1) {
		s.log.Debug("refresh requested while a cycle is in flight")
		return false, nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	return true, s.cycle(ctx)
}

// arm replaces any running ticker with a new one at the current interval.
// Callers hold s.mu.
func (s *Scheduler) arm() {
	s.disarm()
	s.generation++
	ticker := s.clock.NewTicker(time.Duration(s.interval) * time.Second)
	stop := make(chan struct{})
	s.ticker = ticker
	s.stopTicker = stop
	go s.tickLoop(ticker, stop, s.generation)
}

// disarm stops the running ticker, if any. Callers hold s.mu.
func (s *Scheduler) disarm() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stopTicker)
	s.ticker = nil
	s.stopTicker = nil
}

func (s *Scheduler) tickLoop(ticker clockwork.Ticker, stop <-chan struct{}, gen uint64) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			s.tick(gen)
		}
	}
}

// tick starts a cycle unless the ticker is stale, auto refresh is off, or
// a cycle is already running.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || gen != s.generation || s.ctx == nil || s.ctx.Err() != nil {
		return
	}
	if !s.permit.TryAcquire(1) {
		s.skipped++
		s.log.WithField("skipped", s.skipped).Debug("tick dropped, cycle in flight")
		return
	}
	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.cycle(ctx)
	}()
}

// cycle runs query, build and replace. The caller holds the permit, which
// cycle releases.
func (s *Scheduler) cycle(ctx context.Context) error {
	defer s.permit.Release(1)

	s.mu.Lock()
	s.cycles++
	n := s.cycles
	interval := s.interval
	filter := s.filterToSelf
	s.mu.Unlock()

	start := s.clock.Now()
	logger := s.log.WithFields(log.Fields{"cycle": n, "interval": interval})

	records, err := s.source.Query(ctx, s.columns)
	if err != nil {
		return s.fail(logger, fmt.Errorf("query: %w", err))
	}
	snap, err := snapshot.Build(records, s.columns, s.selfUser, filter)
	if err != nil {
		return s.fail(logger, fmt.Errorf("build snapshot: %w", err))
	}
	s.table.Replace(snap)

	duration := s.clock.Since(start)
	report := state.Report{
		Cycle:    n,
		Interval: interval,
		Duration: duration,
		Rows:     snap.Len(),
		At:       s.clock.Now(),
	}
	fields := log.Fields{"duration": duration, "rows": report.Rows}
	if s.probe != nil {
		if rss, err := s.probe.RSS(); err != nil {
			logger.WithError(err).Debug("memory probe failed")
		} else {
			report.RSS = rss
			fields["rss"] = diag.FormatBytes(rss)
		}
	}
	logger.WithFields(fields).Info("refresh")
	if s.store != nil {
		s.store.Update(report, nil)
	}
	return nil
}

func (s *Scheduler) fail(logger *log.Entry, err error) error {
	logger.WithError(err).Warn("refresh failed, keeping previous table")
	if s.store != nil {
		s.store.Update(state.Report{At: s.clock.Now()}, err)
	}
	return err
}

func validInterval(seconds int) error {
	if seconds < MinInterval || seconds > MaxInterval {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidInterval, seconds, MinInterval, MaxInterval)
	}
	return nil
}
