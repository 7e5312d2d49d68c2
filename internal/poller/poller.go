package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/craftboard/internal/mcsrvstat"
	"github.com/jpalmerr/craftboard/internal/store"
)

// DefaultInterval is the fixed time between scheduled polls.
const DefaultInterval = 60 * time.Second

// Fetcher obtains one normalized snapshot for a server address.
type Fetcher interface {
	Snapshot(ctx context.Context, address string) (mcsrvstat.Snapshot, error)
}

// FetcherFunc adapts an ordinary function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, address string) (mcsrvstat.Snapshot, error)

// Snapshot calls f(ctx, address).
func (f FetcherFunc) Snapshot(ctx context.Context, address string) (mcsrvstat.Snapshot, error) {
	return f(ctx, address)
}

// Trigger records why a poll ran.
type Trigger string

const (
	TriggerInitial   Trigger = "initial"
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// Result holds the outcome of a single poll.
type Result struct {
	// ID correlates the poll's log lines.
	ID string

	// Address is the server address that was polled.
	Address string

	// Trigger is what started the poll.
	Trigger Trigger

	// Snapshot is the normalized status. Zero value when Err is set.
	Snapshot mcsrvstat.Snapshot

	// Err is the poll failure, nil on success.
	Err error

	// Latency is the time spent fetching.
	Latency time.Duration

	// CheckedAt is when the poll completed.
	CheckedAt time.Time
}

// run is one Start..Stop lifetime of the poller.
type run struct {
	ctx     context.Context
	cancel  context.CancelFunc
	address string
	wg      sync.WaitGroup
}

// Poller periodically fetches server status and publishes it to a store.
//
// Poller is the only writer of the store's state. It polls once immediately on
// [Poller.Start], then on a fixed ticker. At most one poll is in flight at a
// time: a tick or manual refresh that arrives while a poll is running is
// skipped.
//
// All methods are safe for concurrent use.
type Poller struct {
	fetcher  Fetcher
	store    store.Store
	interval time.Duration
	logger   *slog.Logger
	onResult func(Result)

	mu  sync.Mutex
	run *run

	stateMu  sync.Mutex
	inFlight atomic.Bool
}

// NewPoller creates a [Poller].
//
// Parameters:
//   - fetcher: Source of normalized snapshots
//   - st: Store that receives every state transition
//   - interval: Time between scheduled polls (DefaultInterval if <= 0)
//   - logger: Logger for poll outcomes
//   - onResult: Optional hook invoked after each completed poll (may be nil)
func NewPoller(fetcher Fetcher, st store.Store, interval time.Duration, logger *slog.Logger, onResult func(Result)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		fetcher:  fetcher,
		store:    st,
		interval: interval,
		logger:   logger,
		onResult: onResult,
	}
}

// Interval returns the time between scheduled polls.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Running reports whether the schedule is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.run != nil
}

// Start polls address immediately and then every interval until [Poller.Stop]
// is called or ctx is cancelled.
//
// Start is non-blocking. Calling Start while the poller is running is a no-op;
// call Stop first to restart with a different address. If ctx is nil,
// context.Background() is used.
func (p *Poller) Start(ctx context.Context, address string) {
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	if p.run != nil {
		current := p.run.address
		p.mu.Unlock()
		p.logger.Warn("poller already running, start ignored",
			"address", address,
			"running_address", current,
		)
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{ctx: runCtx, cancel: cancel, address: address}
	p.run = r
	r.wg.Add(1)
	p.mu.Unlock()

	p.update(func(s *store.State) {
		if s.Address != address {
			*s = store.Initial(address)
		}
	})

	p.logger.Info("poller started", "address", address, "interval", p.interval.String())

	go func() {
		defer r.wg.Done()

		p.poll(runCtx, address, TriggerInitial)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				p.poll(runCtx, address, TriggerScheduled)
			}
		}
	}()
}

// Stop cancels the schedule and any in-flight poll, then waits for them to
// finish. Once Stop returns the store receives no further updates from this
// run. Stop is a no-op when the poller is not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	r := p.run
	p.run = nil
	p.mu.Unlock()

	if r == nil {
		return
	}

	r.cancel()
	r.wg.Wait()
	p.logger.Info("poller stopped", "address", r.address)
}

// RefreshNow starts an out-of-band poll without touching the schedule.
//
// It returns false when the poller is not running or a poll is already in
// flight; no poll is started in either case.
func (p *Poller) RefreshNow() bool {
	p.mu.Lock()
	r := p.run
	if r == nil {
		p.mu.Unlock()
		return false
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		p.mu.Unlock()
		p.logger.Info("refresh skipped, poll already in flight", "address", r.address)
		return false
	}
	r.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer r.wg.Done()
		p.execute(r.ctx, r.address, TriggerManual)
	}()
	return true
}

// poll runs one poll unless another is already in flight.
func (p *Poller) poll(ctx context.Context, address string, trigger Trigger) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Warn("poll skipped, previous poll still in flight",
			"address", address,
			"trigger", trigger,
		)
		return
	}
	p.execute(ctx, address, trigger)
}

// execute performs one poll. The caller must hold the in-flight flag;
// execute releases it.
func (p *Poller) execute(ctx context.Context, address string, trigger Trigger) {
	defer p.inFlight.Store(false)

	p.update(func(s *store.State) {
		s.Refreshing = true
	})

	start := time.Now()
	snap, err := p.fetcher.Snapshot(ctx, address)
	if err == nil && ctx.Err() != nil {
		// stopped while the response was in flight
		err = ctx.Err()
	}

	result := Result{
		ID:        uuid.NewString(),
		Address:   address,
		Trigger:   trigger,
		Err:       err,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}
	if err == nil {
		result.Snapshot = snap
	}

	p.update(func(s *store.State) {
		s.Loading = false
		s.Refreshing = false
		s.PolledAt = result.CheckedAt
		if err != nil {
			msg := err.Error()
			s.LastError = &msg
			return
		}
		fresh := snap.Clone()
		s.Phase = store.PhaseLoaded
		s.Snapshot = &fresh
		s.UpdatedAt = result.CheckedAt
		s.LastError = nil
	})

	p.logResult(result)

	if p.onResult != nil {
		p.onResult(result)
	}
}

// update applies fn to the current state and publishes the result.
func (p *Poller) update(fn func(*store.State)) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	s := p.store.Get()
	fn(&s)
	p.store.Set(s)
}

func (p *Poller) logResult(r Result) {
	attrs := []any{
		"poll_id", r.ID,
		"address", r.Address,
		"trigger", r.Trigger,
		"latency_ms", r.Latency.Milliseconds(),
	}

	if r.Err != nil {
		var pe *mcsrvstat.PollError
		if errors.As(r.Err, &pe) {
			attrs = append(attrs, "kind", pe.Kind)
		}
		p.logger.Warn("poll failed", append(attrs, "error", r.Err.Error())...)
		return
	}

	p.logger.Debug("poll completed", append(attrs,
		"online", r.Snapshot.Online,
		"players_online", r.Snapshot.Players.Online,
		"players_max", r.Snapshot.Players.Max,
	)...)
}
