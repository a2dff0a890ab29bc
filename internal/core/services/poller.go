package services

import (
	"context"
	"sync"
	"time"

	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
	"github.com/serviceops-labs/fabric-studio/internal/logger"
)

// Ensure BuildPoller implements the interface.
var _ driving.BuildPoller = (*BuildPoller)(nil)

// DefaultPollInterval is the fixed refresh interval while builds run.
// A trade-off between staleness and request volume; no backoff is applied.
const DefaultPollInterval = 2500 * time.Millisecond

// BuildPoller keeps the fabric set fresh while any build is in flight.
// It is level-triggered: a repeating timer runs only while at least one
// fabric is in a building state, and self-cancels within one tick of the
// set settling. One poller serves the whole process; views share it
// instead of running their own timers.
type BuildPoller struct {
	target   driving.PollTarget
	interval time.Duration

	notifyCh chan struct{}

	mu      sync.Mutex
	running bool
	active  bool
	stopCh  chan struct{}
}

// NewBuildPoller creates a poller for the given registry. A non-positive
// interval falls back to DefaultPollInterval.
func NewBuildPoller(target driving.PollTarget, interval time.Duration) *BuildPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &BuildPoller{
		target:   target,
		interval: interval,
		notifyCh: make(chan struct{}, 1),
	}
}

// Start begins the poller loop. This method blocks until Stop is called
// or the context is cancelled; the timer is always cancelled on the way
// out, regardless of build state.
func (p *BuildPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil // Already running
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	// Evaluate the level immediately in case builds are already running.
	p.Notify()

	return p.run(ctx, stopCh)
}

// Stop gracefully shuts down the poller.
func (p *BuildPoller) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.running = false
	close(p.stopCh)
	return nil
}

// Notify tells the poller the fabric set may have changed. Duplicate
// notifications coalesce into one pending evaluation.
func (p *BuildPoller) Notify() {
	select {
	case p.notifyCh <- struct{}{}:
	default:
	}
}

// Active reports whether the poll timer is currently running.
func (p *BuildPoller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// run is the main poller loop.
func (p *BuildPoller) run(ctx context.Context, stopCh <-chan struct{}) error {
	var ticker *time.Ticker
	var tickC <-chan time.Time

	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickC = nil
		}
		p.setActive(false)
	}
	defer stopTicker()

	// evaluate re-checks the level trigger and starts or cancels the
	// timer accordingly.
	evaluate := func() {
		building := p.target.AnyBuilding()
		switch {
		case building && ticker == nil:
			ticker = time.NewTicker(p.interval)
			tickC = ticker.C
			p.setActive(true)
			logger.Debug("build poller: timer started (interval %s)", p.interval)
		case !building && ticker != nil:
			stopTicker()
			logger.Debug("build poller: quiescent, timer cancelled")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-p.notifyCh:
			evaluate()
		case <-tickC:
			// Silent refresh: no loading indicator while polling.
			// A failed fetch clears the set, which reads as quiescent
			// and cancels the timer; the next mutation re-arms it.
			//nolint:errcheck // Fetch errors are retained by the registry.
			_ = p.target.ReloadSilent(ctx)
			evaluate()
		}
	}
}

// setActive records timer state for observers.
func (p *BuildPoller) setActive(v bool) {
	p.mu.Lock()
	p.active = v
	p.mu.Unlock()
}
