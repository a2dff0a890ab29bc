package driving

import "context"

// BuildPoller keeps the client's view of fabric status fresh while builds
// are in flight. It is a level-triggered poll-until-quiescent loop: a timer
// runs only while at least one fabric is building, and stops within one
// tick of the set settling. There is exactly one poller per process,
// shared by all views.
type BuildPoller interface {
	// Start begins the poller loop. Blocks until the context is cancelled
	// or Stop is called. On teardown the timer is always cancelled,
	// regardless of build state.
	Start(ctx context.Context) error

	// Stop gracefully shuts the poller down.
	Stop() error

	// Notify tells the poller the fabric set may have changed. Safe to
	// call from any goroutine; duplicate notifications coalesce.
	Notify()

	// Active reports whether the poll timer is currently running.
	Active() bool
}

// PollTarget is the poller's narrow view of the fabric registry.
type PollTarget interface {
	// AnyBuilding reports whether any fabric is mid-build.
	AnyBuilding() bool

	// ReloadSilent re-fetches the fabric set without UI flicker.
	ReloadSilent(ctx context.Context) error
}
