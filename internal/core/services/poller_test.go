package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPollTarget implements driving.PollTarget for testing. It counts
// silent reloads and lets tests script when the set becomes quiescent.
type mockPollTarget struct {
	mu           sync.Mutex
	building     bool
	reloads      int
	quiesceAfter int // reload count at which building flips false; 0 = never
}

func (m *mockPollTarget) AnyBuilding() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.building
}

func (m *mockPollTarget) ReloadSilent(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
	if m.quiesceAfter > 0 && m.reloads >= m.quiesceAfter {
		m.building = false
	}
	return nil
}

func (m *mockPollTarget) reloadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloads
}

func (m *mockPollTarget) setBuilding(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.building = v
}

const testInterval = 10 * time.Millisecond

// startPoller runs the poller in the background and returns a stop func.
func startPoller(t *testing.T, p *BuildPoller) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		//nolint:errcheck // Stopped via cancel; the error is ctx.Err().
		_ = p.Start(ctx)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller did not shut down")
		}
	}
}

// waitFor polls a condition with a deadline.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPoller_IdleWhenNothingBuilding(t *testing.T) {
	target := &mockPollTarget{building: false}
	p := NewBuildPoller(target, testInterval)
	stop := startPoller(t, p)
	defer stop()

	// Steady state: no timer, zero background cost.
	time.Sleep(5 * testInterval)
	assert.False(t, p.Active())
	assert.Zero(t, target.reloadCount())
}

func TestPoller_StartsOnBuildingNotification(t *testing.T) {
	target := &mockPollTarget{building: true}
	p := NewBuildPoller(target, testInterval)
	stop := startPoller(t, p)
	defer stop()

	waitFor(t, p.Active, "timer should start while a fabric is building")
	waitFor(t, func() bool { return target.reloadCount() >= 2 },
		"poll ticks should issue silent reloads")
}

func TestPoller_StopsWithinOneTickOfQuiescence(t *testing.T) {
	target := &mockPollTarget{building: true, quiesceAfter: 3}
	p := NewBuildPoller(target, testInterval)
	stop := startPoller(t, p)
	defer stop()

	waitFor(t, func() bool { return !p.Active() && target.reloadCount() >= 3 },
		"timer should cancel once the fetched set is quiescent")

	// No further requests are issued: observe for 2x the poll interval.
	settled := target.reloadCount()
	time.Sleep(2 * testInterval)
	assert.Equal(t, settled, target.reloadCount(),
		"no fetches may happen after quiescence")
}

func TestPoller_RearmsOnNewBuild(t *testing.T) {
	target := &mockPollTarget{building: true, quiesceAfter: 2}
	p := NewBuildPoller(target, testInterval)
	stop := startPoller(t, p)
	defer stop()

	waitFor(t, func() bool { return !p.Active() }, "first build should settle")
	settled := target.reloadCount()

	// A new build is triggered; the registry notifies the poller.
	target.setBuilding(true)
	p.Notify()

	waitFor(t, p.Active, "timer should re-arm for the new build")
	waitFor(t, func() bool { return target.reloadCount() > settled },
		"polling should resume")
}

func TestPoller_TeardownCancelsTimer(t *testing.T) {
	target := &mockPollTarget{building: true}
	p := NewBuildPoller(target, testInterval)
	stop := startPoller(t, p)

	waitFor(t, p.Active, "timer should be running")

	// Teardown cancels the timer regardless of build state.
	stop()
	assert.False(t, p.Active())

	count := target.reloadCount()
	time.Sleep(3 * testInterval)
	assert.Equal(t, count, target.reloadCount(), "no polling after teardown")
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	target := &mockPollTarget{}
	p := NewBuildPoller(target, testInterval)

	done := make(chan error, 1)
	go func() { done <- p.Start(context.Background()) }()

	waitFor(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.running
	}, "poller should report running")

	require.NoError(t, p.Stop())
	require.NoError(t, p.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestPoller_DefaultInterval(t *testing.T) {
	p := NewBuildPoller(&mockPollTarget{}, 0)
	assert.Equal(t, DefaultPollInterval, p.interval)
}
