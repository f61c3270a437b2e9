package timers

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClock_FiresInDeadlineOrder(t *testing.T) {
	clock := NewFakeClock(epoch)
	var order []string

	clock.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	clock.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, epoch.Add(300*time.Millisecond), clock.Now())
}

func TestFakeClock_CallbackArmsWithinWindow(t *testing.T) {
	clock := NewFakeClock(epoch)
	fired := 0

	var tick func()
	tick = func() {
		fired++
		clock.AfterFunc(100*time.Millisecond, tick)
	}
	clock.AfterFunc(100*time.Millisecond, tick)

	clock.Advance(time.Second)
	assert.Equal(t, 10, fired)
}

func TestFakeClock_Stop(t *testing.T) {
	clock := NewFakeClock(epoch)
	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clock.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestScope_AfterFires(t *testing.T) {
	clock := NewFakeClock(epoch)
	scope := NewScope(clock, nil)
	defer scope.Close()

	count := 0
	h := scope.After(time.Second, func() { count++ })
	assert.True(t, h.Active())
	assert.Equal(t, 1, scope.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, 1, count)
	assert.False(t, h.Active())
	assert.Equal(t, 0, scope.Pending())
}

func TestScope_CancelPreventsFire(t *testing.T) {
	clock := NewFakeClock(epoch)
	scope := NewScope(clock, nil)
	defer scope.Close()

	count := 0
	h := scope.After(time.Second, func() { count++ })
	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, clock.Pending())
}

func TestScope_CloseCancelsEverything(t *testing.T) {
	clock := NewFakeClock(epoch)
	scope := NewScope(clock, nil)

	count := 0
	for i := 1; i <= 4; i++ {
		scope.After(time.Duration(i)*time.Second, func() { count++ })
	}
	clock.Advance(1500 * time.Millisecond)
	require.Equal(t, 1, count)

	scope.Close()
	assert.True(t, scope.Closed())
	assert.Equal(t, 0, scope.Pending())
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(time.Minute)
	assert.Equal(t, 1, count, "no callback may run after Close")

	h := scope.After(time.Millisecond, func() { count++ })
	assert.False(t, h.Active())
	clock.Advance(time.Second)
	assert.Equal(t, 1, count)
}

func TestScope_DeferRunsLIFOOnce(t *testing.T) {
	scope := NewScope(NewFakeClock(epoch), nil)
	var order []int
	scope.Defer(func() { order = append(order, 1) })
	scope.Defer(func() { order = append(order, 2) })

	scope.Close()
	scope.Close()
	assert.Equal(t, []int{2, 1}, order)

	scope.Defer(func() { order = append(order, 3) })
	assert.Equal(t, []int{2, 1, 3}, order)
}

func TestScope_CloseFromInsideCallback(t *testing.T) {
	clock := NewFakeClock(epoch)
	var mu sync.Mutex
	scope := NewScope(clock, &mu)

	count := 0
	scope.After(time.Second, func() {
		count++
		scope.Close()
	})
	scope.After(2*time.Second, func() { count++ })

	clock.Advance(3 * time.Second)
	assert.Equal(t, 1, count)
}

func TestScope_RealClockSerialisedWithRunLock(t *testing.T) {
	var mu sync.Mutex
	scope := NewScope(RealClock(), &mu)

	done := make(chan struct{})
	mu.Lock()
	scope.After(time.Millisecond, func() { close(done) })
	// The callback cannot run while the run lock is held.
	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("callback ran while run lock was held")
	default:
	}
	mu.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
	scope.Close()
}

func TestScope_RealClockCloseUnderLockDropsFiredCallback(t *testing.T) {
	var mu sync.Mutex
	scope := NewScope(RealClock(), &mu)

	ran := make(chan struct{}, 1)
	mu.Lock()
	scope.After(time.Millisecond, func() { ran <- struct{}{} })
	time.Sleep(20 * time.Millisecond)
	scope.Close()
	mu.Unlock()

	select {
	case <-ran:
		t.Fatal("callback ran after Close")
	case <-time.After(50 * time.Millisecond):
	}
}
