package host

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/component-kit/internal/testutils"
)

const waitFor = time.Second

func Test_timerScheduler_Schedule(t *testing.T) {
	logger, _ := testutils.NewBufferLogger()
	s := newTimerScheduler(logger)
	defer s.Stop()

	done := make(chan struct{})
	s.Schedule(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(waitFor):
		require.Fail(t, "task did not run")
	}

	assert.Eventually(t, func() bool { return s.Pending() == 0 }, waitFor, time.Millisecond)
}

func Test_timerScheduler_Cancel(t *testing.T) {
	logger, _ := testutils.NewBufferLogger()
	s := newTimerScheduler(logger)
	defer s.Stop()

	var ran atomic.Bool
	cancel := s.Schedule(time.Hour, func() { ran.Store(true) })
	assert.Equal(t, 1, s.Pending())

	cancel()
	assert.Equal(t, 0, s.Pending())
	assert.False(t, ran.Load())

	// Cancelling twice is a no-op
	cancel()
}

func Test_timerScheduler_Every(t *testing.T) {
	logger, _ := testutils.NewBufferLogger()
	s := newTimerScheduler(logger)
	defer s.Stop()

	var runs atomic.Int32
	cancel := s.Every(time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, waitFor, time.Millisecond)

	cancel()
	assert.Equal(t, 0, s.Pending())
}

func Test_timerScheduler_Panic(t *testing.T) {
	logger, buf := testutils.NewBufferLogger()
	s := newTimerScheduler(logger)
	defer s.Stop()

	var runs atomic.Int32
	s.Every(time.Millisecond, func() {
		runs.Add(1)
		panic("task failed")
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, waitFor, time.Millisecond)
	assert.Contains(t, buf.String(), "scheduled task panicked")
}

func Test_timerScheduler_Stop(t *testing.T) {
	logger, _ := testutils.NewBufferLogger()
	s := newTimerScheduler(logger)

	var ran atomic.Bool
	s.Schedule(time.Hour, func() { ran.Store(true) })
	s.Every(time.Hour, func() { ran.Store(true) })
	assert.Equal(t, 2, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.Pending())

	s.Schedule(time.Millisecond, func() { ran.Store(true) })
	assert.Equal(t, 0, s.Pending())

	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran.Load())
}

func Test_timerScheduler_Every_NonPositive(t *testing.T) {
	logger, buf := testutils.NewBufferLogger()
	s := newTimerScheduler(logger)
	defer s.Stop()

	var ran atomic.Bool
	for _, interval := range []time.Duration{0, -time.Second} {
		cancel := s.Every(interval, func() { ran.Store(true) })
		cancel()
	}

	assert.Equal(t, 0, s.Pending())
	assert.Contains(t, buf.String(), "interval must be positive")

	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran.Load())
}

func Test_timerScheduler_Every_ShortInterval(t *testing.T) {
	logger, _ := testutils.NewBufferLogger()
	s := newTimerScheduler(logger)
	defer s.Stop()

	// The first run can start before Every returns; it must still re-arm
	var runs atomic.Int32
	cancel := s.Every(time.Nanosecond, func() { runs.Add(1) })
	defer cancel()

	assert.Eventually(t, func() bool { return runs.Load() >= 5 }, waitFor, time.Millisecond)
	assert.Equal(t, 1, s.Pending())
}
