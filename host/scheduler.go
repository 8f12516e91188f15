package host

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs tasks in the background on behalf of hosted components.
// It is bound in every hosted Container as "scheduler".
type Scheduler interface {
	// Schedule runs task once after delay.
	Schedule(delay time.Duration, task func()) (cancel func())

	// Every runs task repeatedly, waiting interval between runs.
	// A non-positive interval is rejected and task never runs.
	Every(interval time.Duration, task func()) (cancel func())
}

// timerScheduler is a [Scheduler] built on [time.AfterFunc].
// Stopping it cancels every pending task.
type timerScheduler struct {
	mu      sync.Mutex
	logger  *slog.Logger
	timers  map[uint64]*time.Timer
	next    uint64
	stopped bool
}

var _ Scheduler = (*timerScheduler)(nil)

func newTimerScheduler(logger *slog.Logger) *timerScheduler {
	return &timerScheduler{
		logger: logger,
		timers: make(map[uint64]*time.Timer),
	}
}

func (s *timerScheduler) Schedule(delay time.Duration, task func()) func() {
	id := s.add(delay, func(id uint64) func() {
		return func() {
			s.remove(id)
			s.run(task)
		}
	})

	return func() { s.cancel(id) }
}

func (s *timerScheduler) Every(interval time.Duration, task func()) func() {
	if interval <= 0 {
		s.logger.Error("scheduler rejected task", "error", "interval must be positive", "interval", interval)
		return func() {}
	}

	id := s.add(interval, func(id uint64) func() {
		return func() {
			s.run(task)

			s.mu.Lock()
			defer s.mu.Unlock()

			// Re-arm unless cancelled while the task ran
			if t, ok := s.timers[id]; ok && !s.stopped {
				t.Reset(interval)
			}
		}
	})

	return func() { s.cancel(id) }
}

// add arms a timer for the function built by newFunc from the task id.
// The lock is held until the timer is stored, and every callback takes the
// lock before looking its timer up.
func (s *timerScheduler) add(delay time.Duration, newFunc func(id uint64) func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	if s.stopped {
		return id
	}

	s.timers[id] = time.AfterFunc(delay, newFunc(id))
	return id
}

func (s *timerScheduler) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, id)
}

func (s *timerScheduler) cancel(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *timerScheduler) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked", "panic", r)
		}
	}()

	task()
}

// Stop cancels every pending task. Tasks already running are not interrupted.
func (s *timerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of tasks waiting to run.
func (s *timerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}
