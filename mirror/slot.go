package mirror

import (
	"sync"
	"time"
)

// Slot is a single-slot cancellable timer: scheduling replaces whatever was
// pending, so at most one callback is ever waiting.
type Slot struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Schedule arranges for fn to run after d, cancelling any pending callback.
func (s *Slot) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		// A Stop that lost the race against the runtime still must not fire.
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any. It reports whether one was
// pending.
func (s *Slot) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.gen++
	return true
}

// Pending reports whether a callback is waiting to run.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
