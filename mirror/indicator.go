package mirror

import (
	"sync"
	"time"
)

// Indicator is the "saved" badge: shown after each successful flush and
// hidden again once its hold time passes without another flush.
type Indicator struct {
	mu      sync.Mutex
	hold    time.Duration
	visible bool
	at      time.Time
	slot    Slot
}

func NewIndicator(hold time.Duration) *Indicator {
	return &Indicator{hold: hold}
}

// Show makes the badge visible and restarts its hold timer.
func (in *Indicator) Show(at time.Time) {
	in.mu.Lock()
	in.visible = true
	in.at = at
	in.mu.Unlock()

	in.slot.Schedule(in.hold, func() {
		in.mu.Lock()
		in.visible = false
		in.mu.Unlock()
	})
}

// Visible reports whether the badge is showing and when it was last raised.
func (in *Indicator) Visible() (bool, time.Time) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.visible, in.at
}

func (in *Indicator) stop() {
	in.slot.Cancel()
	in.mu.Lock()
	in.visible = false
	in.mu.Unlock()
}
