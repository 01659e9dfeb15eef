package impact2d

import "time"

/// Timer for profiling. Wall clock, millisecond resolution is plenty for a
/// per-step profile.
type Timer struct {
	start time.Time
}

func MakeTimer() Timer {
	return Timer{
		start: time.Now(),
	}
}

/// Reset the timer.
func (t *Timer) Reset() {
	t.start = time.Now()
}

/// Get the time since construction or the last reset.
func (t Timer) GetMilliseconds() float64 {
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}
