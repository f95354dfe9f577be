package hrc

import (
	"time"

	"github.com/cgxeiji/hrc/max30100"
)

// Timeval is a wall-clock time split in seconds and microseconds.
type Timeval struct {
	Sec  int64
	Usec int64
}

// TimevalOf converts t to a Timeval.
func TimevalOf(t time.Time) Timeval {
	return Timeval{Sec: t.Unix(), Usec: int64(t.Nanosecond() / 1000)}
}

// Duration returns t as a duration.
func (t Timeval) Duration() time.Duration {
	return time.Duration(t.Sec)*time.Second + time.Duration(t.Usec)*time.Microsecond
}

// Subtract returns end - start, borrowing seconds when the microseconds of
// start exceed those of end. If start follows end, the result is zero and
// negative is true.
func Subtract(end, start Timeval) (diff Timeval, negative bool) {
	sec := end.Sec - start.Sec
	usec := end.Usec - start.Usec
	if usec < 0 {
		borrow := (-usec + 999_999) / 1_000_000
		usec += borrow * 1_000_000
		sec -= borrow
	}
	if usec >= 1_000_000 {
		sec += usec / 1_000_000
		usec %= 1_000_000
	}
	if sec < 0 {
		return Timeval{}, true
	}

	return Timeval{Sec: sec, Usec: usec}, false
}

// Elapsed returns to - from using the monotonic clock when both times carry
// it. Like Subtract, a negative difference is reported as zero with negative
// set.
func Elapsed(from, to time.Time) (d time.Duration, negative bool) {
	d = to.Sub(from)
	if d < 0 {
		return 0, true
	}

	return d, false
}

// Monitor measures the time between successive FIFO almost full events. It is
// only used for diagnostics.
type Monitor struct {
	last     time.Time
	interval ewma
}

// ewma is a moving average weighting the newest value by 1/4. It starts at
// the first value added.
type ewma struct {
	mean   float64
	seeded bool
}

func (e *ewma) add(v float64) {
	if !e.seeded {
		e.mean, e.seeded = v, true
		return
	}
	e.mean += (v - e.mean) / 4
}

// Mark records an almost full event at t and returns the time since the
// previous one, or 0 for the first event.
func (m *Monitor) Mark(t time.Time) time.Duration {
	if m.last.IsZero() {
		m.last = t
		return 0
	}

	d, _ := Elapsed(m.last, t)
	m.last = t
	m.interval.add(float64(d))

	return d
}

// Interval returns the moving average of the time between events.
func (m *Monitor) Interval() time.Duration {
	return time.Duration(m.interval.mean)
}

// Rate returns the effective sample rate in samples/s, estimated from the
// average interval between full FIFOs. It returns 0 before two events were
// marked.
func (m *Monitor) Rate() float64 {
	i := m.Interval()
	if i <= 0 {
		return 0
	}

	return max30100.FIFODepth / i.Seconds()
}

// Reset forgets every recorded event.
func (m *Monitor) Reset() {
	*m = Monitor{}
}
