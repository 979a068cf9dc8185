package clock

import "time"

// Manual is a virtual clock for tests. Callbacks run synchronously inside
// Advance, in due-time order. It is not safe for concurrent use.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

// NewManual returns a clock frozen at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

func (m *Manual) Every(interval time.Duration, fn func()) Timer {
	return m.add(interval, interval, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) *manualTimer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{at: m.now.Add(d), period: period, fn: fn, seq: m.seq}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due. Callbacks may schedule or stop other timers.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.next(target)
		if next == nil {
			break
		}
		m.now = next.at
		if next.period > 0 {
			m.seq++
			next.at = next.at.Add(next.period)
			next.seq = m.seq
		} else {
			next.stopped = true
		}
		next.fn()
		m.compact()
	}
	m.now = target
}

// Pending is the number of timers that can still fire.
func (m *Manual) Pending() int {
	m.compact()
	return len(m.timers)
}

func (m *Manual) next(limit time.Time) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.stopped || t.at.After(limit) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}

type manualTimer struct {
	at      time.Time
	period  time.Duration
	fn      func()
	seq     uint64
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
