package anim

import "github.com/chewxy/math32"

// TickFunc receives the elapsed time and the frame delta, in seconds.
type TickFunc func(elapsed, delta float32)

// Timer is an explicit elapsed-time source. Subscribers are called on every
// Advance while the timer runs; second listeners fire once per whole second
// crossed. A stopped timer ignores Advance, so subscribers see a frozen clock.
type Timer struct {
	elapsed float64
	running bool

	nextID  int
	ticks   []timerSub
	seconds []secondSub
}

type timerSub struct {
	id int
	fn TickFunc
}

type secondSub struct {
	id int
	fn func(seconds int)
}

// NewTimer returns a stopped timer at zero.
func NewTimer() *Timer {
	return &Timer{}
}

// Subscribe registers fn for every tick. The returned function removes it;
// called from inside a subscriber, the removal takes effect from the next
// Advance.
func (t *Timer) Subscribe(fn TickFunc) (unsubscribe func()) {
	t.nextID++
	id := t.nextID
	t.ticks = append(t.ticks, timerSub{id: id, fn: fn})
	return func() { t.ticks = without(t.ticks, id, func(s timerSub) int { return s.id }) }
}

// OnSecond registers fn for every whole second of elapsed time.
func (t *Timer) OnSecond(fn func(seconds int)) (unsubscribe func()) {
	t.nextID++
	id := t.nextID
	t.seconds = append(t.seconds, secondSub{id: id, fn: fn})
	return func() { t.seconds = without(t.seconds, id, func(s secondSub) int { return s.id }) }
}

// Start resumes the clock.
func (t *Timer) Start() { t.running = true }

// Stop pauses the clock.
func (t *Timer) Stop() { t.running = false }

// Toggle flips between running and stopped and returns the new state.
func (t *Timer) Toggle() bool {
	t.running = !t.running
	return t.running
}

// Running reports whether Advance moves the clock.
func (t *Timer) Running() bool { return t.running }

// Reset rewinds to zero without changing the running state.
func (t *Timer) Reset() { t.elapsed = 0 }

// Seconds returns the elapsed time.
func (t *Timer) Seconds() float32 { return float32(t.elapsed) }

// Advance moves the clock by dt seconds and notifies subscribers.
// Non-positive deltas and a stopped timer leave the clock untouched.
func (t *Timer) Advance(dt float32) {
	if !t.running || !(dt > 0) || math32.IsInf(dt, 1) {
		return
	}
	before := int(t.elapsed)
	t.elapsed += float64(dt)
	now := float32(t.elapsed)

	for _, s := range t.ticks {
		s.fn(now, dt)
	}
	for sec := before + 1; sec <= int(t.elapsed); sec++ {
		for _, s := range t.seconds {
			s.fn(sec)
		}
	}
}

// without returns subs minus the entry with id in a fresh slice. An Advance
// already ranging over the old slice is unaffected.
func without[S any](subs []S, id int, idOf func(S) int) []S {
	out := make([]S, 0, len(subs))
	for _, s := range subs {
		if idOf(s) != id {
			out = append(out, s)
		}
	}
	return out
}
