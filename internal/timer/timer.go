// Package timer is a cooperative software timer table. Nothing here runs on
// its own: the owner calls CheckOnce from its main loop and expired timers
// fire synchronously from inside that call.
package timer

// MaxTimers is the size of the timer table. Slot 0 is never issued, so
// MaxTimers-1 timers can be live at once.
const MaxTimers = 32

// ID is a 1-based timer handle. The zero ID means no timer.
type ID int

// Func is called when a timer expires, with the timer's handle and the
// argument it was defined with.
type Func func(id ID, arg any)

type slot struct {
	expiration uint64 // absolute deadline in ms; 0 = free
	repeat     uint64 // 0 = one-shot
	fn         Func
	arg        any
	gen        uint32 // bumped on every define/cancel
}

type Scheduler struct {
	clock Clock
	slots [MaxTimers]slot
}

func NewScheduler(c Clock) *Scheduler {
	if c == nil {
		c = NewSystemClock()
	}
	return &Scheduler{clock: c}
}

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() uint64 { return s.clock.Millis() }

func (s *Scheduler) valid(id ID) bool { return id > 0 && int(id) < MaxTimers }

// Define arms the first free timer to expire offset ms from now, repeating
// every repeat ms if repeat > 0. It returns 0 when the table is full.
func (s *Scheduler) Define(offset, repeat uint64, fn Func, arg any) ID {
	for i := 1; i < MaxTimers; i++ {
		t := &s.slots[i]
		if t.expiration != 0 {
			continue
		}
		t.gen++
		t.fn = fn
		t.arg = arg
		t.repeat = repeat
		s.SetExpiration(ID(i), offset)
		return ID(i)
	}
	return 0
}

// Cancel frees the timer. Unknown or already free handles are ignored.
func (s *Scheduler) Cancel(id ID) {
	if !s.valid(id) {
		return
	}
	t := &s.slots[id]
	t.expiration = 0
	t.repeat = 0
	t.fn = nil
	t.arg = nil
	t.gen++
}

// CheckOnce makes exactly one pass over the table in slot order, firing each
// live timer whose deadline has passed. A timer fires at most once per pass
// however late it is; a repeating timer that has fallen behind is pushed to
// now+1 instead of catching up.
func (s *Scheduler) CheckOnce() {
	for i := 1; i < MaxTimers; i++ {
		t := &s.slots[i]
		if t.expiration == 0 || t.expiration > s.clock.Millis() {
			continue
		}
		gen := t.gen
		if t.fn != nil {
			t.fn(ID(i), t.arg)
		}
		if t.gen != gen {
			// cancelled, possibly re-defined, by the callback
			continue
		}
		if t.expiration == 0 || t.repeat == 0 {
			s.Cancel(ID(i))
			continue
		}
		now := s.clock.Millis()
		next := t.expiration + t.repeat
		if next <= now {
			next = now + 1
		}
		t.expiration = next
	}
}

// Active reports how many timers are live.
func (s *Scheduler) Active() int {
	n := 0
	for i := 1; i < MaxTimers; i++ {
		if s.slots[i].expiration != 0 {
			n++
		}
	}
	return n
}

func (s *Scheduler) Expiration(id ID) uint64 {
	if !s.valid(id) {
		return 0
	}
	return s.slots[id].expiration
}

// SetExpiration moves the deadline to offset ms from now.
func (s *Scheduler) SetExpiration(id ID, offset uint64) {
	if !s.valid(id) {
		return
	}
	exp := s.clock.Millis() + offset
	if exp == 0 {
		exp = 1
	}
	s.slots[id].expiration = exp
}

func (s *Scheduler) Repeat(id ID) uint64 {
	if !s.valid(id) {
		return 0
	}
	return s.slots[id].repeat
}

func (s *Scheduler) SetRepeat(id ID, repeat uint64) {
	if s.valid(id) {
		s.slots[id].repeat = repeat
	}
}

func (s *Scheduler) SetFunc(id ID, fn Func) {
	if s.valid(id) {
		s.slots[id].fn = fn
	}
}

func (s *Scheduler) SetArg(id ID, arg any) {
	if s.valid(id) {
		s.slots[id].arg = arg
	}
}
