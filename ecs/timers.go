package ecs

import (
	"container/heap"
	"time"
)

// TimerToken identifies a scheduled callback. The zero token is never issued.
type TimerToken uint64

type timerEntry struct {
	fireAt time.Duration
	seq    uint64
	token  TimerToken
	fn     func()
	index  int
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].fireAt != h[j].fireAt {
		return h[i].fireAt < h[j].fireAt
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	entry := x.(*timerEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[:n-1]
	return entry
}

// Timers is a simulation clock with a priority queue of pending callbacks
// ordered by (fire time, schedule order).
type Timers struct {
	now     time.Duration
	seq     uint64
	pending timerHeap
	byToken map[TimerToken]*timerEntry
}

// Now returns the current simulation time. Inside a callback it equals the
// callback's scheduled fire time.
func (t *Timers) Now() time.Duration {
	if t == nil {
		return 0
	}
	return t.now
}

// After schedules fn to run delay after Now. Negative delays run at Now.
func (t *Timers) After(delay time.Duration, fn func()) TimerToken {
	if t == nil || fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	if t.byToken == nil {
		t.byToken = make(map[TimerToken]*timerEntry)
	}
	t.seq++
	entry := &timerEntry{
		fireAt: t.now + delay,
		seq:    t.seq,
		token:  TimerToken(t.seq),
		fn:     fn,
	}
	heap.Push(&t.pending, entry)
	t.byToken[entry.token] = entry
	return entry.token
}

// Cancel removes a pending callback. It reports false for unknown, fired or
// already cancelled tokens.
func (t *Timers) Cancel(token TimerToken) bool {
	if t == nil {
		return false
	}
	entry, ok := t.byToken[token]
	if !ok {
		return false
	}
	delete(t.byToken, token)
	if entry.index >= 0 {
		heap.Remove(&t.pending, entry.index)
	}
	return true
}

// Pending reports whether token is still scheduled.
func (t *Timers) Pending(token TimerToken) bool {
	if t == nil {
		return false
	}
	_, ok := t.byToken[token]
	return ok
}

// Len returns the number of scheduled callbacks.
func (t *Timers) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pending)
}

// Advance moves the clock forward by dt and runs every callback due by the
// new time in timestamp order. Callbacks scheduled while advancing run in the
// same call when they fall due. It returns the number of callbacks run.
func (t *Timers) Advance(dt time.Duration) int {
	if t == nil {
		return 0
	}
	if dt < 0 {
		dt = 0
	}
	target := t.now + dt
	ran := 0
	for len(t.pending) > 0 && t.pending[0].fireAt <= target {
		entry := heap.Pop(&t.pending).(*timerEntry)
		delete(t.byToken, entry.token)
		t.now = entry.fireAt
		entry.fn()
		ran++
	}
	t.now = target
	return ran
}
