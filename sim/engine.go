// Generic discrete-event kernel: a virtual-time clock and a priority queue
// of scheduled callbacks ordered by (time, insertion). Every other file in
// this package models its process as an explicit finite-state machine
// driven through Engine.Timeout and Engine.Cancel rather than as a
// generator-style coroutine; the single-threaded, deterministic-tie-break
// discipline is what actually matters and is preserved exactly.

package sim

import "container/heap"

// eventHandle is one scheduled callback. Ordered by (time, seq) so that
// two callbacks scheduled for the same virtual instant fire in the order
// they were scheduled, never reordered by the heap.
type eventHandle struct {
	time      Time
	seq       int64
	fn        func(*Engine) error
	cancelled bool
}

type eventQueue []*eventHandle

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(*eventHandle))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// EventHandle is an opaque reference to a scheduled timeout, returned by
// Engine.Timeout so a caller can later Cancel it (e.g. a job rescheduling
// its completion timeout after a rank-change gives it a new speed).
type EventHandle struct {
	h *eventHandle
}

// Engine is the single-threaded cooperative scheduler. It owns the
// virtual-time clock; nothing advances time except a call to Run.
type Engine struct {
	now   Time
	queue eventQueue
	seq   int64
}

// NewEngine returns an Engine with its clock at 0 and an empty queue.
func NewEngine() *Engine {
	return &Engine{queue: make(eventQueue, 0)}
}

// Now returns the engine's current virtual time.
func (e *Engine) Now() Time {
	return e.now
}

// Timeout schedules fn to fire after delta virtual-time units elapse
// (delta must be >= 0). Returns a handle usable with Cancel. Scheduling
// never itself advances the clock.
func (e *Engine) Timeout(delta Time, fn func(*Engine) error) *EventHandle {
	h := &eventHandle{time: e.now + delta, seq: e.seq, fn: fn}
	e.seq++
	heap.Push(&e.queue, h)
	return &EventHandle{h: h}
}

// Cancel marks a previously scheduled timeout so it is skipped when its
// turn comes up. Cancelling an already-fired or already-cancelled handle
// is a no-op.
func (e *Engine) Cancel(h *EventHandle) {
	if h == nil || h.h == nil {
		return
	}
	h.h.cancelled = true
}

// Run advances the clock and fires callbacks in (time, insertion) order
// until one of three things happens: the queue drains, the clock reaches
// until, or a callback returns a non-nil error. That error is an
// unhandled interrupt escaping its process (spec: deadline-miss
// interrupts propagate this way) and Run returns it immediately without
// advancing further. On a clean drain or horizon stop, Run snaps the
// clock to until and returns nil.
func (e *Engine) Run(until Time) error {
	for e.queue.Len() > 0 {
		next := e.queue[0]
		if next.time > until {
			break
		}
		heap.Pop(&e.queue)
		if next.cancelled {
			continue
		}
		e.now = next.time
		if err := next.fn(e); err != nil {
			return err
		}
	}
	if e.now < until {
		e.now = until
	}
	return nil
}
