// Package scheduler implements C3: the single-threaded (Machine-thread-only)
// event scheduler — named timers with nanosecond deadlines, a priority
// heap, and an Advance() tick driver.
package scheduler

import (
	"container/heap"
)

// TimerID identifies a registered timer. The id is
// the primary handle; the name is diagnostic only and is never looked up
// in steady state.
type TimerID uint64

// Callback is invoked when a timer fires. now is the virtual time (ns) at
// which the callback runs, guaranteed >= the timer's deadline.
type Callback func(nowNs int64)

type timer struct {
	id         TimerID
	name       string
	callback   Callback
	periodNs   int64
	deadlineNs int64
	oneShot    bool
	active     bool
	regSeq     uint64 // registration/activation sequence, tie-breaks equal deadlines
	heapIndex  int
}

// Scheduler owns virtual time and a min-heap of active timers ordered by
// deadline, ties broken by registration/activation order.
type Scheduler struct {
	nowNs    int64
	timers   map[TimerID]*timer
	pq       timerHeap
	nextID   TimerID
	seqCtr   uint64
}

func New() *Scheduler {
	s := &Scheduler{
		timers: make(map[TimerID]*timer),
	}
	heap.Init(&s.pq)
	return s
}

// NowNs returns current virtual time.
func (s *Scheduler) NowNs() int64 { return s.nowNs }

// RegisterTimer creates an inactive timer bound to cb, returning its id.
// Registration never arms it; call ActivateTimer to start it ticking.
func (s *Scheduler) RegisterTimer(cb Callback, name string) TimerID {
	s.nextID++
	id := s.nextID
	t := &timer{id: id, name: name, callback: cb, heapIndex: -1}
	s.timers[id] = t
	return id
}

// ActivateTimer arms (or re-arms) the timer to fire delayNs of virtual time
// from now. If oneShot is false, the timer re-inserts itself at
// deadline+period after every firing (a repeating timer).
func (s *Scheduler) ActivateTimer(id TimerID, delayNs int64, oneShot bool) {
	t, ok := s.timers[id]
	if !ok {
		return
	}
	if t.active {
		s.removeFromHeap(t)
	}
	t.periodNs = delayNs
	t.deadlineNs = s.nowNs + delayNs
	t.oneShot = oneShot
	t.active = true
	s.seqCtr++
	t.regSeq = s.seqCtr
	heap.Push(&s.pq, t)
}

// DeactivateTimer cancels a timer. Idempotent: deactivating an already
// inactive timer is a no-op.
func (s *Scheduler) DeactivateTimer(id TimerID) {
	t, ok := s.timers[id]
	if !ok || !t.active {
		return
	}
	s.removeFromHeap(t)
	t.active = false
}

func (s *Scheduler) removeFromHeap(t *timer) {
	if t.heapIndex >= 0 {
		heap.Remove(&s.pq, t.heapIndex)
	}
}

// IsActive reports whether the timer is currently armed.
func (s *Scheduler) IsActive(id TimerID) bool {
	t, ok := s.timers[id]
	return ok && t.active
}

// GetETA returns the nanoseconds of virtual time remaining until the
// timer's next deadline, or (0, false) if inactive.
func (s *Scheduler) GetETA(id TimerID) (int64, bool) {
	t, ok := s.timers[id]
	if !ok || !t.active {
		return 0, false
	}
	eta := t.deadlineNs - s.nowNs
	if eta < 0 {
		eta = 0
	}
	return eta, true
}

// Advance increments virtual time by elapsedNs and fires every timer whose
// deadline has passed, in deadline order (ties broken by registration/
// activation sequence). A fired repeating timer re-inserts itself at
// deadline+period. Callbacks may freely register/activate/cancel other
// timers, including themselves, without invalidating this iteration: the
// heap is consulted fresh after each pop.
func (s *Scheduler) Advance(elapsedNs int64) {
	s.nowNs += elapsedNs
	for s.pq.Len() > 0 {
		next := s.pq[0]
		if next.deadlineNs > s.nowNs {
			break
		}
		heap.Pop(&s.pq)
		next.active = false

		if !next.oneShot {
			next.deadlineNs += next.periodNs
			next.active = true
			s.seqCtr++
			next.regSeq = s.seqCtr
			heap.Push(&s.pq, next)
		}

		next.callback(s.nowNs)
	}
}

// PendingCount returns the number of currently-armed timers, used by the
// orchestrator's status snapshot.
func (s *Scheduler) PendingCount() int {
	return s.pq.Len()
}

// timerHeap is a container/heap.Interface ordering by (deadlineNs, regSeq).
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].deadlineNs != h[j].deadlineNs {
		return h[i].deadlineNs < h[j].deadlineNs
	}
	return h[i].regSeq < h[j].regSeq
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.heapIndex = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.heapIndex = -1
	*h = old[:n-1]
	return t
}
