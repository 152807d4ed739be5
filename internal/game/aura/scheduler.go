package aura

import "container/heap"

// task is a delayed one-shot action bound to an aura.
type task struct {
	at       int64
	seq      uint64
	auraID   ID
	fn       func()
	canceled bool
}

func (t *task) cancel() { t.canceled = true }

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*task)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// scheduler is a time-ordered queue drained once per tick.
// Canceled tasks stay queued and are skipped when due.
type scheduler struct {
	tasks taskHeap
	seq   uint64
}

func (s *scheduler) schedule(at int64, auraID ID, fn func()) *task {
	s.seq++
	t := &task{at: at, seq: s.seq, auraID: auraID, fn: fn}
	heap.Push(&s.tasks, t)
	return t
}

// runDue executes every live task due at now, including tasks scheduled by them.
func (s *scheduler) runDue(now int64) {
	for s.tasks.Len() > 0 && s.tasks[0].at <= now {
		t := heap.Pop(&s.tasks).(*task)
		if t.canceled {
			continue
		}
		t.fn()
	}
}

// pending returns queued tasks, canceled ones included.
func (s *scheduler) pending() int { return s.tasks.Len() }
