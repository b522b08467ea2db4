package usecase

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// TimerQueue holds one-shot scheduled tasks in a min-heap keyed by an
// owner-chosen id (the calendar event id for pre-event notifications).
// Entries live only in process memory: a restart forgets them. Scheduling
// an existing key replaces it; Cancel withdraws a task before it fires.
type TimerQueue struct {
	mu    sync.Mutex
	items map[string]*timerTask
	heap  taskHeap
	wake  chan struct{}
}

type timerTask struct {
	key    string
	fireAt time.Time
	fn     func()
	index  int // heap index, -1 once removed
}

func NewTimerQueue() *TimerQueue {
	return &TimerQueue{
		items: make(map[string]*timerTask),
		wake:  make(chan struct{}, 1),
	}
}

// Schedule arms fn to run at fireAt. A task already registered under key
// is replaced.
func (q *TimerQueue) Schedule(key string, fireAt time.Time, fn func()) {
	q.mu.Lock()
	if old, ok := q.items[key]; ok {
		heap.Remove(&q.heap, old.index)
	}
	task := &timerTask{key: key, fireAt: fireAt, fn: fn}
	q.items[key] = task
	heap.Push(&q.heap, task)
	q.mu.Unlock()
	q.notify()
}

// Cancel withdraws the task under key, if still pending.
func (q *TimerQueue) Cancel(key string) {
	q.mu.Lock()
	if task, ok := q.items[key]; ok {
		heap.Remove(&q.heap, task.index)
		delete(q.items, key)
	}
	q.mu.Unlock()
	q.notify()
}

// Len reports how many tasks are pending.
func (q *TimerQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}

// Run fires due tasks until ctx is cancelled. It waits on the earliest
// entry and is rewoken whenever the queue head changes.
func (q *TimerQueue) Run(ctx context.Context) {
	for {
		next, ok := q.peek()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
			}
			continue
		}

		delay := time.Until(next)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-q.wake:
				timer.Stop()
				continue
			case <-timer.C:
			}
		}

		for _, task := range q.popDue(time.Now()) {
			go task.fn()
		}
	}
}

func (q *TimerQueue) peek() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.heap.Len() == 0 {
		return time.Time{}, false
	}
	return q.heap[0].fireAt, true
}

func (q *TimerQueue) popDue(now time.Time) []*timerTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	var due []*timerTask
	for q.heap.Len() > 0 && !q.heap[0].fireAt.After(now) {
		task := heap.Pop(&q.heap).(*timerTask)
		delete(q.items, task.key)
		due = append(due, task)
	}
	return due
}

func (q *TimerQueue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

type taskHeap []*timerTask

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].fireAt.Before(h[j].fireAt) }

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*timerTask)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	t.index = -1
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
