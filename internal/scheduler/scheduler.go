// Package scheduler runs deferred callbacks from a single min-heap of
// (fire_at, callback) pairs checked by one coordinating loop. Both the
// per-contest reminders and the daily cycle trigger go through it, so
// the bot has no external cron dependency.
package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	at   time.Time
	name string
	fn   func(context.Context)
}

type entryHeap []*entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(*entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler owns the heap and the loop. There is no cancellation API:
// an armed entry either fires or is lost when the process stops.
type Scheduler struct {
	mu   sync.Mutex
	h    entryHeap
	wake chan struct{}
	log  *zap.Logger
}

// New creates an idle scheduler; nothing fires until Run is started.
func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		wake: make(chan struct{}, 1),
		log:  log,
	}
}

// At arms fn to run once fireAt is reached. A fireAt already in the
// past fires on the next loop pass.
func (s *Scheduler) At(fireAt time.Time, name string, fn func(context.Context)) {
	s.mu.Lock()
	heap.Push(&s.h, &entry{at: fireAt, name: name, fn: fn})
	s.mu.Unlock()

	// Nudge the loop in case the new entry is now the earliest.
	select {
	case s.wake <- struct{}{}:
	default:
	}
	s.log.Debug("callback armed", zap.String("name", name), zap.Time("fire_at", fireAt))
}

// Len reports how many callbacks are currently armed.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.h)
}

// Run dispatches due callbacks until ctx is canceled. Callbacks run on
// the loop goroutine, one at a time.
func (s *Scheduler) Run(ctx context.Context) {
	const idle = time.Hour

	timer := time.NewTimer(idle)
	defer timer.Stop()

	for {
		wait := idle
		s.mu.Lock()
		if len(s.h) > 0 {
			wait = time.Until(s.h[0].at)
		}
		s.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping", zap.Int("armed", s.Len()))
			return
		case <-s.wake:
			// re-evaluate earliest entry
		case <-timer.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	for {
		now := time.Now()
		s.mu.Lock()
		if len(s.h) == 0 || s.h[0].at.After(now) {
			s.mu.Unlock()
			return
		}
		e := heap.Pop(&s.h).(*entry)
		s.mu.Unlock()

		s.log.Info("callback firing", zap.String("name", e.name))
		e.fn(ctx)
	}
}

// NextDaily returns the next wall-clock occurrence of hour:00 strictly
// after now, in now's location.
func NextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
