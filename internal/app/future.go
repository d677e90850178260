package app

import (
	"context"
	"sync"

	"github.com/verte-zerg/cetgrade/internal/model"
)

// Outcome is the observable state of a Future.
type Outcome int

// Future outcomes.
const (
	Pending Outcome = iota
	Fulfilled
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Future is the single outstanding grading request.
type Future struct {
	attempt int
	done    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	result model.GradingResult
	err    error
}

func newFuture(attempt int) *Future {
	return &Future{attempt: attempt, done: make(chan struct{})}
}

func (f *Future) resolve(result model.GradingResult, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.result = result
		f.err = err
		f.mu.Unlock()
		close(f.done)
	})
}

// Done is closed once the request settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Outcome reports the current outcome without blocking.
func (f *Future) Outcome() Outcome {
	select {
	case <-f.done:
	default:
		return Pending
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Rejected
	}
	return Fulfilled
}

// Await blocks until the request settles or ctx is done.
func (f *Future) Await(ctx context.Context) (model.GradingResult, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return model.GradingResult{}, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}
