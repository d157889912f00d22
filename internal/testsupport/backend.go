package testsupport

import (
	"context"
	"sync"

	"pagefinder/internal/search"
)

// StubBackend is a scripted search.Backend. Results and Errors are keyed by
// strategy; strategies without an entry answer with an empty result.
type StubBackend struct {
	ID       string
	Strats   []search.Strategy
	Results  map[search.Strategy]search.Result
	Errors   map[search.Strategy]error
	Fallback *search.Result

	mu    sync.Mutex
	calls []search.Query
}

// NewStubBackend returns a stub named name that runs every strategy.
func NewStubBackend(name string) *StubBackend {
	return &StubBackend{
		ID:      name,
		Results: make(map[search.Strategy]search.Result),
		Errors:  make(map[search.Strategy]error),
	}
}

// On scripts the result for strategy.
func (b *StubBackend) On(strategy search.Strategy, result search.Result) *StubBackend {
	b.Results[strategy] = result
	return b
}

// Fail scripts a fault for strategy.
func (b *StubBackend) Fail(strategy search.Strategy, err error) *StubBackend {
	b.Errors[strategy] = err
	return b
}

// Always answers every strategy without a specific entry with result.
func (b *StubBackend) Always(result search.Result) *StubBackend {
	b.Fallback = &result
	return b
}

func (b *StubBackend) Name() string { return b.ID }

func (b *StubBackend) Strategies() []search.Strategy {
	if len(b.Strats) == 0 {
		return search.Strategies()
	}
	return b.Strats
}

func (b *StubBackend) Search(_ context.Context, q search.Query, _ int) (search.Result, error) {
	b.mu.Lock()
	b.calls = append(b.calls, q)
	b.mu.Unlock()

	if err, ok := b.Errors[q.Strategy]; ok {
		return search.Result{}, err
	}
	if result, ok := b.Results[q.Strategy]; ok {
		return result, nil
	}
	if b.Fallback != nil {
		return *b.Fallback, nil
	}
	return search.Found(), nil
}

// Calls returns the queries received so far.
func (b *StubBackend) Calls() []search.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]search.Query(nil), b.calls...)
}
