package search

import (
	"context"
	"log/slog"

	"pagefinder/internal/identity"
	"pagefinder/internal/logging"
	"pagefinder/internal/validate"
)

// DefaultMaxResults bounds how many candidates a backend returns per query.
const DefaultMaxResults = 5

// AttemptStatus classifies one backend query.
type AttemptStatus string

const (
	AttemptUnavailable AttemptStatus = "unavailable"
	AttemptFault       AttemptStatus = "fault"
	AttemptEmpty       AttemptStatus = "empty"
	AttemptRejected    AttemptStatus = "rejected"
	AttemptAccepted    AttemptStatus = "accepted"
)

// Attempt records one backend query and what became of it.
type Attempt struct {
	Backend  string
	Strategy Strategy
	Query    string
	Status   AttemptStatus
	// URL is the accepted candidate, or the best-ranked rejected one.
	URL string
	Err error
}

// Outcome is the cascade result for one identity. URL is empty when every
// backend was exhausted.
type Outcome struct {
	URL      string
	Backend  string
	Strategy Strategy
	Attempts []Attempt
}

// Found reports whether a validated URL was returned.
func (o Outcome) Found() bool {
	return o.URL != ""
}

// Observer receives every attempt as it completes.
type Observer func(ctx context.Context, id identity.Identity, attempt Attempt)

// Cascade walks backends in priority order until a candidate validates.
type Cascade struct {
	backends   []Backend
	maxResults int
	check      func(identity.Identity, string) validate.Decision
	logger     *slog.Logger
	observers  []Observer
}

// Option customizes a Cascade.
type Option func(*Cascade)

// WithMaxResults overrides DefaultMaxResults.
func WithMaxResults(n int) Option {
	return func(c *Cascade) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithLogger sets the cascade logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cascade) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn to receive every attempt.
func WithObserver(fn Observer) Option {
	return func(c *Cascade) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// WithValidator replaces validate.Check.
func WithValidator(fn func(identity.Identity, string) validate.Decision) Option {
	return func(c *Cascade) {
		if fn != nil {
			c.check = fn
		}
	}
}

// NewCascade builds a cascade over backends in priority order.
func NewCascade(backends []Backend, opts ...Option) *Cascade {
	c := &Cascade{
		backends:   append([]Backend(nil), backends...),
		maxResults: DefaultMaxResults,
		check:      validate.Check,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "search")
	return c
}

// Backends returns the backend names in priority order.
func (c *Cascade) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// Find returns the first candidate that a backend produces and the validator
// accepts. Identities without instructor tokens are never searched. Find stops
// early only when ctx is done; backend faults are recorded and skipped.
func (c *Cascade) Find(ctx context.Context, id identity.Identity) Outcome {
	var outcome Outcome
	if !id.Resolvable() {
		c.logger.Debug("identity not searchable", logging.String("identity", id.String()))
		return outcome
	}
	logger := logging.WithContext(ctx, c.logger)

	for _, backend := range c.backends {
		name := backend.Name()
		blog := logger.With(logging.String(logging.FieldBackend, name))

	strategies:
		for _, q := range Queries(id, backend.Strategies()) {
			if ctx.Err() != nil {
				return outcome
			}
			qlog := blog.With(logging.String(logging.FieldStrategy, string(q.Strategy)))
			qlog.Debug("searching", logging.String("query", q.Text))

			attempt := Attempt{Backend: name, Strategy: q.Strategy, Query: q.Text}
			result, err := backend.Search(ctx, q, c.maxResults)
			if err != nil {
				fault := &FaultError{Backend: name, Strategy: q.Strategy, Err: err}
				attempt.Status = AttemptFault
				attempt.Err = fault
				c.record(ctx, id, &outcome, attempt)
				logging.WarnWithContext(qlog, "search backend fault", "search_fault",
					logging.Error(err),
					logging.String(logging.FieldImpact, "trying next strategy or backend"),
					logging.String(logging.FieldErrorHint, "check network access or the backend's availability"),
				)
				continue
			}

			switch {
			case result.Status == StatusUnavailable:
				attempt.Status = AttemptUnavailable
				c.record(ctx, id, &outcome, attempt)
				qlog.Debug("backend unavailable, skipping")
				break strategies
			case result.Status == StatusEmpty || len(result.Candidates) == 0:
				attempt.Status = AttemptEmpty
				c.record(ctx, id, &outcome, attempt)
				qlog.Debug("no candidates")
				continue
			}

			for _, candidate := range result.Candidates {
				decision := c.check(id, candidate.URL)
				if decision.Accepted {
					attempt.Status = AttemptAccepted
					attempt.URL = candidate.URL
					c.record(ctx, id, &outcome, attempt)
					outcome.URL = candidate.URL
					outcome.Backend = name
					outcome.Strategy = q.Strategy
					qlog.Info("candidate accepted",
						logging.String("url", candidate.URL),
						logging.String("match", decision.Match),
					)
					return outcome
				}
				if attempt.URL == "" {
					attempt.URL = candidate.URL
				}
				qlog.Debug("candidate rejected",
					logging.String("url", candidate.URL),
					logging.String("reason", decision.Reason),
				)
			}
			attempt.Status = AttemptRejected
			c.record(ctx, id, &outcome, attempt)
		}
	}
	return outcome
}

func (c *Cascade) record(ctx context.Context, id identity.Identity, outcome *Outcome, attempt Attempt) {
	outcome.Attempts = append(outcome.Attempts, attempt)
	for _, fn := range c.observers {
		fn(ctx, id, attempt)
	}
}
