package search

import (
	"context"
	"strings"

	"pagefinder/internal/identity"
)

// KeySeriesTokens is how many leading series tokens the key-series strategy
// adds to the instructor phrase.
const KeySeriesTokens = 2

// Strategy names one way of turning an identity into a query.
type Strategy string

const (
	// StrategyFullSeries quotes the instructor and appends every series token.
	StrategyFullSeries Strategy = "full_series"
	// StrategyKeySeries quotes the instructor and appends the first
	// KeySeriesTokens series tokens.
	StrategyKeySeries Strategy = "key_series"
	// StrategyInstructor searches for the quoted instructor alone.
	StrategyInstructor Strategy = "instructor"
)

// Strategies returns every strategy from most to least specific.
func Strategies() []Strategy {
	return []Strategy{StrategyFullSeries, StrategyKeySeries, StrategyInstructor}
}

// Query is a strategy rendered for one identity.
type Query struct {
	Strategy Strategy
	Text     string
}

// BuildQuery renders strategy for id. ok is false when the identity has no
// instructor tokens.
func BuildQuery(id identity.Identity, strategy Strategy) (Query, bool) {
	if !id.Resolvable() {
		return Query{}, false
	}
	text := `"` + strings.Join(id.Instructor, " ") + `"`
	var series []string
	switch strategy {
	case StrategyFullSeries:
		series = id.Series
	case StrategyKeySeries:
		series = id.Series[:min(KeySeriesTokens, len(id.Series))]
	}
	if len(series) > 0 {
		text += " " + strings.Join(series, " ")
	}
	return Query{Strategy: strategy, Text: text}, true
}

// Queries renders strategies for id in order, dropping strategies whose text
// repeats an earlier one (an identity without series tokens yields a single
// instructor query).
func Queries(id identity.Identity, strategies []Strategy) []Query {
	seen := make(map[string]struct{}, len(strategies))
	queries := make([]Query, 0, len(strategies))
	for _, strategy := range strategies {
		q, ok := BuildQuery(id, strategy)
		if !ok {
			continue
		}
		if _, dup := seen[q.Text]; dup {
			continue
		}
		seen[q.Text] = struct{}{}
		queries = append(queries, q)
	}
	return queries
}

// Status distinguishes an unavailable backend from one that found nothing.
type Status int

const (
	// StatusUnavailable means the backend is not configured and was not
	// queried.
	StatusUnavailable Status = iota
	// StatusEmpty means the backend answered with no usable candidates.
	StatusEmpty
	// StatusResults means Candidates holds at least one URL.
	StatusResults
)

func (s Status) String() string {
	switch s {
	case StatusUnavailable:
		return "unavailable"
	case StatusEmpty:
		return "empty"
	case StatusResults:
		return "results"
	default:
		return "unknown"
	}
}

// Candidate is one ranked URL returned by a backend.
type Candidate struct {
	URL   string
	Title string
	Rank  int
}

// Result is a backend's answer to a single query.
type Result struct {
	Status     Status
	Candidates []Candidate
}

// Unavailable is the Result for a backend that cannot run.
func Unavailable() Result {
	return Result{Status: StatusUnavailable}
}

// Found wraps candidates into a Result, ranking them in order. An empty list
// yields StatusEmpty.
func Found(urls ...string) Result {
	if len(urls) == 0 {
		return Result{Status: StatusEmpty}
	}
	candidates := make([]Candidate, len(urls))
	for i, u := range urls {
		candidates[i] = Candidate{URL: u, Rank: i + 1}
	}
	return Result{Status: StatusResults, Candidates: candidates}
}

// Backend is one search source. Search must honour ctx and return a fault
// error for network, timeout, and parse failures.
type Backend interface {
	Name() string
	// Strategies lists the strategies this backend runs, most specific first.
	Strategies() []Strategy
	Search(ctx context.Context, q Query, maxResults int) (Result, error)
}
