package search

import (
	"fmt"
	"strings"
)

// HTTPStatusError reports a non-2xx response from a search endpoint.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "http status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d location=%s", e.StatusCode, loc)
}

// BlockedError reports a challenge or rate-limit page served instead of
// results. It is never worked around; the cascade moves on.
type BlockedError struct {
	URL    string
	Reason string
}

func (e *BlockedError) Error() string {
	if e == nil || strings.TrimSpace(e.Reason) == "" {
		return "blocked"
	}
	return "blocked: " + strings.TrimSpace(e.Reason)
}

// FaultError ties a backend failure to the strategy that triggered it.
type FaultError struct {
	Backend  string
	Strategy Strategy
	Err      error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("backend=%s strategy=%s: %v", e.Backend, e.Strategy, e.Err)
}

func (e *FaultError) Unwrap() error { return e.Err }
