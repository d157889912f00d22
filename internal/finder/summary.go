package finder

import (
	"fmt"

	"pagefinder/internal/identity"
)

// GroupStatus is how a series group ended the run.
type GroupStatus string

const (
	GroupCached       GroupStatus = "cached"
	GroupFound        GroupStatus = "found"
	GroupNotFound     GroupStatus = "not_found"
	GroupUnresolvable GroupStatus = "unresolvable"
	// GroupSkipped marks groups never reached because the run was interrupted.
	GroupSkipped GroupStatus = "skipped"
)

// GroupResult reports one series group.
type GroupResult struct {
	Key            identity.SeriesKey
	Title          string
	Representative string
	Files          []string
	Status         GroupStatus
	URL            string
	Backend        string
	Attempts       int
	Saved          bool
}

// Summary aggregates a run.
type Summary struct {
	RunID      string
	StorePath  string
	Missing    []string
	Unreadable []string
	Groups     []GroupResult

	TotalFiles      int
	MatchedFiles    int
	Cached          int
	New             int
	PersistFailures int
	Interrupted     bool
}

// TotalSeries is the number of distinct series groups.
func (s Summary) TotalSeries() int {
	return len(s.Groups)
}

// SeriesFound counts groups with a URL, cached or new.
func (s Summary) SeriesFound() int {
	return s.Cached + s.New
}

// Count returns how many groups ended with status.
func (s Summary) Count(status GroupStatus) int {
	n := 0
	for _, g := range s.Groups {
		if g.Status == status {
			n++
		}
	}
	return n
}

// Resolved reports whether at least one video received a URL.
func (s Summary) Resolved() bool {
	return s.MatchedFiles > 0
}

// Line renders the one-line run summary.
func (s Summary) Line() string {
	return fmt.Sprintf("Summary: %d/%d series found (%d cached, %d new), %d/%d total videos matched",
		s.SeriesFound(), s.TotalSeries(), s.Cached, s.New, s.MatchedFiles, s.TotalFiles)
}

func (s *Summary) tally() {
	s.Cached, s.New, s.MatchedFiles, s.TotalFiles = 0, 0, 0, 0
	for _, g := range s.Groups {
		s.TotalFiles += len(g.Files)
		switch g.Status {
		case GroupCached:
			s.Cached++
			s.MatchedFiles += len(g.Files)
		case GroupFound:
			s.New++
			s.MatchedFiles += len(g.Files)
		}
	}
}
