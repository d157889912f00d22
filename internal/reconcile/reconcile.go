package reconcile

import (
	"log/slog"
	"sort"
	"strings"

	"pagefinder/internal/catalog"
	"pagefinder/internal/identity"
	"pagefinder/internal/logging"
	"pagefinder/internal/series"
)

// Score weights.
const (
	InstructorPairWeight = 2
	SeriesTokenWeight    = 1
	// MinInstructorTokenLength applies to whichever side of a pair is the
	// substring.
	MinInstructorTokenLength = 3
	// MinSeriesTokenLength is the shortest series token that earns a bonus.
	MinSeriesTokenLength = 4
)

// Match is one reused URL assigned to a group.
type Match struct {
	Key   identity.SeriesKey
	URL   string
	Score int
}

// Candidate is a scored group/URL pairing considered during reconciliation.
type Candidate struct {
	Key   identity.SeriesKey
	URL   string
	Score int
}

// Reconciler matches unresolved groups to previously stored URLs.
type Reconciler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// New constructs a Reconciler.
func New(c *catalog.Catalog, logger *slog.Logger) *Reconciler {
	return &Reconciler{catalog: c, logger: logging.NewComponentLogger(logger, "reconcile")}
}

// Score computes the match score between an identity and a stored URL whose
// instructor tokens were derived from its slug. Each instructor token pair
// where one side (of at least MinInstructorTokenLength characters) is a
// substring of the other adds InstructorPairWeight; each series token of at
// least MinSeriesTokenLength characters found in the cleaned URL adds
// SeriesTokenWeight.
func Score(id identity.Identity, urlInstructor []string, rawURL string) int {
	score := 0
	for _, name := range id.Instructor {
		name = strings.ToLower(name)
		for _, urlName := range urlInstructor {
			urlName = strings.ToLower(urlName)
			switch {
			case len(name) >= MinInstructorTokenLength && strings.Contains(urlName, name):
				score += InstructorPairWeight
			case len(urlName) >= MinInstructorTokenLength && strings.Contains(name, urlName):
				score += InstructorPairWeight
			}
		}
	}
	cleaned := catalog.CleanURL(rawURL)
	for _, word := range id.Series {
		word = strings.ToLower(word)
		if len(word) >= MinSeriesTokenLength && strings.Contains(cleaned, word) {
			score += SeriesTokenWeight
		}
	}
	return score
}

// Candidates scores every group against every stored URL and returns the
// pairs with a positive score, highest first. Groups without instructor
// tokens and URLs without derivable instructor tokens are never paired. Equal
// scores keep group-then-URL encounter order.
func (r *Reconciler) Candidates(groups []*series.Group, urls []string) []Candidate {
	type storedURL struct {
		raw        string
		instructor []string
	}
	stored := make([]storedURL, 0, len(urls))
	for _, u := range urls {
		tokens := r.catalog.InstructorTokens(u)
		if len(tokens) == 0 {
			r.logger.Debug("stored url has no instructor", logging.String("url", u))
			continue
		}
		stored = append(stored, storedURL{raw: u, instructor: tokens})
	}

	var candidates []Candidate
	for _, group := range groups {
		if !group.Identity.Resolvable() {
			continue
		}
		for _, s := range stored {
			score := Score(group.Identity, s.instructor, s.raw)
			if score > 0 {
				candidates = append(candidates, Candidate{Key: group.Key, URL: s.raw, Score: score})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// Assign greedily pairs groups with stored URLs in descending score order.
// Each URL is reused by at most one group and each group receives at most one
// URL. Matches are returned in assignment order.
func (r *Reconciler) Assign(groups []*series.Group, urls []string) []Match {
	candidates := r.Candidates(groups, urls)
	assignedKeys := make(map[identity.SeriesKey]struct{})
	usedURLs := make(map[string]struct{})

	var matches []Match
	for _, c := range candidates {
		if _, done := assignedKeys[c.Key]; done {
			continue
		}
		if _, used := usedURLs[c.URL]; used {
			continue
		}
		assignedKeys[c.Key] = struct{}{}
		usedURLs[c.URL] = struct{}{}
		matches = append(matches, Match(c))
		r.logger.Info("series matched stored result",
			logging.String(logging.FieldSeriesKey, string(c.Key)),
			logging.String("url", c.URL),
			logging.Int("score", c.Score),
		)
	}
	return matches
}

// ByKey indexes matches by group key.
func ByKey(matches []Match) map[identity.SeriesKey]Match {
	out := make(map[identity.SeriesKey]Match, len(matches))
	for _, m := range matches {
		out[m.Key] = m
	}
	return out
}
