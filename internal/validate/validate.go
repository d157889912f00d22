package validate

import (
	"strings"

	"pagefinder/internal/catalog"
	"pagefinder/internal/identity"
)

// MinTokenLength is the shortest instructor token that may match a URL.
const MinTokenLength = 3

// Decision is the outcome of checking one candidate URL.
type Decision struct {
	Accepted bool
	// Match is the instructor fragment found in the URL when accepted.
	Match  string
	Reason string
}

// Check decides whether rawURL plausibly belongs to id. The URL is cleaned
// (query and fragment removed, lowercased); it is accepted when any instructor
// token of at least MinTokenLength characters is a substring, or when the
// first two such tokens joined by a hyphen appear in either order.
func Check(id identity.Identity, rawURL string) Decision {
	if !id.Resolvable() {
		return Decision{Reason: "identity has no instructor tokens"}
	}
	cleaned := catalog.CleanURL(rawURL)
	if cleaned == "" {
		return Decision{Reason: "empty url"}
	}

	var long []string
	for _, token := range id.Instructor {
		token = strings.ToLower(token)
		if len(token) < MinTokenLength {
			continue
		}
		if strings.Contains(cleaned, token) {
			return Decision{Accepted: true, Match: token, Reason: "instructor token in url"}
		}
		long = append(long, token)
	}

	if len(long) >= 2 {
		for _, combo := range []string{long[0] + "-" + long[1], long[1] + "-" + long[0]} {
			if strings.Contains(cleaned, combo) {
				return Decision{Accepted: true, Match: combo, Reason: "instructor name pair in url"}
			}
		}
	}
	return Decision{Reason: "no instructor token in url"}
}

// Accept is shorthand for Check(id, rawURL).Accepted.
func Accept(id identity.Identity, rawURL string) bool {
	return Check(id, rawURL).Accepted
}
