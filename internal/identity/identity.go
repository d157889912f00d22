package identity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Identity is the instructor/series decomposition of a video filename.
// All tokens are lowercase.
type Identity struct {
	Instructor []string
	Series     []string
	// AllTokens is every token in filename order, stop words included.
	AllTokens []string
}

// SeriesKey groups files that share an identity.
type SeriesKey string

// Key returns the canonical grouping key: instructor tokens and series tokens
// each joined by a space, separated by "|".
func (id Identity) Key() SeriesKey {
	return SeriesKey(strings.ToLower(strings.Join(id.Instructor, " ")) + "|" + strings.ToLower(strings.Join(id.Series, " ")))
}

// Resolvable reports whether the identity carries instructor tokens. Identities
// without them are never searched or validated.
func (id Identity) Resolvable() bool {
	return len(id.Instructor) > 0
}

// InstructorName returns the instructor tokens title-cased for display.
func (id Identity) InstructorName() string {
	return Title(id.Instructor)
}

// SeriesName returns the series tokens title-cased for display.
func (id Identity) SeriesName() string {
	return Title(id.Series)
}

// String renders "Series by Instructor", or whichever half is present.
func (id Identity) String() string {
	series := id.SeriesName()
	instructor := id.InstructorName()
	switch {
	case series != "" && instructor != "":
		return series + " by " + instructor
	case instructor != "":
		return instructor
	default:
		return series
	}
}

// Title joins tokens with spaces and title-cases each word.
func Title(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(tokens, " "))
}

// Instructor returns the instructor half of a key.
func (k SeriesKey) Instructor() string {
	instructor, _, _ := strings.Cut(string(k), "|")
	return instructor
}

// Series returns the series half of a key.
func (k SeriesKey) Series() string {
	_, series, _ := strings.Cut(string(k), "|")
	return series
}

func (k SeriesKey) String() string {
	return string(k)
}
