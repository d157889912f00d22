package identity

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Tunable heuristics for filenames without a "by" marker.
const (
	// LongNameThreshold is the content-token count at which the series
	// indicator check applies.
	LongNameThreshold = 4
	// TrailingInstructorTokens is taken from the end when a series indicator
	// appears early in the name.
	TrailingInstructorTokens = 2
	// LeadingInstructorTokens is taken from the front of long names without an
	// early series indicator.
	LeadingInstructorTokens = 3
	// ShortInstructorTokens is taken from the front of short names.
	ShortInstructorTokens = 2
)

const byToken = "by"

var stopWords = map[string]struct{}{
	"the": {}, "of": {}, "and": {}, "or": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "with": {}, "from": {},
}

// seriesIndicators are words that usually belong to a series title.
var seriesIndicators = map[string]struct{}{
	"guard": {}, "control": {}, "submission": {}, "sweep": {}, "escape": {},
	"pass": {}, "position": {}, "mount": {}, "choke": {}, "lock": {},
	"system": {}, "fundamentals": {}, "basics": {}, "blocks": {}, "building": {},
}

// Pass is one named normalization step applied to the raw filename before
// tokenization.
type Pass struct {
	Name  string
	Apply func(string) string
}

var (
	extensionPattern      = regexp.MustCompile(`\.[A-Za-z0-9]{1,5}$`)
	trailingDigitsPattern = regexp.MustCompile(`\d+$`)
	separatorPattern      = regexp.MustCompile(`[_\-]`)
	byBeforeCapPattern    = regexp.MustCompile(`(by)([A-Z])`)
	byAfterLowerPattern   = regexp.MustCompile(`([a-z])(by)([A-Z])`)
	connectorPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`([a-z])(of)([A-Z])`),
		regexp.MustCompile(`([a-z])(to)([A-Z])`),
		regexp.MustCompile(`([a-z])(the)([A-Z])`),
	}
	tokenPattern = regexp.MustCompile(`[A-Z][a-z]*|[a-z]+`)
)

// Passes returns the ordered normalization passes. The order is significant:
// the extension must go before trailing digits, and separators must become
// spaces before word-boundary repair.
func Passes() []Pass {
	return []Pass{
		{Name: "strip_extension", Apply: stripExtension},
		{Name: "strip_trailing_digits", Apply: stripTrailingDigits},
		{Name: "separators_to_spaces", Apply: separatorsToSpaces},
		{Name: "repair_by", Apply: repairBy},
		{Name: "repair_connectors", Apply: repairConnectors},
	}
}

func stripExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || !extensionPattern.MatchString(ext) {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

func stripTrailingDigits(name string) string {
	return trailingDigitsPattern.ReplaceAllString(strings.TrimSpace(name), "")
}

func separatorsToSpaces(name string) string {
	return separatorPattern.ReplaceAllString(name, " ")
}

// repairBy splits a glued "by" away from a following capitalized word:
// "JustStandUpbyCraigJones" becomes "JustStandUp by CraigJones".
func repairBy(name string) string {
	name = byBeforeCapPattern.ReplaceAllString(name, " $1 $2")
	return byAfterLowerPattern.ReplaceAllString(name, "$1 $2 $3")
}

// repairConnectors splits lowercase connectors glued between words:
// "BuildingBlocksofGuard" becomes "BuildingBlocks of Guard".
func repairConnectors(name string) string {
	for _, pattern := range connectorPatterns {
		name = pattern.ReplaceAllString(name, "$1 $2 $3")
	}
	return name
}

// Normalize applies every pass in order.
func Normalize(filename string) string {
	name := filename
	for _, pass := range Passes() {
		name = pass.Apply(name)
	}
	return name
}

// Tokenize splits normalized text on capital-letter boundaries and lowercase
// runs, returning lowercase tokens. Digits and punctuation are dropped.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, match := range matches {
		tokens = append(tokens, strings.ToLower(match))
	}
	return tokens
}

// Parse derives an Identity from a filename (base name or full path).
func Parse(filename string) Identity {
	tokens := Tokenize(Normalize(filepath.Base(filename)))
	instructor, series := split(tokens)
	return Identity{
		Instructor: instructor,
		Series:     series,
		AllTokens:  tokens,
	}
}

func split(tokens []string) (instructor, series []string) {
	if idx := slices.Index(tokens, byToken); idx >= 0 {
		return withoutStopWords(tokens[idx+1:]), withoutStopWords(tokens[:idx])
	}

	content := withoutStopWords(tokens)
	switch {
	case len(content) >= LongNameThreshold:
		if hasSeriesIndicator(content[:len(content)/2]) {
			cut := len(content) - TrailingInstructorTokens
			return clone(content[cut:]), clone(content[:cut])
		}
		return clone(content[:LeadingInstructorTokens]), clone(content[LeadingInstructorTokens:])
	case len(content) >= ShortInstructorTokens:
		return clone(content[:ShortInstructorTokens]), clone(content[ShortInstructorTokens:])
	default:
		return clone(content), nil
	}
}

// withoutStopWords drops stop words and any stray "by" token.
func withoutStopWords(tokens []string) []string {
	var out []string
	for _, token := range tokens {
		if token == byToken {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		out = append(out, token)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func hasSeriesIndicator(tokens []string) bool {
	for _, token := range tokens {
		if _, ok := seriesIndicators[token]; ok {
			return true
		}
	}
	return false
}

func clone(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	return append([]string(nil), tokens...)
}

// IsStopWord reports whether token is ignored when building instructor and
// series token lists.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}
