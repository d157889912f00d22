// Package identity derives a normalized instructor/series identity from an
// opaque video filename.
//
// Parsing runs an ordered list of string passes (extension and trailing digit
// removal, separator cleanup, glued "by" and connector repair), tokenizes on
// capital-letter boundaries, then splits the tokens on the first "by". Names
// without a "by" fall back to a length heuristic driven by a small set of
// series indicator words. The heuristic thresholds are exported constants.
//
// Parse is pure. Re-parsing the space-joined AllTokens of an Identity yields
// the same SeriesKey.
package identity
