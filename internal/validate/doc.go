// Package validate decides whether a candidate product URL plausibly belongs
// to a parsed identity. Token order is ignored; tokens shorter than three
// characters never match.
package validate
