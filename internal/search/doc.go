// Package search resolves a parsed identity to a validated catalog product
// URL by walking a fixed priority list of backends.
//
// Each Backend reports a tri-state Result so "not configured" stays distinct
// from "no hits". Within a backend the Cascade runs query strategies from the
// most specific to the least specific. Faults and validation rejections move
// on to the next strategy and then the next backend; neither ever reaches the
// caller. Every step is captured as an Attempt so callers can journal the
// trail.
package search
