// Package finder drives a pagefinder run: discover videos, group them by
// series, reuse stored results, search for the rest one group at a time, and
// summarize.
//
// Searches are strictly sequential with a randomized pause between new
// searches. Each accepted URL is appended to the result file before the next
// group starts, so an interrupted run resumes from the file. Cancelling the
// run context lets the in-flight group finish and stops at the next group
// boundary.
package finder
