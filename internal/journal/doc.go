// Package journal records every search attempt in a small SQLite database so
// a run's fallbacks can be reviewed after the fact with `pagefinder history`.
//
// The journal is diagnostic only. The result file stays the source of truth
// for accepted URLs, and a journal failure never stops a run.
package journal
