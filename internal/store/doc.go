// Package store persists accepted product URLs in a plain text file beside the
// videos, one URL per line.
//
// Append is the durability boundary: it opens the file in append mode,
// writes one line, and fsyncs before returning, so a run interrupted between
// groups keeps every earlier result. Older files using "N→URL" lines are read
// transparently and can be rewritten with Overwrite. A gofrs/flock lock next
// to the file keeps two pagefinder processes from writing it at once.
package store
