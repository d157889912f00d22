// Package series buckets discovered video files into groups that share an
// identity key so each series is searched once.
package series
