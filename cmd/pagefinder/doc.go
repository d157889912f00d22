// Command pagefinder resolves video filenames to catalog product pages.
//
// Usage:
//
//	pagefinder [flags] <video-or-directory>...
//	pagefinder config init [--path FILE]
//	pagefinder history [--limit N] [--run ID]
//	pagefinder logs [--lines N] [--follow] [--run ID]
//	pagefinder store path <video-or-directory>...
//	pagefinder store compact <video-or-directory>...
//
// Results are appended to product-pages.txt next to the videos. The exit
// status is 0 when at least one video was matched and 1 otherwise, including
// after an interrupt.
package main
