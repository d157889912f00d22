// Package discovery expands command-line paths into the sorted list of video
// files a run processes.
package discovery
