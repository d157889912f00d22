// Package logs reads the pagefinder log file for the `pagefinder logs`
// command.
//
// Last returns the final lines of the file with bounded memory and the offset
// where reading stopped; Follow polls from that offset and emits lines as
// runs append them. A missing log file reads as empty.
package logs
