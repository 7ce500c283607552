// Package logs reads the cddarip log file for the logs command.
//
// Last returns the final lines of the file with bounded memory, ReadFrom
// resumes at a byte offset, and Follow polls for appended lines until its
// context ends. A file that shrinks below the saved offset is treated as
// rotated and read again from the start.
package logs
