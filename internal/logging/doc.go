// Package logging builds the slog loggers used across cddarip.
//
// Console output is a single readable line per record with the job and track
// pulled into a prefix. The log file always receives JSON lines so the logs
// command can filter by job. Context helpers attach job, track and worker
// fields to the loggers the extraction workers hand out.
package logging
