// Package library records extraction jobs and the files they produce in a
// SQLite catalog.
//
// The catalog backs the "extract to library" option: every job started with
// it gets a row with its outcome, and every file the job writes is recorded
// with its tracks, frame count, peak, and ReplayGain values so the CLI can
// list them later without re-reading the audio.
package library
