// Package extraction runs a CD audio extraction job.
//
// A Coordinator owns two goroutines. The read worker pulls each requested
// track through the consensus reader, assembles the validated sectors into
// one PCM buffer, and publishes it on a handoff.Queue. The encode worker
// drains the queue in request order, converts samples, measures peak and
// loudness, streams the audio into an encoder, verifies the frame count,
// and only then writes tags. Either worker failing cancels the other; the
// first failure becomes the job's classification.
//
// Callers poll Snapshot for progress and receive a Result from Wait.
package extraction
