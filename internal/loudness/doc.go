// Package loudness computes ReplayGain track and album gain values from a
// stream of PCM samples.
//
// Samples pass through an equal-loudness Yule-Walker filter followed by a
// Butterworth high-pass. The filtered energy of every 50 ms window is binned
// in hundredths of a decibel, and the gain is derived from the level that the
// loudest five percent of windows exceed.
package loudness
