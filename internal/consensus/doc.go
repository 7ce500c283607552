// Package consensus reconstructs one trustworthy copy of every sector in a
// track from repeated reads of an unreliable drive.
//
// A sector is accepted once two reads return byte-identical data. Sectors
// that never reach agreement within the configured number of passes are
// rebuilt sample by sample from the most frequent value among the distinct
// reads that were observed.
package consensus
