// Package textutil provides filename sanitization for paths built from disc
// metadata.
package textutil
