// Package preflight provides readiness checks for the filesystem paths and
// the optical drive that cddarip depends on.
//
// The doctor command runs every check and renders the results. The extract
// command runs CheckDirectoryAccess on the output directory before it opens
// the medium, so a read-only target fails before any sector is read.
package preflight
