// Package fetch downloads the EIA bulk archive and extracts it into the
// local data directory. It is the I/O collaborator in front of the
// loader: idempotent (an existing destination directory short-circuits
// the download) and deliberately ignorant of the record format.
package fetch
