// Package eba loads the EIA bulk electricity balancing-authority feed
// into an in-memory, read-only Dataset and derives the catalogs of
// balancing authorities and sub-series present in it.
//
// The feed is line-delimited JSON, one record per line, downloaded and
// extracted by the fetch collaborator (internal/fetch). Loading is a
// one-shot operation; the returned Dataset is never mutated and may be
// queried concurrently.
package eba
