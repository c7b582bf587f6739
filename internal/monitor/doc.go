// Package monitor implements the stability-detection and deduplicated
// copy engine.
//
// The Monitor polls the watched directory on a fixed interval. A
// Tracker holds per-file size history across cycles; a file whose size
// has stayed unchanged long enough becomes eligible, is hashed, checked
// against the ledger, and copied at most once to the destination
// directory. Files are identified purely by path; rename detection is
// out of scope.
package monitor
