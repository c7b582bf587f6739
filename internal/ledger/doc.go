// Package ledger records which (path, content-hash) pairs have already
// been backed up.
//
// The working copy is an in-memory table; Record never touches disk.
// Save writes the whole table to a temp file and renames it over the
// store, so an interrupted save leaves the previous on-disk ledger
// intact. Load failure is non-fatal by contract: the caller proceeds
// with an empty ledger and risks at most a redundant re-copy.
package ledger
