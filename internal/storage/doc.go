// Package storage provides the BBolt database interface for the envelope store.
//
// Database structure uses three buckets:
//   - config: version, timestamps, store ID, password check envelope
//   - index: Entry names, sizes, timestamps (unencrypted, for ls)
//   - envelopes: Envelope text keyed by entry name
//
// Envelopes are stored exactly as envelope.Encrypt produces them, so a
// stored value can be exported and decrypted anywhere with the password.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
