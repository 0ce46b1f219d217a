// Package session models the persisted state of a Double-Ratchet
// conversation and implements its versioned binary codec.
//
// A Session aggregates both parties' identity keys, an optional pending
// prekey, and an ordered collection of ratchet states (StateMap). Each
// State holds the receive chains, the single send chain, the root key and
// any message keys retained for out-of-order delivery.
//
// The codec is a strictly ordered, fail-fast transform: Encode walks the
// aggregate top-down and DecodeSession mirrors it field for field. Any
// truncation, unknown discriminant or identity mismatch aborts the whole
// decode; no partial Session is ever returned. Length prefixes read from
// the stream are treated as untrusted and validated against the remaining
// input before anything is allocated.
//
// Concurrency: a Session is NOT safe for concurrent use. Callers must
// serialise access per conversation, including encode/decode calls.
package session
