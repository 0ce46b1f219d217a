// Package store provides passphrase-protected file persistence for the
// local identity and for encoded ratchet sessions.
//
// All secret material is sealed in a scrypt + ChaCha20-Poly1305 envelope
// before touching disk, and files are replaced atomically via a temp file
// and rename. Methods are concurrency-safe via internal locking. Stored
// files live under the user's configured home directory.
//
// The package includes stores for:
//   - The identity keypair (IdentityStore)
//   - Encoded sessions, one file per session name (SessionStore)
//
// The session store treats the codec's output as opaque bytes; decoding
// (and the identity check that goes with it) happens in the session
// package, above this layer.
package store
