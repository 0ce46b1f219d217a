// Package keys defines the key material a ratchet session is built from and
// its fixed-layout wire codec.
//
// Contents
//
//   - Symmetric keys (CipherKey, MacKey) and X25519 key-exchange material
//     (PublicKey, SecretKey, KeyPair, NewKeyPair)
//   - Long-term identity keys (IdentityKey, IdentityKeyPair) with short
//     fingerprints for display/logging
//   - Small scalar primitives: Counter, PrekeyID, SessionTag
//   - Write*/Read* pairs giving every primitive a byte-exact, fixed-length
//     encoding
//
// # Notes
//
// All key types are fixed-size arrays so they copy by value and never alias
// a caller's buffer. The Read functions fail atomically on a short stream;
// they never return a partially filled value.
package keys
