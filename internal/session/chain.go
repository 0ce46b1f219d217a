package session

import "github.com/linh30121998/proteus/internal/keys"

// RootKey seeds the derivation of new chain keys at each ratchet step.
type RootKey struct {
	Key keys.CipherKey
}

// ChainKey is the current position in one ratchet chain: a symmetric key
// plus the step counter that advances with every derived message key.
type ChainKey struct {
	Key   keys.MacKey
	Index keys.Counter
}

// SendChain is the outgoing ratchet state: the chain key together with the
// local key-exchange pair currently used to ratchet outgoing messages.
// A session state holds exactly one.
type SendChain struct {
	ChainKey   ChainKey
	RatchetKey keys.KeyPair
}

// RecvChain is a retained incoming ratchet state: the chain key together
// with the peer's ratchet public key for that chain. Older chains stay
// around because messages sent before the peer's ratchet step may still
// arrive.
type RecvChain struct {
	ChainKey   ChainKey
	RatchetKey keys.PublicKey
}

// MessageKeys is the derived key triple for one specific message index,
// retained when that message arrives out of order. Decryption consumes
// each entry at most once.
type MessageKeys struct {
	CipherKey keys.CipherKey
	MacKey    keys.MacKey
	Counter   keys.Counter
}
