package session

import "github.com/linh30121998/proteus/internal/keys"

// Version discriminates the wire format of an encoded session.
type Version uint32

// V1 is the only version currently in existence. Decoding rejects
// everything else.
const V1 Version = 1

// PendingPrekey records a handshake response not yet acknowledged by the
// peer: the prekey id we answered and the ratchet public key we sent.
type PendingPrekey struct {
	ID  keys.PrekeyID
	Key keys.PublicKey
}

// State is one concrete ratchet state of a conversation.
type State struct {
	Tag        keys.SessionTag
	RecvChains []RecvChain
	SendChain  SendChain
	RootKey    RootKey

	// PrevCounter marks where the send chain stood before the last
	// ratchet step; the message layer uses it for replay validation.
	PrevCounter keys.Counter

	Skipped []MessageKeys
}

// Session is the aggregate a caller persists. Multiple States coexist to
// tolerate message races across ratchet steps and session-tag collisions.
//
// LocalIdentity is supplied by the caller and never serialised beyond its
// public half; DecodeSession verifies the embedded public key against it.
type Session struct {
	Version        Version
	Tag            keys.SessionTag
	LocalIdentity  *keys.IdentityKeyPair
	RemoteIdentity keys.IdentityKey
	PendingPrekey  *PendingPrekey // nil once the peer has acknowledged
	States         *StateMap
}

// New returns an empty V1 session between local and remote.
func New(local *keys.IdentityKeyPair, remote keys.IdentityKey, tag keys.SessionTag) *Session {
	return &Session{
		Version:        V1,
		Tag:            tag,
		LocalIdentity:  local,
		RemoteIdentity: remote,
		States:         NewStateMap(),
	}
}
