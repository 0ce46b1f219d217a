package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/curve25519"
)

// CipherKey is a 32-byte symmetric encryption key.
type CipherKey [32]byte

// MacKey is a 32-byte symmetric authentication key.
type MacKey [32]byte

// PublicKey is a Curve25519 public key.
type PublicKey [32]byte

// SecretKey is a Curve25519 private key.
type SecretKey [32]byte

// KeyPair bundles both halves of an X25519 key-exchange key.
type KeyPair struct {
	Secret SecretKey
	Public PublicKey
}

// NewKeyPair returns a fresh Curve25519 key pair.
// The secret key is clamped per RFC 7748.
func NewKeyPair() (KeyPair, error) {
	var kp KeyPair
	if _, err := rand.Read(kp.Secret[:]); err != nil {
		return KeyPair{}, err
	}
	clamp(&kp.Secret)
	pub, err := curve25519.X25519(kp.Secret[:], curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, err
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// IdentityKey is the long-term public key identifying a party.
type IdentityKey struct {
	Public PublicKey
}

// Fingerprint returns a short hex fingerprint of the identity key.
func (k IdentityKey) Fingerprint() string { return Fingerprint(k.Public[:]) }

// IdentityKeyPair is the local party's full identity: the secret half stays
// with the caller and is never written to the wire.
type IdentityKeyPair struct {
	Secret SecretKey
	Public IdentityKey
}

// NewIdentityKeyPair generates a fresh identity.
func NewIdentityKeyPair() (*IdentityKeyPair, error) {
	kp, err := NewKeyPair()
	if err != nil {
		return nil, err
	}
	return &IdentityKeyPair{
		Secret: kp.Secret,
		Public: IdentityKey{Public: kp.Public},
	}, nil
}

// PrekeyID identifies a one-time prekey offered during the handshake.
type PrekeyID uint16

// Counter is a monotonically increasing ratchet step counter.
type Counter uint32

// SessionTag is an opaque identifier distinguishing concurrent session
// states that belong to the same logical conversation.
type SessionTag [16]byte

// NewSessionTag returns a fresh random tag.
func NewSessionTag() (SessionTag, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return SessionTag{}, err
	}
	return SessionTag(id), nil
}

// String returns the tag as lowercase hex.
func (t SessionTag) String() string { return hex.EncodeToString(t[:]) }

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}

func clamp(k *SecretKey) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
