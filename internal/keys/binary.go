package keys

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encoded sizes. Every primitive has a fixed layout; higher-level codecs
// rely on these to validate untrusted length prefixes.
const (
	CipherKeySize  = 32
	MacKeySize     = 32
	PublicKeySize  = 32
	SecretKeySize  = 32
	KeyPairSize    = SecretKeySize + PublicKeySize
	CounterSize    = 4
	PrekeyIDSize   = 2
	SessionTagSize = 16
)

// WriteCipherKey writes k to w.
func WriteCipherKey(w io.Writer, k CipherKey) error {
	_, err := w.Write(k[:])
	return err
}

// ReadCipherKey reads a cipher key from r.
func ReadCipherKey(r io.Reader) (CipherKey, error) {
	var k CipherKey
	if err := readFull(r, k[:], "cipher key"); err != nil {
		return CipherKey{}, err
	}
	return k, nil
}

// WriteMacKey writes k to w.
func WriteMacKey(w io.Writer, k MacKey) error {
	_, err := w.Write(k[:])
	return err
}

// ReadMacKey reads a MAC key from r.
func ReadMacKey(r io.Reader) (MacKey, error) {
	var k MacKey
	if err := readFull(r, k[:], "mac key"); err != nil {
		return MacKey{}, err
	}
	return k, nil
}

// WritePublicKey writes k to w.
func WritePublicKey(w io.Writer, k PublicKey) error {
	_, err := w.Write(k[:])
	return err
}

// ReadPublicKey reads a public key from r.
func ReadPublicKey(r io.Reader) (PublicKey, error) {
	var k PublicKey
	if err := readFull(r, k[:], "public key"); err != nil {
		return PublicKey{}, err
	}
	return k, nil
}

// WriteKeyPair writes the secret half followed by the public half.
func WriteKeyPair(w io.Writer, kp KeyPair) error {
	if _, err := w.Write(kp.Secret[:]); err != nil {
		return err
	}
	_, err := w.Write(kp.Public[:])
	return err
}

// ReadKeyPair reads a secret half then a public half from r.
func ReadKeyPair(r io.Reader) (KeyPair, error) {
	var kp KeyPair
	if err := readFull(r, kp.Secret[:], "secret key"); err != nil {
		return KeyPair{}, err
	}
	if err := readFull(r, kp.Public[:], "public key"); err != nil {
		return KeyPair{}, err
	}
	return kp, nil
}

// WriteIdentityKey writes the public key of k to w.
func WriteIdentityKey(w io.Writer, k IdentityKey) error {
	return WritePublicKey(w, k.Public)
}

// ReadIdentityKey reads an identity public key from r.
func ReadIdentityKey(r io.Reader) (IdentityKey, error) {
	pub, err := ReadPublicKey(r)
	if err != nil {
		return IdentityKey{}, err
	}
	return IdentityKey{Public: pub}, nil
}

// WriteCounter writes c as a big-endian uint32.
func WriteCounter(w io.Writer, c Counter) error {
	var b [CounterSize]byte
	binary.BigEndian.PutUint32(b[:], uint32(c))
	_, err := w.Write(b[:])
	return err
}

// ReadCounter reads a big-endian uint32 counter from r.
func ReadCounter(r io.Reader) (Counter, error) {
	var b [CounterSize]byte
	if err := readFull(r, b[:], "counter"); err != nil {
		return 0, err
	}
	return Counter(binary.BigEndian.Uint32(b[:])), nil
}

// WritePrekeyID writes id as a big-endian uint16.
func WritePrekeyID(w io.Writer, id PrekeyID) error {
	var b [PrekeyIDSize]byte
	binary.BigEndian.PutUint16(b[:], uint16(id))
	_, err := w.Write(b[:])
	return err
}

// ReadPrekeyID reads a big-endian uint16 prekey id from r.
func ReadPrekeyID(r io.Reader) (PrekeyID, error) {
	var b [PrekeyIDSize]byte
	if err := readFull(r, b[:], "prekey id"); err != nil {
		return 0, err
	}
	return PrekeyID(binary.BigEndian.Uint16(b[:])), nil
}

// WriteSessionTag writes t to w.
func WriteSessionTag(w io.Writer, t SessionTag) error {
	_, err := w.Write(t[:])
	return err
}

// ReadSessionTag reads a session tag from r.
func ReadSessionTag(r io.Reader) (SessionTag, error) {
	var t SessionTag
	if err := readFull(r, t[:], "session tag"); err != nil {
		return SessionTag{}, err
	}
	return t, nil
}

// readFull fills b or fails. A clean EOF on a partial primitive is still a
// truncation from the caller's point of view, so it is normalised to
// io.ErrUnexpectedEOF.
func readFull(r io.Reader, b []byte, what string) error {
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}
