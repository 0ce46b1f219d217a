package session

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/linh30121998/proteus/internal/keys"
)

// Pending-prekey wire discriminants. Anything else is invalid.
const (
	pendingPrekeyAbsent  uint32 = 1
	pendingPrekeyPresent uint32 = 2
)

// Fixed encoded sizes, used to validate untrusted counts against the
// remaining stream before allocating anything.
const (
	chainKeySize    = keys.MacKeySize + keys.CounterSize
	recvChainSize   = chainKeySize + keys.PublicKeySize
	sendChainSize   = chainKeySize + keys.KeyPairSize
	messageKeysSize = keys.CipherKeySize + keys.MacKeySize + keys.CounterSize
	minStateSize    = keys.SessionTagSize + 4 + sendChainSize +
		keys.CipherKeySize + keys.CounterSize + 4
)

// Encode serialises the session to a fresh byte slice.
func (s *Session) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the session to w. A write failure surfaces as an
// *EncodeError wrapping the sink's error; the sink is then in whatever
// state its own contract leaves it in.
func (s *Session) EncodeTo(w io.Writer) error {
	if err := encodeSession(w, s); err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

// DecodeSession reconstructs a Session from data.
//
// local must be the identity keypair the session was encoded under; a
// mismatching embedded identity aborts with *IdentityChangedError carrying
// the embedded key. Any structural failure aborts with *MalformedError.
// No partial Session is ever returned.
func DecodeSession(local *keys.IdentityKeyPair, data []byte) (*Session, error) {
	r := bytes.NewReader(data)

	version, err := readUint32(r, "version")
	if err != nil {
		return nil, err
	}
	if version != uint32(V1) {
		return nil, &MalformedError{Reason: fmt.Sprintf("unknown session version %d", version)}
	}

	tag, err := keys.ReadSessionTag(r)
	if err != nil {
		return nil, malformed("session tag", err)
	}

	embedded, err := keys.ReadIdentityKey(r)
	if err != nil {
		return nil, malformed("local identity key", err)
	}
	if embedded != local.Public {
		return nil, &IdentityChangedError{Embedded: embedded}
	}

	remote, err := keys.ReadIdentityKey(r)
	if err != nil {
		return nil, malformed("remote identity key", err)
	}

	ppTag, err := readUint32(r, "pending prekey tag")
	if err != nil {
		return nil, err
	}
	var pending *PendingPrekey
	switch ppTag {
	case pendingPrekeyAbsent:
	case pendingPrekeyPresent:
		id, err := keys.ReadPrekeyID(r)
		if err != nil {
			return nil, malformed("pending prekey id", err)
		}
		pub, err := keys.ReadPublicKey(r)
		if err != nil {
			return nil, malformed("pending prekey key", err)
		}
		pending = &PendingPrekey{ID: id, Key: pub}
	default:
		return nil, &MalformedError{Reason: fmt.Sprintf("invalid pending prekey tag %d", ppTag)}
	}

	n, err := readCount(r, "session state count", minStateSize)
	if err != nil {
		return nil, err
	}
	states := NewStateMap()
	for i := uint32(0); i < n; i++ {
		st, err := decodeState(r)
		if err != nil {
			return nil, err
		}
		// Put assigns dense insertion indexes 0..n-1 in stream order.
		states.Put(st.Tag, st)
	}

	return &Session{
		Version:        V1,
		Tag:            tag,
		LocalIdentity:  local,
		RemoteIdentity: remote,
		PendingPrekey:  pending,
		States:         states,
	}, nil
}

// Session /////////////////////////////////////////////////////////////////

func encodeSession(w io.Writer, s *Session) error {
	if err := writeUint32(w, uint32(s.Version)); err != nil {
		return err
	}
	if err := keys.WriteSessionTag(w, s.Tag); err != nil {
		return err
	}
	if err := keys.WriteIdentityKey(w, s.LocalIdentity.Public); err != nil {
		return err
	}
	if err := keys.WriteIdentityKey(w, s.RemoteIdentity); err != nil {
		return err
	}
	if s.PendingPrekey == nil {
		if err := writeUint32(w, pendingPrekeyAbsent); err != nil {
			return err
		}
	} else {
		if err := writeUint32(w, pendingPrekeyPresent); err != nil {
			return err
		}
		if err := keys.WritePrekeyID(w, s.PendingPrekey.ID); err != nil {
			return err
		}
		if err := keys.WritePublicKey(w, s.PendingPrekey.Key); err != nil {
			return err
		}
	}
	if err := writeUint32(w, uint32(s.States.Len())); err != nil {
		return err
	}
	for _, tag := range s.States.Tags() {
		st, _ := s.States.Get(tag)
		if err := encodeState(w, st); err != nil {
			return err
		}
	}
	return nil
}

// Session state ///////////////////////////////////////////////////////////

func encodeState(w io.Writer, st *State) error {
	if err := keys.WriteSessionTag(w, st.Tag); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(st.RecvChains))); err != nil {
		return err
	}
	for _, c := range st.RecvChains {
		if err := encodeRecvChain(w, c); err != nil {
			return err
		}
	}
	if err := encodeSendChain(w, st.SendChain); err != nil {
		return err
	}
	if err := keys.WriteCipherKey(w, st.RootKey.Key); err != nil {
		return err
	}
	if err := keys.WriteCounter(w, st.PrevCounter); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(st.Skipped))); err != nil {
		return err
	}
	for _, mk := range st.Skipped {
		if err := encodeMessageKeys(w, mk); err != nil {
			return err
		}
	}
	return nil
}

func decodeState(r *bytes.Reader) (*State, error) {
	tag, err := keys.ReadSessionTag(r)
	if err != nil {
		return nil, malformed("state tag", err)
	}

	nr, err := readCount(r, "receive chain count", recvChainSize)
	if err != nil {
		return nil, err
	}
	var recv []RecvChain
	for i := uint32(0); i < nr; i++ {
		c, err := decodeRecvChain(r)
		if err != nil {
			return nil, err
		}
		recv = append(recv, c)
	}

	send, err := decodeSendChain(r)
	if err != nil {
		return nil, err
	}
	rootKey, err := keys.ReadCipherKey(r)
	if err != nil {
		return nil, malformed("root key", err)
	}
	prev, err := keys.ReadCounter(r)
	if err != nil {
		return nil, malformed("previous counter", err)
	}

	ns, err := readCount(r, "skipped message key count", messageKeysSize)
	if err != nil {
		return nil, err
	}
	var skipped []MessageKeys
	for i := uint32(0); i < ns; i++ {
		mk, err := decodeMessageKeys(r)
		if err != nil {
			return nil, err
		}
		skipped = append(skipped, mk)
	}

	return &State{
		Tag:         tag,
		RecvChains:  recv,
		SendChain:   send,
		RootKey:     RootKey{Key: rootKey},
		PrevCounter: prev,
		Skipped:     skipped,
	}, nil
}

// Chains //////////////////////////////////////////////////////////////////

func encodeChainKey(w io.Writer, k ChainKey) error {
	if err := keys.WriteMacKey(w, k.Key); err != nil {
		return err
	}
	return keys.WriteCounter(w, k.Index)
}

func decodeChainKey(r *bytes.Reader) (ChainKey, error) {
	k, err := keys.ReadMacKey(r)
	if err != nil {
		return ChainKey{}, malformed("chain key", err)
	}
	idx, err := keys.ReadCounter(r)
	if err != nil {
		return ChainKey{}, malformed("chain counter", err)
	}
	return ChainKey{Key: k, Index: idx}, nil
}

func encodeSendChain(w io.Writer, c SendChain) error {
	if err := encodeChainKey(w, c.ChainKey); err != nil {
		return err
	}
	return keys.WriteKeyPair(w, c.RatchetKey)
}

func decodeSendChain(r *bytes.Reader) (SendChain, error) {
	ck, err := decodeChainKey(r)
	if err != nil {
		return SendChain{}, err
	}
	kp, err := keys.ReadKeyPair(r)
	if err != nil {
		return SendChain{}, malformed("send chain ratchet key", err)
	}
	return SendChain{ChainKey: ck, RatchetKey: kp}, nil
}

func encodeRecvChain(w io.Writer, c RecvChain) error {
	if err := encodeChainKey(w, c.ChainKey); err != nil {
		return err
	}
	return keys.WritePublicKey(w, c.RatchetKey)
}

func decodeRecvChain(r *bytes.Reader) (RecvChain, error) {
	ck, err := decodeChainKey(r)
	if err != nil {
		return RecvChain{}, err
	}
	pub, err := keys.ReadPublicKey(r)
	if err != nil {
		return RecvChain{}, malformed("receive chain ratchet key", err)
	}
	return RecvChain{ChainKey: ck, RatchetKey: pub}, nil
}

// Message keys ////////////////////////////////////////////////////////////

func encodeMessageKeys(w io.Writer, mk MessageKeys) error {
	if err := keys.WriteCipherKey(w, mk.CipherKey); err != nil {
		return err
	}
	if err := keys.WriteMacKey(w, mk.MacKey); err != nil {
		return err
	}
	return keys.WriteCounter(w, mk.Counter)
}

func decodeMessageKeys(r *bytes.Reader) (MessageKeys, error) {
	ck, err := keys.ReadCipherKey(r)
	if err != nil {
		return MessageKeys{}, malformed("message cipher key", err)
	}
	mk, err := keys.ReadMacKey(r)
	if err != nil {
		return MessageKeys{}, malformed("message mac key", err)
	}
	ctr, err := keys.ReadCounter(r)
	if err != nil {
		return MessageKeys{}, malformed("message counter", err)
	}
	return MessageKeys{CipherKey: ck, MacKey: mk, Counter: ctr}, nil
}

// Helpers /////////////////////////////////////////////////////////////////

func malformed(reason string, err error) error {
	return &MalformedError{Reason: reason, Err: err}
}

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32(r *bytes.Reader, what string) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, malformed(what, err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// readCount reads a length prefix and rejects it when the claimed number of
// fixed-size elements cannot fit in the remaining stream. This bounds
// allocation on corrupted or adversarial input.
func readCount(r *bytes.Reader, what string, elemSize int) (uint32, error) {
	n, err := readUint32(r, what)
	if err != nil {
		return 0, err
	}
	if int64(n)*int64(elemSize) > int64(r.Len()) {
		return 0, &MalformedError{
			Reason: fmt.Sprintf("%s %d exceeds %d remaining bytes", what, n, r.Len()),
		}
	}
	return n, nil
}
