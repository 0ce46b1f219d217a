package session_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/linh30121998/proteus/internal/keys"
	"github.com/linh30121998/proteus/internal/session"
)

// Fixed offsets into an encoded session, used to corrupt specific fields:
// version (4) + tag (16) + local identity (32) + remote identity (32).
const (
	versionOff    = 0
	pendingTagOff = 4 + 16 + 32 + 32
	stateCountOff = pendingTagOff + 4 // pending prekey absent
)

func makeIdentity(t *testing.T) *keys.IdentityKeyPair {
	t.Helper()
	id, err := keys.NewIdentityKeyPair()
	if err != nil {
		t.Fatalf("NewIdentityKeyPair: %v", err)
	}
	return id
}

func makeTag(t *testing.T) keys.SessionTag {
	t.Helper()
	tag, err := keys.NewSessionTag()
	if err != nil {
		t.Fatalf("NewSessionTag: %v", err)
	}
	return tag
}

// makeState builds a state with deterministic contents derived from seed.
func makeState(t *testing.T, seed byte, recvChains, skipped int) *session.State {
	t.Helper()
	st := &session.State{
		Tag: makeTag(t),
		SendChain: session.SendChain{
			ChainKey: session.ChainKey{Key: keys.MacKey{seed, 1}, Index: keys.Counter(seed)},
			RatchetKey: keys.KeyPair{
				Secret: keys.SecretKey{seed, 2},
				Public: keys.PublicKey{seed, 3},
			},
		},
		RootKey:     session.RootKey{Key: keys.CipherKey{seed, 4}},
		PrevCounter: keys.Counter(seed) + 100,
	}
	for i := 0; i < recvChains; i++ {
		st.RecvChains = append(st.RecvChains, session.RecvChain{
			ChainKey:   session.ChainKey{Key: keys.MacKey{seed, 5, byte(i)}, Index: keys.Counter(i)},
			RatchetKey: keys.PublicKey{seed, 6, byte(i)},
		})
	}
	for i := 0; i < skipped; i++ {
		st.Skipped = append(st.Skipped, session.MessageKeys{
			CipherKey: keys.CipherKey{seed, 7, byte(i)},
			MacKey:    keys.MacKey{seed, 8, byte(i)},
			Counter:   keys.Counter(i + 10),
		})
	}
	return st
}

func makeSession(t *testing.T, local *keys.IdentityKeyPair, pending *session.PendingPrekey, states ...*session.State) *session.Session {
	t.Helper()
	remote := makeIdentity(t)
	s := session.New(local, remote.Public, makeTag(t))
	s.PendingPrekey = pending
	for _, st := range states {
		s.States.Put(st.Tag, st)
	}
	return s
}

func equalState(t *testing.T, want, got *session.State) {
	t.Helper()
	if got.Tag != want.Tag {
		t.Fatalf("state tag mismatch: got %s, want %s", got.Tag, want.Tag)
	}
	if len(got.RecvChains) != len(want.RecvChains) {
		t.Fatalf("recv chains: got %d, want %d", len(got.RecvChains), len(want.RecvChains))
	}
	for i := range want.RecvChains {
		if got.RecvChains[i] != want.RecvChains[i] {
			t.Fatalf("recv chain %d mismatch", i)
		}
	}
	if got.SendChain != want.SendChain {
		t.Fatalf("send chain mismatch")
	}
	if got.RootKey != want.RootKey {
		t.Fatalf("root key mismatch")
	}
	if got.PrevCounter != want.PrevCounter {
		t.Fatalf("prev counter: got %d, want %d", got.PrevCounter, want.PrevCounter)
	}
	if len(got.Skipped) != len(want.Skipped) {
		t.Fatalf("skipped keys: got %d, want %d", len(got.Skipped), len(want.Skipped))
	}
	for i := range want.Skipped {
		if got.Skipped[i] != want.Skipped[i] {
			t.Fatalf("skipped key %d mismatch", i)
		}
	}
}

func TestSessionRoundTrip(t *testing.T) {
	local := makeIdentity(t)
	pending := &session.PendingPrekey{ID: 7, Key: keys.PublicKey{9}}
	s1 := makeState(t, 0x11, 3, 2)
	s2 := makeState(t, 0x22, 0, 0)
	s := makeSession(t, local, pending, s1, s2)

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := session.DecodeSession(local, enc)
	if err != nil {
		t.Fatalf("DecodeSession: %v", err)
	}

	if got.Version != session.V1 {
		t.Fatalf("version: got %d, want %d", got.Version, session.V1)
	}
	if got.Tag != s.Tag {
		t.Fatalf("tag mismatch")
	}
	if got.RemoteIdentity != s.RemoteIdentity {
		t.Fatalf("remote identity mismatch")
	}
	if got.PendingPrekey == nil || *got.PendingPrekey != *pending {
		t.Fatalf("pending prekey: got %+v, want %+v", got.PendingPrekey, pending)
	}
	if got.States.Len() != 2 {
		t.Fatalf("state count: got %d, want 2", got.States.Len())
	}

	// States come back in stream order with dense indexes from zero.
	tags := got.States.Tags()
	if tags[0] != s1.Tag || tags[1] != s2.Tag {
		t.Fatalf("state order not preserved")
	}
	for i, want := range []*session.State{s1, s2} {
		st, ok := got.States.Get(want.Tag)
		if !ok {
			t.Fatalf("state %d missing", i)
		}
		equalState(t, want, st)
		idx, _ := got.States.Index(want.Tag)
		if idx != uint32(i) {
			t.Fatalf("state %d index: got %d, want %d", i, idx, i)
		}
	}
}

func TestEmptySequencesRoundTrip(t *testing.T) {
	local := makeIdentity(t)
	st := makeState(t, 0x33, 0, 0)
	s := makeSession(t, local, nil, st)

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := session.DecodeSession(local, enc)
	if err != nil {
		t.Fatalf("DecodeSession: %v", err)
	}
	decoded, ok := got.States.Get(st.Tag)
	if !ok {
		t.Fatal("state missing")
	}
	if len(decoded.RecvChains) != 0 || len(decoded.Skipped) != 0 {
		t.Fatalf("expected empty sequences, got %d recv chains and %d skipped keys",
			len(decoded.RecvChains), len(decoded.Skipped))
	}
}

func TestVersionRejected(t *testing.T) {
	local := makeIdentity(t)
	s := makeSession(t, local, nil, makeState(t, 0x44, 1, 1))

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	binary.BigEndian.PutUint32(enc[versionOff:], 2)

	_, err = session.DecodeSession(local, enc)
	if err == nil {
		t.Fatal("expected decode failure for version 2")
	}
	if !errors.Is(err, session.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown session version 2") {
		t.Fatalf("error does not name the offending version: %v", err)
	}
}

func TestIdentityChanged(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	s := makeSession(t, alice, nil, makeState(t, 0x55, 1, 0))

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = session.DecodeSession(bob, enc)
	if err == nil {
		t.Fatal("expected identity-changed failure")
	}
	var identityErr *session.IdentityChangedError
	if !errors.As(err, &identityErr) {
		t.Fatalf("expected *IdentityChangedError, got %v", err)
	}
	if identityErr.Embedded != alice.Public {
		t.Fatalf("embedded key is not the encoding identity")
	}
}

func TestPendingPrekeyAbsentRoundTrip(t *testing.T) {
	local := makeIdentity(t)
	s := makeSession(t, local, nil, makeState(t, 0x66, 0, 0))

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := session.DecodeSession(local, enc)
	if err != nil {
		t.Fatalf("DecodeSession: %v", err)
	}
	if got.PendingPrekey != nil {
		t.Fatalf("expected absent pending prekey, got %+v", got.PendingPrekey)
	}
}

func TestPendingPrekeyInvalidTag(t *testing.T) {
	local := makeIdentity(t)
	s := makeSession(t, local, nil, makeState(t, 0x77, 0, 0))

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	binary.BigEndian.PutUint32(enc[pendingTagOff:], 3)

	_, err = session.DecodeSession(local, enc)
	if !errors.Is(err, session.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for pending prekey tag 3, got %v", err)
	}
}

func TestTruncationAlwaysFails(t *testing.T) {
	local := makeIdentity(t)
	pending := &session.PendingPrekey{ID: 7, Key: keys.PublicKey{1}}
	s := makeSession(t, local, pending, makeState(t, 0x88, 2, 1))

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < len(enc); i++ {
		if _, err := session.DecodeSession(local, enc[:i]); err == nil {
			t.Fatalf("decode of %d-byte prefix (of %d) unexpectedly succeeded", i, len(enc))
		}
	}
}

func TestOversizedCountRejected(t *testing.T) {
	local := makeIdentity(t)
	s := makeSession(t, local, nil, makeState(t, 0x99, 1, 1))

	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Claim ~4 billion session states; the stream cannot back that up, so
	// decode must fail before allocating anything of that size.
	binary.BigEndian.PutUint32(enc[stateCountOff:], 0xFFFFFFFF)

	_, err = session.DecodeSession(local, enc)
	if !errors.Is(err, session.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for oversized count, got %v", err)
	}
}

func TestReencodeIsIdempotent(t *testing.T) {
	local := makeIdentity(t)
	pending := &session.PendingPrekey{ID: 7, Key: keys.PublicKey{2}}
	s := makeSession(t, local, pending, makeState(t, 0xAA, 2, 2), makeState(t, 0xBB, 1, 0))

	enc1, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec1, err := session.DecodeSession(local, enc1)
	if err != nil {
		t.Fatalf("first DecodeSession: %v", err)
	}
	enc2, err := dec1.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(enc1, enc2) {
		t.Fatal("re-encoding a decoded session changed the bytes")
	}
	dec2, err := session.DecodeSession(local, enc2)
	if err != nil {
		t.Fatalf("second DecodeSession: %v", err)
	}
	if dec2.Tag != dec1.Tag || dec2.RemoteIdentity != dec1.RemoteIdentity {
		t.Fatal("second decode differs from first")
	}
	for _, tag := range dec1.States.Tags() {
		st1, _ := dec1.States.Get(tag)
		st2, ok := dec2.States.Get(tag)
		if !ok {
			t.Fatalf("state %s missing after re-decode", tag)
		}
		equalState(t, st1, st2)
	}
}

// failWriter rejects every write after the first n bytes.
type failWriter struct {
	n   int
	err error
}

func (w *failWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, w.err
	}
	w.n -= len(p)
	return len(p), nil
}

func TestEncodeSinkFailure(t *testing.T) {
	local := makeIdentity(t)
	s := makeSession(t, local, nil, makeState(t, 0xCC, 1, 0))

	sinkErr := errors.New("disk full")
	err := s.EncodeTo(&failWriter{n: 10, err: sinkErr})
	if err == nil {
		t.Fatal("expected encode failure")
	}
	var encodeErr *session.EncodeError
	if !errors.As(err, &encodeErr) {
		t.Fatalf("expected *EncodeError, got %v", err)
	}
	if !errors.Is(err, sinkErr) {
		t.Fatalf("encode error does not carry the sink's error: %v", err)
	}
}
