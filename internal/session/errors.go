package session

import (
	"errors"
	"fmt"

	"github.com/linh30121998/proteus/internal/keys"
)

// ErrMalformed matches any *MalformedError under errors.Is.
var ErrMalformed = errors.New("malformed session data")

// EncodeError reports that the byte sink rejected a write while encoding.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "encode session: " + e.Err.Error() }

func (e *EncodeError) Unwrap() error { return e.Err }

// MalformedError reports a structurally invalid stream: exhausted input, an
// unrecognised discriminant, or a primitive that failed its own check.
type MalformedError struct {
	Reason string
	Err    error // underlying read failure, may be nil
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode session: %s: %v", e.Reason, e.Err)
	}
	return "decode session: " + e.Reason
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// IdentityChangedError reports that the local identity embedded in the
// stream is not the identity the caller supplied. Decoding stops before
// any ratchet material is associated with the wrong identity.
type IdentityChangedError struct {
	Embedded keys.IdentityKey // the mismatching key found in the stream
}

func (e *IdentityChangedError) Error() string {
	return "decode session: local identity changed (embedded key " + e.Embedded.Fingerprint() + ")"
}
