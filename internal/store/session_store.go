package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	sessionsDir = "sessions"
	sessionExt  = ".session"
)

// SessionStore persists encoded ratchet sessions, one sealed file per
// session name. The bytes are opaque here; encoding and decoding live in
// the session package.
type SessionStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionStore returns a SessionStore rooted at dir.
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: filepath.Join(dir, sessionsDir)}
}

// Save seals encoded and writes it under name.
func (s *SessionStore) Save(passphrase, name string, encoded []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	blob, err := seal(passphrase, encoded)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, name+sessionExt), blob, 0o600)
}

// Load reads and unseals the encoded session stored under name.
func (s *SessionStore) Load(passphrase, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(filepath.Join(s.dir, name+sessionExt))
	if err != nil {
		return nil, err
	}
	return open(passphrase, blob)
}

// List returns the stored session names, sorted.
func (s *SessionStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sessionExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), sessionExt))
	}
	sort.Strings(names)
	return names, nil
}

// validName rejects names that would escape the sessions directory.
func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid session name %q", name)
	}
	return nil
}
