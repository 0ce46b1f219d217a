package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/linh30121998/proteus/internal/keys"
)

const identityFile = "identity.enc"

// IdentityStore persists the local identity keypair, sealed under a
// passphrase.
type IdentityStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityStore returns an IdentityStore rooted at dir.
func NewIdentityStore(dir string) *IdentityStore {
	return &IdentityStore{dir: dir}
}

// Save seals the identity keypair and writes it to disk.
func (s *IdentityStore) Save(passphrase string, id *keys.IdentityKeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	blob, err := seal(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, identityFile), blob, 0o600)
}

// Load reads and unseals the identity keypair.
func (s *IdentityStore) Load(passphrase string) (*keys.IdentityKeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(filepath.Join(s.dir, identityFile))
	if err != nil {
		return nil, err
	}
	raw, err := open(passphrase, blob)
	if err != nil {
		return nil, err
	}
	var id keys.IdentityKeyPair
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, err
	}
	return &id, nil
}
