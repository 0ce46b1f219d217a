package app

import (
	"os"

	"github.com/linh30121998/proteus/internal/store"
)

// Wire bundles the stores used by the CLI.
type Wire struct {
	Identity *store.IdentityStore
	Sessions *store.SessionStore
}

// NewWire constructs the dependency graph from cfg, creating the home
// directory if needed.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	return &Wire{
		Identity: store.NewIdentityStore(cfg.Home),
		Sessions: store.NewSessionStore(cfg.Home),
	}, nil
}
