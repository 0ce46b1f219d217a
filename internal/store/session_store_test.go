package store_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/linh30121998/proteus/internal/store"
)

func TestSessionStore_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	pass := "pass"
	s := store.NewSessionStore(home)

	encoded := []byte{1, 2, 3, 4, 5}
	if err := s.Save(pass, "alice", encoded); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, err := s.Load(pass, "alice")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !bytes.Equal(got, encoded) {
		t.Fatalf("mismatch after load: got %v, want %v", got, encoded)
	}
}

func TestSessionStore_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	s := store.NewSessionStore(home)

	if err := s.Save("correct", "alice", []byte{1}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if _, err := s.Load("wrong", "alice"); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
}

func TestSessionStore_List(t *testing.T) {
	home := t.TempDir()
	s := store.NewSessionStore(home)

	names, err := s.List()
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no sessions, got %v", names)
	}

	if err := s.Save("p", "bob", []byte{1}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := s.Save("p", "alice", []byte{2}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	names, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Fatalf("list: got %v, want [alice bob]", names)
	}
}

func TestSessionStore_RejectsBadNames(t *testing.T) {
	home := t.TempDir()
	s := store.NewSessionStore(home)

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Save("p", name, []byte{1}); err == nil {
			t.Fatalf("name %q was accepted", name)
		}
	}
}
