package state

import (
	"testing"
	"time"

	"dbops-console/internal/directory"
	"dbops-console/internal/session"
)

func newTestStore() *Store {
	return NewStore(Options{
		Authenticator: session.NewSimulatedAuthenticator(0),
		Directory:     staticLister(directory.Fallback()),
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore()
	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get(missing) ok")
	}
	if _, ok := s.Get(""); ok {
		t.Fatal("Get(\"\") ok")
	}

	c := s.Create("tok")
	got, ok := s.Get("tok")
	if !ok || got != c {
		t.Fatal("Get did not return the created console")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestStore_ConsolesAreIndependent(t *testing.T) {
	s := newTestStore()
	a := s.Create("a")
	b := s.Create("b")
	signIn(t, a, "a@b.c")
	if b.Authenticated() {
		t.Fatal("sign-in leaked across consoles")
	}
}

func TestStore_Prune(t *testing.T) {
	s := newTestStore()
	old := s.Create("old")
	s.Create("fresh")

	now := time.Now()
	old.mu.Lock()
	old.lastSeen = now.Add(-2 * time.Hour)
	old.mu.Unlock()

	if n := s.Prune(now, time.Hour); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if _, ok := s.Get("old"); ok {
		t.Fatal("stale console still present")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Fatal("fresh console pruned")
	}
}
