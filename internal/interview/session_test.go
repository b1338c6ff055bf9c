package interview

import (
	"testing"

	"hireflow-backend/internal/jobs"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	if _, ok := store.Get("conn-1"); ok {
		t.Fatal("expected empty store")
	}

	sess := &Session{ApplicationID: "app-1", Questions: []jobs.Question{{ID: "q-1"}}}
	store.Put("conn-1", sess)

	got, ok := store.Get("conn-1")
	if !ok || got.ApplicationID != "app-1" {
		t.Fatalf("unexpected session: %+v ok=%v", got, ok)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	// a reconnect replaces the previous session for the same connection
	store.Put("conn-1", &Session{ApplicationID: "app-2"})
	got, _ = store.Get("conn-1")
	if got.ApplicationID != "app-2" {
		t.Fatalf("expected replacement session, got %s", got.ApplicationID)
	}

	store.Delete("conn-1")
	if _, ok := store.Get("conn-1"); ok {
		t.Fatal("expected session to be deleted")
	}
	store.Delete("conn-1")
}

func TestSessionCursor(t *testing.T) {
	sess := &Session{
		Questions: []jobs.Question{{ID: "q-1"}, {ID: "q-2"}},
	}

	if sess.Done() {
		t.Fatal("fresh session should not be done")
	}
	if sess.Current().ID != "q-1" {
		t.Fatalf("expected q-1 first, got %s", sess.Current().ID)
	}

	sess.Cursor++
	if sess.Current().ID != "q-2" {
		t.Fatalf("expected q-2 second, got %s", sess.Current().ID)
	}

	sess.Cursor++
	if !sess.Done() {
		t.Fatal("expected session to be done after last question")
	}
}
