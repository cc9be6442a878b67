package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

func TestSendEmptyBodyNeverReachesSender(t *testing.T) {
	called := false
	session := NewSession("alice", "Alice", func(_ context.Context, _ models.Message) (*models.Message, error) {
		called = true
		return nil, nil
	})

	session.SetDraft("   \t  ")
	_, err := session.Send(context.Background(), "bob", "Bob", ThreadContext{})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if called {
		t.Fatalf("expected no remote write for empty body")
	}
	if len(session.Pending()) != 0 {
		t.Fatalf("expected outbox untouched, got %d entries", len(session.Pending()))
	}
	if session.Draft() != "   \t  " {
		t.Fatalf("expected draft untouched, got %q", session.Draft())
	}
}

func TestSendRequiresAuthentication(t *testing.T) {
	session := NewSession("", "", func(_ context.Context, _ models.Message) (*models.Message, error) {
		t.Fatal("sender must not be called")
		return nil, nil
	})

	session.SetDraft("Ahoj")
	if _, err := session.Send(context.Background(), "bob", "Bob", ThreadContext{}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSendSuccessResolvesOptimisticEntry(t *testing.T) {
	var session *Session
	var seenPending []models.Message
	var sent models.Message

	session = NewSession("alice", "Alice", func(_ context.Context, message models.Message) (*models.Message, error) {
		// While the write is in flight the optimistic entry is visible.
		seenPending = session.Pending()
		sent = message
		stored := message
		stored.ID = "persisted-1"
		return &stored, nil
	})

	session.SetDraft("  Dobrý den, mám dotaz.  ")
	stored, err := session.Send(context.Background(), "bob", "Bob", ThreadContext{
		TrainerID:   "trainer-1",
		TrainerName: "Petr",
		Subject:     "Dotaz",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(seenPending) != 1 {
		t.Fatalf("expected 1 in-flight entry, got %d", len(seenPending))
	}
	if !strings.HasPrefix(seenPending[0].ID, "temp-") {
		t.Fatalf("expected transient temp- id, got %q", seenPending[0].ID)
	}
	if seenPending[0].Status != models.MessageSending {
		t.Fatalf("expected in-flight status sending, got %q", seenPending[0].Status)
	}

	if sent.Status != models.MessageSent {
		t.Fatalf("expected remote write with status sent, got %q", sent.Status)
	}
	if sent.Body != "Dobrý den, mám dotaz." {
		t.Fatalf("expected trimmed body, got %q", sent.Body)
	}
	if sent.TrainerID != "trainer-1" || sent.Subject != "Dotaz" {
		t.Fatalf("thread context lost: %+v", sent)
	}

	if stored.ID != "persisted-1" {
		t.Fatalf("expected stored copy back, got %+v", stored)
	}
	if len(session.Pending()) != 0 {
		t.Fatalf("expected outbox drained after success, got %d", len(session.Pending()))
	}
	if session.Draft() != "" {
		t.Fatalf("expected draft cleared, got %q", session.Draft())
	}
}

func TestSendFailureKeepsArtifactAndRestoresDraft(t *testing.T) {
	session := NewSession("alice", "Alice", func(_ context.Context, _ models.Message) (*models.Message, error) {
		return nil, errors.New("store unavailable")
	})

	session.SetDraft("Ahoj Bobe")
	_, err := session.Send(context.Background(), "bob", "Bob", ThreadContext{})
	if err == nil {
		t.Fatal("expected error")
	}

	pending := session.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected failed entry to remain, got %d", len(pending))
	}
	if pending[0].Status != models.MessageSending {
		t.Fatalf("expected status still sending, got %q", pending[0].Status)
	}
	if session.Draft() != "Ahoj Bobe" {
		t.Fatalf("expected draft restored, got %q", session.Draft())
	}

	// No automatic retry happened: a second explicit send may succeed.
	attempts := 0
	session = NewSession("alice", "Alice", func(_ context.Context, message models.Message) (*models.Message, error) {
		attempts++
		stored := message
		stored.ID = "persisted-2"
		return &stored, nil
	})
	session.SetDraft("Ahoj Bobe")
	if _, err := session.Send(context.Background(), "bob", "Bob", ThreadContext{}); err != nil {
		t.Fatalf("retry send: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected exactly one attempt, got %d", attempts)
	}
}

func TestOverlayAppendsPendingAfterLog(t *testing.T) {
	session := NewSession("alice", "Alice", func(_ context.Context, _ models.Message) (*models.Message, error) {
		return nil, errors.New("down")
	})
	session.SetDraft("v letu")
	_, _ = session.Send(context.Background(), "bob", "Bob", ThreadContext{})

	log := []models.Message{
		{ID: "m1", FromUserID: "bob", ToUserID: "alice", Body: "starší"},
	}
	merged := session.Overlay(log)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged messages, got %d", len(merged))
	}
	if merged[0].ID != "m1" || !strings.HasPrefix(merged[1].ID, "temp-") {
		t.Fatalf("expected log first then pending, got %q, %q", merged[0].ID, merged[1].ID)
	}
}
