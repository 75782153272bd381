package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "avatar", "file:///tmp/me.jpg", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get(ctx, "avatar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "file:///tmp/me.jpg" {
		t.Errorf("Expected stored value, got %q", got)
	}

	if ok, _ := s.Exists(ctx, "avatar"); !ok {
		t.Error("Expected key to exist")
	}

	if err := s.Delete(ctx, "avatar"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "avatar"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := &memoryStore{entries: make(map[string]memoryEntry), now: clock.now}

	_ = s.Set(ctx, "k", "v", time.Minute)

	clock.t = clock.t.Add(59 * time.Second)
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Errorf("Expected key to be live before ttl, got %v", err)
	}

	clock.t = clock.t.Add(time.Second)
	if ok, _ := s.Exists(ctx, "k"); ok {
		t.Error("Expected key to expire at ttl")
	}
}

func TestManager_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	id, err := m.Create(ctx, "jane", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	sess, err := m.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess.UserID != "jane" {
		t.Errorf("Expected user jane, got %s", sess.UserID)
	}

	if err := m.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Expired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	// Store without ttl so the manager's own expiry check is exercised
	store := &memoryStore{entries: make(map[string]memoryEntry), now: func() time.Time { return time.Time{} }}
	m := &manager{store: store, now: clock.now}

	id, err := m.Create(ctx, "jane", time.Minute)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, err := m.Get(ctx, id); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Expected ErrSessionExpired, got %v", err)
	}
}

func TestManager_RejectsNonPositiveMaxAge(t *testing.T) {
	m := NewManager(NewMemoryStore())
	if _, err := m.Create(context.Background(), "jane", 0); err == nil {
		t.Error("Expected error for zero max age")
	}
}
