//go:build integration

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewRedisStore(startRedis(t))

	if err := s.Set(ctx, "avatar", "s3-key.jpg", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get(ctx, "avatar")
	if err != nil || got != "s3-key.jpg" {
		t.Fatalf("Expected stored value, got %q (err %v)", got, err)
	}

	if err := s.Delete(ctx, "avatar"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "avatar"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
}

func TestRedisStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewRedisStore(startRedis(t)))

	id, err := m.Create(ctx, "jane", time.Minute)
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
}
