package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore(t *testing.T) {
	testStoreBehavior(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	testStoreBehavior(t, NewRedisStore(client))
}

func testStoreBehavior(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.RestoreLastUser(ctx)
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("empty store RestoreLastUser error = %v, want ErrNoSession", err)
	}

	if err := store.SaveLastUser(ctx, 42); err != nil {
		t.Fatalf("SaveLastUser failed: %v", err)
	}

	got, err := store.RestoreLastUser(ctx)
	if err != nil {
		t.Fatalf("RestoreLastUser failed: %v", err)
	}
	if got != 42 {
		t.Errorf("restored user %d, want 42", got)
	}

	// Saving again overwrites.
	if err := store.SaveLastUser(ctx, 7); err != nil {
		t.Fatalf("second SaveLastUser failed: %v", err)
	}
	if got, _ = store.RestoreLastUser(ctx); got != 7 {
		t.Errorf("restored user %d after overwrite, want 7", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	_, err = store.RestoreLastUser(ctx)
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("cleared store RestoreLastUser error = %v, want ErrNoSession", err)
	}
}
