package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedCourse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestHelper(t *testing.T) *CacheHelper {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheHelper(client, "course:")
}

func TestCacheSetGetDelete(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	want := cachedCourse{ID: 1, Name: "Algebra"}
	if err := helper.Set(ctx, "1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	exists, err := helper.Exists(ctx, "1")
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true, nil", exists, err)
	}

	if err := helper.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := helper.Get(ctx, "1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("after delete: error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheGetMiss(t *testing.T) {
	helper := newTestHelper(t)

	var got cachedCourse
	err := helper.Get(context.Background(), "missing", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheOrExecute(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedCourse{ID: 2, Name: "Physics"}, nil
	}

	var got cachedCourse
	if err := helper.CacheOrExecute(ctx, "2", &got, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
	if got.Name != "Physics" {
		t.Errorf("got %+v, want Physics", got)
	}

	// The async set may lag; wait for the key before the cached read.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if exists, _ := helper.Exists(ctx, "2"); exists {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cached value never appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}

	got = cachedCourse{}
	if err := helper.CacheOrExecute(ctx, "2", &got, time.Minute, fetch); err != nil {
		t.Fatalf("second CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times after cache hit, want 1", calls)
	}
	if got.Name != "Physics" {
		t.Errorf("cached read = %+v, want Physics", got)
	}
}

func TestInvalidatePattern(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"1", "2", "list:p1"} {
		if err := helper.Set(ctx, key, cachedCourse{ID: 1}, time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	for _, key := range []string{"1", "2", "list:p1"} {
		var got cachedCourse
		if err := helper.Get(ctx, key, &got); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("key %s survived invalidation: error = %v", key, err)
		}
	}
}

func TestNilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "course:")
	ctx := context.Background()

	if err := helper.Set(ctx, "1", cachedCourse{}, time.Minute); err != nil {
		t.Errorf("Set with nil client = %v, want nil", err)
	}
	if err := helper.Delete(ctx, "1"); err != nil {
		t.Errorf("Delete with nil client = %v, want nil", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get with nil client = %v, want ErrCacheNotAvailable", err)
	}

	// CacheOrExecute must still serve the fetched value.
	err := helper.CacheOrExecute(ctx, "1", &got, time.Minute, func() (interface{}, error) {
		return cachedCourse{ID: 9, Name: "Stats"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute with nil client failed: %v", err)
	}
	if got.ID != 9 {
		t.Errorf("got %+v, want fetched value", got)
	}
}
