package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "courses:"), mr
}

type cachedCourse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	want := cachedCourse{ID: 1, Title: "Go Basics"}
	if err := helper.Set(ctx, "detail:1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "detail:1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestCacheHelper_Miss(t *testing.T) {
	helper, _ := newTestHelper(t)

	var got cachedCourse
	if err := helper.Get(context.Background(), "detail:404", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_Expiry(t *testing.T) {
	ctx := context.Background()
	helper, mr := newTestHelper(t)

	if err := helper.Set(ctx, "detail:1", cachedCourse{ID: 1}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got cachedCourse
	if err := helper.Get(ctx, "detail:1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound after TTL, got %v", err)
	}
}

func TestCacheHelper_DeletePattern(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	for _, key := range []string{"detail:1", "detail:2", "list:all"} {
		if err := helper.Set(ctx, key, cachedCourse{}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.DeletePattern(ctx, "detail:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "detail:1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Error("detail:1 should be gone")
	}
	if err := helper.Get(ctx, "list:all", &got); err != nil {
		t.Errorf("list:all should survive, got %v", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "courses:")

	if err := helper.Set(ctx, "detail:1", cachedCourse{}, time.Minute); err != nil {
		t.Errorf("Set with nil client must be a no-op, got %v", err)
	}
	var got cachedCourse
	if err := helper.Get(ctx, "detail:1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
	if err := helper.Delete(ctx, "detail:1"); err != nil {
		t.Errorf("Delete with nil client must be a no-op, got %v", err)
	}
	if err := helper.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
}
