package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheManager(client), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	if err := cm.User.Set(ctx, UserKey("u1"), cachedUser{ID: "u1", Name: "Ama"}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("user:id:u1") {
		t.Fatal("expected prefixed key user:id:u1 in redis")
	}

	var got cachedUser
	if err := cm.User.Get(ctx, UserKey("u1"), &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Ama" {
		t.Errorf("Get() name = %q, want %q", got.Name, "Ama")
	}

	err := cm.User.Get(ctx, UserKey("missing"), &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() missing error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	cm, _ := newTestManager(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedUser{ID: "u2", Name: "Kofi"}, nil
	}

	for i := 0; i < 3; i++ {
		var got cachedUser
		if err := cm.User.CacheOrExecute(ctx, UserKey("u2"), &got, time.Minute, fetch); err != nil {
			t.Fatalf("CacheOrExecute() error = %v", err)
		}
		if got.Name != "Kofi" {
			t.Errorf("CacheOrExecute() name = %q", got.Name)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	fetchErr := errors.New("boom")
	var got cachedUser
	err := cm.User.CacheOrExecute(ctx, UserKey("u3"), &got, time.Minute, func() (interface{}, error) {
		return nil, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Errorf("CacheOrExecute() error = %v, want %v", err, fetchErr)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	_ = cm.Stats.Set(ctx, "users:total", 4, time.Minute)
	_ = cm.Stats.Set(ctx, "users:active:teacher", 1, time.Minute)
	_ = cm.User.Set(ctx, UserKey("u1"), cachedUser{ID: "u1"}, time.Minute)

	InvalidateStatsCache(ctx, cm)

	if mr.Exists("stats:users:total") || mr.Exists("stats:users:active:teacher") {
		t.Error("stats keys should be invalidated")
	}
	if !mr.Exists("user:id:u1") {
		t.Error("user key should survive stats invalidation")
	}

	InvalidateUserCache(ctx, cm, "u1")
	if mr.Exists("user:id:u1") {
		t.Error("user key should be invalidated")
	}
}

func TestCacheHelper_NoClient(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	if err := cm.User.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set() without client should degrade gracefully, got %v", err)
	}
	var dest string
	if err := cm.User.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() without client error = %v, want ErrCacheNotAvailable", err)
	}
	if err := cm.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() without client error = %v", err)
	}

	var got string
	err := cm.User.CacheOrExecute(ctx, "k", &got, time.Minute, func() (interface{}, error) { return "fresh", nil })
	if err != nil || got != "fresh" {
		t.Errorf("CacheOrExecute() = %q, %v", got, err)
	}
}
