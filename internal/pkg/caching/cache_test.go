package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

type payload struct {
	Name  string
	Score int64
}

func TestUseCacheCallsCallbackOnce(t *testing.T) {
	_, client := newTestRedis(t)
	c, err := NewCacheRedis(client, false)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	calls := 0
	load := func() (*payload, error) {
		calls++
		return &payload{Name: "alice", Score: 42}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := UseCache(ctx, c, "user:1", time.Minute, load)
		if err != nil {
			t.Fatalf("UseCache() error = %v", err)
		}
		if got.Name != "alice" || got.Score != 42 {
			t.Fatalf("UseCache() = %+v, want alice/42", got)
		}
	}

	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
}

func TestUseCacheDoesNotStoreErrors(t *testing.T) {
	_, client := newTestRedis(t)
	c, _ := NewCacheRedis(client, false)
	ctx := context.Background()

	boom := errors.New("boom")
	if _, err := UseCache(ctx, c, "k", time.Minute, func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("UseCache() error = %v, want %v", err, boom)
	}

	got, err := UseCache(ctx, c, "k", time.Minute, func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("UseCache() = %d, %v, want 7, nil", got, err)
	}
}

func TestDeleteMissingKeyIsNotAnError(t *testing.T) {
	_, client := newTestRedis(t)
	c, _ := NewCacheRedis(client, false)
	if err := c.Delete(context.Background(), "absent"); err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
}

func TestDeleteKeys(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	for _, key := range []string{"leaderboard:daily:1", "leaderboard:weekly:2", "user:1"} {
		if err := mr.Set(key, "x"); err != nil {
			t.Fatal(err)
		}
	}

	if err := DeleteKeys(ctx, client, "leaderboard:*"); err != nil {
		t.Fatalf("DeleteKeys() error = %v", err)
	}

	if mr.Exists("leaderboard:daily:1") || mr.Exists("leaderboard:weekly:2") {
		t.Error("leaderboard keys still present")
	}
	if !mr.Exists("user:1") {
		t.Error("user:1 was deleted, want kept")
	}
}
