package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "lion_estate/internal/adapters/redis"
)

type item struct {
	Slug  string  `json:"slug"`
	Price float64 `json:"price"`
}

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var got item
	ok, err := c.Get(ctx, "property:slug:villa:en", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := item{Slug: "villa", Price: 1500000}
	if err := c.Set(ctx, "property:slug:villa:en", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("property:slug:villa:en"); ttl != 60*time.Second {
		t.Fatalf("ttl: %v", ttl)
	}

	ok, err = c.Get(ctx, "property:slug:villa:en", &got)
	if err != nil || !ok || got != in {
		t.Fatalf("expected hit %+v, got %+v ok=%v err=%v", in, got, ok, err)
	}

	_ = c.Set(ctx, "properties:en:true", []item{in}, time.Minute)
	if err := c.Del(ctx, "property:slug:villa:en", "properties:en:true", "absent"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("property:slug:villa:en") || mr.Exists("properties:en:true") {
		t.Fatalf("keys should be gone")
	}
	if err := c.Del(ctx); err != nil {
		t.Fatalf("empty del: %v", err)
	}
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	_ = c.Set(ctx, "k", item{Slug: "a"}, 5*time.Second)
	mr.FastForward(6 * time.Second)

	var got item
	if ok, _ := c.Get(ctx, "k", &got); ok {
		t.Fatalf("expected expired key to miss")
	}
}

func TestCache_CorruptValueIsMiss(t *testing.T) {
	c, mr := newCache(t)
	_ = mr.Set("k", "{not json")

	var got item
	ok, err := c.Get(context.Background(), "k", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if mr.Exists("k") {
		t.Fatalf("corrupt key should be dropped")
	}
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var got item
	if _, err := c.Get(context.Background(), "k", &got); err == nil {
		t.Fatalf("expected error with redis down")
	}
}

func TestCache_SubSecondTTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	if err := c.Set(ctx, "k", item{Slug: "a"}, 500*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("k"); ttl <= 0 || ttl > 500*time.Millisecond {
		t.Fatalf("TTL = %v, want (0, 500ms]", ttl)
	}
	mr.FastForward(600 * time.Millisecond)

	var got item
	if ok, _ := c.Get(ctx, "k", &got); ok {
		t.Fatalf("expected sub-second entry to expire")
	}
}
