package redis

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "gstin:36AABCM1234A1Z5", []byte(`{"legal_name":"Maruti"}`), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, err := cache.Get(ctx, "gstin:36AABCM1234A1Z5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"legal_name":"Maruti"}` {
		t.Errorf("unexpected value %q", data)
	}
}

func TestCache_MissingKey(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)

	data, err := cache.Get(context.Background(), "gstin:unknown")
	if err != nil {
		t.Fatalf("expected nil error on miss, got %v", err)
	}
	if data != nil {
		t.Errorf("expected nil data on miss, got %q", data)
	}
}

func TestCache_Expiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "gstin:36AABCM1234A1Z5", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	data, err := cache.Get(ctx, "gstin:36AABCM1234A1Z5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data != nil {
		t.Errorf("expected expired key, got %q", data)
	}
}

func TestCache_Delete(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "gstin:36AABCM1234A1Z5", []byte("x"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Delete(ctx, "gstin:36AABCM1234A1Z5"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	data, err := cache.Get(ctx, "gstin:36AABCM1234A1Z5")
	if err != nil || data != nil {
		t.Errorf("expected deleted key, got %q err %v", data, err)
	}
}
