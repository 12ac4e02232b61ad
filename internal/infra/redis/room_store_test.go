package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"timeclash/internal/domain"
)

func TestRoomStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRoomStore(client, time.Minute)
	ctx := context.Background()

	room, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !mr.Exists("room:code:" + room.Code()) {
		t.Fatalf("expected redis key to be set")
	}

	found, err := store.GetByCode(ctx, room.Code())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found.Code() != room.Code() {
		t.Fatalf("expected same room back")
	}

	store.DeleteIfEmpty(room.Code())
	if mr.Exists("room:code:" + room.Code()) {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestRoomStoreUnknownCode(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRoomStore(client, time.Minute)

	if _, err := store.GetByCode(context.Background(), "NOPE42"); err != domain.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}
