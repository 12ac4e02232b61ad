package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"timeclash/internal/app"
	"timeclash/internal/domain"
)

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - It keeps a local in-memory map of rooms to reuse the in-process roster
//     broadcast logic.
//   - Redis holds the code -> room id mapping with a liveness TTL (and could
//     be extended to share rosters or route cross-instance pub/sub).
//   - For true distribution you'd pair this with a pub/sub projector that
//     fans roster changes out across instances.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.RWMutex
	rooms map[string]*app.Room
	rnd   *rand.Rand
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.Room),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RoomStore) Create(ctx context.Context) (*app.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := app.NewRoomCode(s.rnd)
	for {
		if _, taken := s.rooms[code]; !taken {
			break
		}
		code = app.NewRoomCode(s.rnd)
	}

	room := app.NewRoom(uuid.NewString(), code)
	s.rooms[code] = room
	if err := s.client.Set(ctx, s.key(code), room.ID(), s.ttl).Err(); err != nil {
		delete(s.rooms, code)
		return nil, err
	}
	return room, nil
}

func (s *RoomStore) GetByCode(ctx context.Context, code string) (*app.Room, error) {
	s.mu.RLock()
	room, ok := s.rooms[code]
	s.mu.RUnlock()
	if ok {
		return room, nil
	}

	// A key on another instance means the room exists but is not local;
	// without cross-instance routing that still reads as not found here.
	if err := s.client.Get(ctx, s.key(code)).Err(); err == redis.Nil {
		return nil, domain.ErrRoomNotFound
	} else if err != nil {
		return nil, err
	}
	return nil, domain.ErrRoomNotFound
}

func (s *RoomStore) DeleteIfEmpty(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return
	}
	if room.IsEmpty() {
		delete(s.rooms, code)
		_ = s.client.Del(context.Background(), s.key(code)).Err()
	}
}

func (s *RoomStore) key(code string) string {
	return "room:code:" + code
}
