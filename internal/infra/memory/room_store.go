package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeclash/internal/app"
	"timeclash/internal/domain"
)

// RoomStore is an in-memory implementation of app.RoomRepository.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*app.Room
	rnd   *rand.Rand
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*app.Room),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RoomStore) Create(_ context.Context) (*app.Room, error) {
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
	return room, nil
}

func (s *RoomStore) GetByCode(_ context.Context, code string) (*app.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
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
	}
}
