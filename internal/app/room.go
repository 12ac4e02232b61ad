package app

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"timeclash/internal/domain"
)

// Room is the in-process roster hub for one room: who joined, in join order,
// plus the subscriber channels fed on every membership change. Stores hand
// out *Room so the broadcast logic lives in one place regardless of backend.
type Room struct {
	id   string
	code string

	mu          sync.RWMutex
	roster      []domain.Participant
	subscribers map[chan []domain.Participant]struct{}
}

// NewRoom is exported for infrastructure layers that need to seed rooms.
func NewRoom(id, code string) *Room {
	return &Room{
		id:          id,
		code:        code,
		subscribers: make(map[chan []domain.Participant]struct{}),
	}
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRoomCode generates a short shareable room code, e.g. "GVJW56".
func NewRoomCode(rnd *rand.Rand) string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(codeAlphabet[rnd.Intn(len(codeAlphabet))])
	}
	return b.String()
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) Code() string {
	return r.code
}

// Info is the directory-level DTO for the room.
func (r *Room) Info() domain.Room {
	return domain.Room{ID: r.id, Code: r.code}
}

// Join appends a participant and notifies roster subscribers.
func (r *Room) Join(displayName string) (domain.Participant, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return domain.Participant{}, domain.ErrDisplayNameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := domain.Participant{ID: uuid.NewString(), DisplayName: name}
	r.roster = append(r.roster, p)
	r.broadcastLocked()
	return p, nil
}

// Leave removes a participant and notifies roster subscribers. Unknown IDs
// are ignored.
func (r *Room) Leave(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.roster {
		if p.ID == participantID {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			r.broadcastLocked()
			return
		}
	}
}

// Roster returns the current membership snapshot in join order.
func (r *Room) Roster() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// IsEmpty reports whether the room has no participants.
func (r *Room) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roster) == 0
}

// Subscribe registers a roster feed. The current roster is delivered
// immediately, then again on every membership change. The returned cancel is
// idempotent and stops future delivery.
func (r *Room) Subscribe() (<-chan []domain.Participant, func()) {
	ch := make(chan []domain.Participant, 8)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	initial := r.snapshotLocked()
	r.mu.Unlock()

	ch <- initial

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Room) broadcastLocked() {
	snap := r.snapshotLocked()
	for ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot so a slow consumer never blocks joins
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (r *Room) snapshotLocked() []domain.Participant {
	snap := make([]domain.Participant, len(r.roster))
	copy(snap, r.roster)
	return snap
}
