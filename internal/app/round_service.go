package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeclash/internal/domain"
	"timeclash/internal/engine"
)

// RoomRepository abstracts how rooms are stored (in-memory, Redis, etc).
type RoomRepository interface {
	Create(ctx context.Context) (*Room, error)
	GetByCode(ctx context.Context, code string) (*Room, error)
	DeleteIfEmpty(code string)
}

// CatalogRepository loads card catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// Options tunes round behavior. Zero values fall back to the defaults the
// original game used: 120 seconds on the clock, one tick per real second.
type Options struct {
	BudgetSeconds    int
	TickInterval     time.Duration
	DefaultCatalogID string
}

func (o Options) withDefaults() Options {
	if o.BudgetSeconds <= 0 {
		o.BudgetSeconds = 120
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.DefaultCatalogID == "" {
		o.DefaultCatalogID = "elements"
	}
	return o
}

// RoundService contains the round use cases: the room directory surface and
// the lifecycle of running rounds. Rounds are keyed by room code, solo rounds
// by a generated key.
type RoundService struct {
	rooms    RoomRepository
	catalogs CatalogRepository
	opts     Options

	mu     sync.Mutex
	rounds map[string]*Round
	rnd    *rand.Rand
}

func NewRoundService(rooms RoomRepository, catalogs CatalogRepository, opts Options) *RoundService {
	return &RoundService{
		rooms:    rooms,
		catalogs: catalogs,
		opts:     opts.withDefaults(),
		rounds:   make(map[string]*Round),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateRoom makes an empty room with a fresh shareable code.
func (s *RoundService) CreateRoom(ctx context.Context) (domain.Room, error) {
	room, err := s.rooms.Create(ctx)
	if err != nil {
		return domain.Room{}, err
	}
	return room.Info(), nil
}

// GetRoomByCode looks a room up for guests joining via link.
func (s *RoundService) GetRoomByCode(ctx context.Context, code string) (domain.Room, error) {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return domain.Room{}, err
	}
	return room.Info(), nil
}

// JoinRoom appends a participant to the room's roster.
func (s *RoundService) JoinRoom(ctx context.Context, code, displayName string) (domain.Participant, error) {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return domain.Participant{}, err
	}
	return room.Join(displayName)
}

// Leave removes a participant; an emptied room is dropped from the directory.
func (s *RoundService) Leave(ctx context.Context, code, participantID string) {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return
	}
	room.Leave(participantID)
	if room.IsEmpty() {
		s.rooms.DeleteIfEmpty(code)
	}
}

// SubscribeRoster returns a feed of the room's membership: the current roster
// immediately, then again on every change. The caller must invoke cancel.
func (s *RoundService) SubscribeRoster(ctx context.Context, code string) (<-chan []domain.Participant, func(), error) {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := room.Subscribe()
	return ch, cancel, nil
}

// StartRound begins a round for a room. Starting a room whose round is
// already running is a no-op so any participant can press start.
func (s *RoundService) StartRound(ctx context.Context, code, catalogID string) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, running := s.rounds[code]; running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	session, err := s.newSession(ctx, catalogID)
	if err != nil {
		return err
	}

	// seed the session from the subscription's own initial snapshot so no
	// join can slip between reading the roster and subscribing to it
	rosterFeed, rosterCancel := room.Subscribe()
	session.RefreshRoster(<-rosterFeed)

	round := newRound(session, s.opts.TickInterval)
	round.rosterCancel = rosterCancel

	s.mu.Lock()
	if _, running := s.rounds[code]; running {
		s.mu.Unlock()
		rosterCancel()
		return nil
	}
	s.rounds[code] = round
	s.mu.Unlock()

	go round.run(rosterFeed)
	go s.reap(code, round)
	return nil
}

// StartSolo begins a single-player round with one implicit participant and
// returns the key used to address it.
func (s *RoundService) StartSolo(ctx context.Context, displayName, catalogID string) (string, error) {
	session, err := s.newSession(ctx, catalogID)
	if err != nil {
		return "", err
	}
	session.RefreshRoster([]domain.Participant{{ID: uuid.NewString(), DisplayName: displayName}})

	key := "solo:" + uuid.NewString()
	round := newRound(session, s.opts.TickInterval)

	s.mu.Lock()
	s.rounds[key] = round
	s.mu.Unlock()

	go round.run(nil)
	go s.reap(key, round)
	return key, nil
}

// SubmitAnswer feeds answer text into a running round.
func (s *RoundService) SubmitAnswer(_ context.Context, key, text string) (engine.AttemptResult, error) {
	round, ok := s.round(key)
	if !ok {
		return engine.AttemptResult{}, domain.ErrRoundNotFound
	}
	return round.submit(stimulus{kind: stimSubmit, text: text}), nil
}

// GiveUp resolves the current question as a reveal.
func (s *RoundService) GiveUp(_ context.Context, key string) (engine.AttemptResult, error) {
	round, ok := s.round(key)
	if !ok {
		return engine.AttemptResult{}, domain.ErrRoundNotFound
	}
	return round.submit(stimulus{kind: stimGiveUp}), nil
}

// SubscribeRound returns a feed of round updates, seeded with the current
// state. The caller must invoke the returned cancel function to avoid leaks.
func (s *RoundService) SubscribeRound(_ context.Context, key string) (<-chan RoundUpdate, func(), error) {
	round, ok := s.round(key)
	if !ok {
		return nil, nil, domain.ErrRoundNotFound
	}
	ch, cancel := round.subscribe()
	return ch, cancel, nil
}

func (s *RoundService) round(key string) (*Round, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[key]
	return round, ok
}

// reap drops the round from the index once its loop exits.
func (s *RoundService) reap(key string, round *Round) {
	<-round.done
	s.mu.Lock()
	delete(s.rounds, key)
	s.mu.Unlock()
}

func (s *RoundService) newSession(ctx context.Context, catalogID string) (*engine.Session, error) {
	if catalogID == "" {
		catalogID = s.opts.DefaultCatalogID
	}
	catalog, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	seed := s.rnd.Int63()
	s.mu.Unlock()

	deck, err := engine.NewDeck(catalog, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return engine.NewSession(deck, s.opts.BudgetSeconds), nil
}
