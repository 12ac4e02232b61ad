package engine

import (
	"strings"

	"timeclash/internal/domain"
)

// State is the session lifecycle: Active until one terminal condition fires,
// then Ended with no re-entry.
type State int

const (
	StateActive State = iota
	StateEnded
)

const (
	feedbackCorrect = "Correct!"
	feedbackRetry   = "Incorrect, try again."
	feedbackReveal  = "Incorrect. The correct answer is shown."
)

// AttemptResult describes what a submission or give-up did. Reveal carries
// the definition when the question resolved by exhaustion so the transport
// can show it; the session itself keeps no stale reveal state.
type AttemptResult struct {
	Outcome      Outcome
	AttemptsUsed int
	Class        int
	Feedback     string
	Reveal       string
	Resolved     bool
	Ended        bool
}

// TickResult reports the clock after one tick and whether the round ended.
type TickResult struct {
	Remaining int
	Ended     bool
	Reason    domain.EndReason
}

// Session orchestrates one round: deck traversal, the countdown, turn
// rotation and stats. All mutations are synchronous reactions to one of the
// public operations; callers serialize them (one stimulus at a time).
type Session struct {
	deck     *Deck
	clock    *Countdown
	roster   RosterView
	turns    TurnScheduler
	stats    *Aggregator
	pos      int
	attempts int
	state    State
	reason   domain.EndReason
	deckDone bool
}

// NewSession begins a round over a shuffled deck with the given time budget
// in seconds. The roster starts empty; feed it via RefreshRoster before
// answers can be credited.
func NewSession(deck *Deck, budgetSeconds int) *Session {
	return &Session{
		deck:  deck,
		clock: NewCountdown(budgetSeconds),
		stats: NewAggregator(deck.Catalog()),
	}
}

// RefreshRoster swaps in the latest roster snapshot. The first non-empty
// snapshot also seeds per-participant stats; later snapshots only change who
// the turn pointer can land on.
func (s *Session) RefreshRoster(participants []domain.Participant) {
	if s.state != StateActive {
		return
	}
	s.roster.Refresh(participants)
	s.stats.InitParticipants(s.roster.Current())
}

// SubmitAnswer evaluates text against the current card. A correct answer or
// a third wrong answer resolves the question, records stats for the active
// participant and advances question and turn; a plain wrong answer only
// bumps the attempt counter. Empty text, an exhausted deck, an empty roster
// or an ended session make it an inert no-op.
func (s *Session) SubmitAnswer(text string) AttemptResult {
	if s.state != StateActive || s.pos >= s.deck.Size() ||
		strings.TrimSpace(text) == "" || s.roster.Size() == 0 {
		return AttemptResult{Outcome: OutcomeIgnored}
	}

	card, cardIndex := s.deck.Card(s.pos)
	outcome, used := Evaluate(card, text, s.attempts)

	switch outcome {
	case OutcomeCorrect:
		class := attemptClass(outcome, used)
		s.stats.RecordResolution(cardIndex, class, s.turns.Pointer())
		s.resolveAndAdvance()
		return AttemptResult{
			Outcome:      OutcomeCorrect,
			AttemptsUsed: used,
			Class:        class,
			Feedback:     feedbackCorrect,
			Resolved:     true,
			Ended:        s.Ended(),
		}
	case OutcomeExhausted:
		s.stats.RecordResolution(cardIndex, revealClass, s.turns.Pointer())
		s.resolveAndAdvance()
		return AttemptResult{
			Outcome:      OutcomeExhausted,
			AttemptsUsed: used,
			Class:        revealClass,
			Feedback:     feedbackReveal,
			Reveal:       card.Definition,
			Resolved:     true,
			Ended:        s.Ended(),
		}
	default:
		s.attempts = used
		return AttemptResult{
			Outcome:      OutcomeRetry,
			AttemptsUsed: used,
			Feedback:     feedbackRetry,
		}
	}
}

// GiveUp resolves the current question as class 4 no matter how many
// attempts were already spent, reveals the definition and advances.
func (s *Session) GiveUp() AttemptResult {
	if s.state != StateActive || s.pos >= s.deck.Size() || s.roster.Size() == 0 {
		return AttemptResult{Outcome: OutcomeIgnored}
	}

	card, cardIndex := s.deck.Card(s.pos)
	s.stats.RecordResolution(cardIndex, revealClass, s.turns.Pointer())
	s.resolveAndAdvance()
	return AttemptResult{
		Outcome:  OutcomeExhausted,
		Class:    revealClass,
		Reveal:   card.Definition,
		Resolved: true,
		Ended:    s.Ended(),
	}
}

// Tick advances the countdown by one second. The round ends on the tick that
// exhausts the clock, or immediately reports Ended if the deck already ran
// out; only the first satisfying event performs the transition.
func (s *Session) Tick() TickResult {
	if s.state != StateActive {
		return TickResult{Remaining: s.clock.Remaining(), Ended: true, Reason: s.reason}
	}
	if s.deckDone {
		s.end(domain.EndReasonDeckDone)
		return TickResult{Remaining: s.clock.Remaining(), Ended: true, Reason: s.reason}
	}
	remaining := s.clock.Tick()
	if s.clock.Expired() {
		s.end(domain.EndReasonTimeUp)
		return TickResult{Remaining: remaining, Ended: true, Reason: s.reason}
	}
	return TickResult{Remaining: remaining}
}

// resolveAndAdvance moves to the next question, rotates the turn and resets
// per-question transient state. Reaching the end of the deck ends the round
// rather than wrapping.
func (s *Session) resolveAndAdvance() {
	s.attempts = 0
	s.pos++
	s.turns.Advance(s.roster.Size())
	if s.pos >= s.deck.Size() {
		s.deckDone = true
		s.end(domain.EndReasonDeckDone)
	}
}

// end performs the one-way Active -> Ended transition; later calls keep the
// first reason.
func (s *Session) end(reason domain.EndReason) {
	if s.state != StateActive {
		return
	}
	s.state = StateEnded
	s.reason = reason
}

// Ended reports whether the round reached its terminal state.
func (s *Session) Ended() bool {
	return s.state == StateEnded
}

// Reason is the terminal reason; zero value until Ended.
func (s *Session) Reason() domain.EndReason {
	return s.reason
}

// CurrentCard returns the card under the cursor, or false when the deck is
// exhausted.
func (s *Session) CurrentCard() (domain.Card, bool) {
	if s.pos >= s.deck.Size() {
		return domain.Card{}, false
	}
	card, _ := s.deck.Card(s.pos)
	return card, true
}

// Prompt renders the question text for the current card.
func (s *Session) Prompt() (string, bool) {
	card, ok := s.CurrentCard()
	if !ok {
		return "", false
	}
	return s.deck.Catalog().PromptFor(card), true
}

// Position is the zero-based traversal position of the current question.
func (s *Session) Position() int {
	return s.pos
}

// Attempts is the number of wrong attempts spent on the current question.
func (s *Session) Attempts() int {
	return s.attempts
}

// Remaining is the clock's seconds left.
func (s *Session) Remaining() int {
	return s.clock.Remaining()
}

// ActiveParticipant is whoever currently owns the floor.
func (s *Session) ActiveParticipant() (domain.Participant, bool) {
	return s.turns.Current(s.roster.Current())
}

// Stats exposes the global buckets accumulated so far.
func (s *Session) Stats() domain.GlobalStats {
	return s.stats.Global()
}

// Deck exposes the deck for size/prompt queries.
func (s *Session) Deck() *Deck {
	return s.deck
}
