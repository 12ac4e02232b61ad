package app

import (
	"sync"
	"time"

	"timeclash/internal/domain"
	"timeclash/internal/engine"
)

// UpdateKind names the kinds of updates a round pushes to subscribers.
type UpdateKind string

const (
	UpdateQuestion UpdateKind = "question"
	UpdateAnswer   UpdateKind = "answerResult"
	UpdateClock    UpdateKind = "clock"
	UpdateSummary  UpdateKind = "summary"
)

// RoundUpdate is the wire-friendly view of round state pushed after every
// stimulus that changes something visible.
type RoundUpdate struct {
	Kind      UpdateKind          `json:"kind"`
	Prompt    string              `json:"prompt,omitempty"`
	Position  int                 `json:"position"`
	Total     int                 `json:"total"`
	Attempts  int                 `json:"attempts"`
	Remaining int                 `json:"remaining"`
	Outcome   string              `json:"outcome,omitempty"`
	Feedback  string              `json:"feedback,omitempty"`
	Reveal    string              `json:"reveal,omitempty"`
	Turn      *domain.Participant `json:"turn,omitempty"`
	Stats     domain.GlobalStats  `json:"stats"`
	Summary   *domain.Summary     `json:"summary,omitempty"`
}

type stimulusKind int

const (
	stimSubmit stimulusKind = iota
	stimGiveUp
)

type stimulus struct {
	kind  stimulusKind
	text  string
	reply chan engine.AttemptResult
}

// Round owns one running session. A single goroutine consumes stimuli (timer
// ticks, answers, give-ups, roster refreshes) strictly in arrival order and
// is the only code that touches the engine, which keeps every mutation
// race-free without locking inside the engine itself.
type Round struct {
	session  *engine.Session
	interval time.Duration

	stimuli chan stimulus
	done    chan struct{}

	mu          sync.Mutex
	last        RoundUpdate
	subscribers map[chan RoundUpdate]struct{}
	finished    bool

	rosterCancel func()
}

func newRound(session *engine.Session, interval time.Duration) *Round {
	r := &Round{
		session:     session,
		interval:    interval,
		stimuli:     make(chan stimulus),
		done:        make(chan struct{}),
		subscribers: make(map[chan RoundUpdate]struct{}),
	}
	r.last = r.questionUpdate()
	return r
}

// run is the round's event loop. rosterFeed may be nil for solo rounds.
func (r *Round) run(rosterFeed <-chan []domain.Participant) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case roster, ok := <-rosterFeed:
			if !ok {
				rosterFeed = nil
				continue
			}
			r.session.RefreshRoster(roster)
			r.publish(r.questionUpdate())
		case st := <-r.stimuli:
			var res engine.AttemptResult
			if st.kind == stimGiveUp {
				res = r.session.GiveUp()
			} else {
				res = r.session.SubmitAnswer(st.text)
			}
			st.reply <- res
			if res.Outcome != engine.OutcomeIgnored {
				r.publish(r.answerUpdate(res))
				if res.Resolved && !r.session.Ended() {
					r.publish(r.questionUpdate())
				}
			}
			if r.session.Ended() {
				r.finish()
				return
			}
		case <-ticker.C:
			tick := r.session.Tick()
			if tick.Ended {
				r.finish()
				return
			}
			r.publish(RoundUpdate{
				Kind:      UpdateClock,
				Position:  r.session.Position(),
				Total:     r.session.Deck().Size(),
				Attempts:  r.session.Attempts(),
				Remaining: tick.Remaining,
				Stats:     r.session.Stats(),
			})
		}
	}
}

// submit hands a stimulus to the loop and waits for its synchronous result.
// After the round has finished every stimulus is an inert no-op.
func (r *Round) submit(st stimulus) engine.AttemptResult {
	st.reply = make(chan engine.AttemptResult, 1)
	select {
	case r.stimuli <- st:
		return <-st.reply
	case <-r.done:
		return engine.AttemptResult{Outcome: engine.OutcomeIgnored}
	}
}

// subscribe registers an update feed seeded with the latest known state. A
// feed on an already-finished round is closed immediately after delivering
// the summary.
func (r *Round) subscribe() (<-chan RoundUpdate, func()) {
	ch := make(chan RoundUpdate, 16)

	r.mu.Lock()
	ch <- r.last
	if r.finished {
		r.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	r.subscribers[ch] = struct{}{}
	r.mu.Unlock()

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

func (r *Round) publish(update RoundUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = update
	for ch := range r.subscribers {
		select {
		case ch <- update:
		default:
			// drop the oldest update so a slow consumer never stalls the loop
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}

// finish publishes the terminal summary exactly once and closes every feed.
func (r *Round) finish() {
	summary := engine.BuildSummary(r.session)
	update := RoundUpdate{
		Kind:      UpdateSummary,
		Total:     r.session.Deck().Size(),
		Position:  r.session.Position(),
		Remaining: r.session.Remaining(),
		Stats:     summary.Stats,
		Summary:   &summary,
	}

	r.mu.Lock()
	r.last = update
	for ch := range r.subscribers {
		select {
		case ch <- update:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
		delete(r.subscribers, ch)
		close(ch)
	}
	r.finished = true
	r.mu.Unlock()

	if r.rosterCancel != nil {
		r.rosterCancel()
	}
	close(r.done)
}

func (r *Round) questionUpdate() RoundUpdate {
	update := RoundUpdate{
		Kind:      UpdateQuestion,
		Position:  r.session.Position(),
		Total:     r.session.Deck().Size(),
		Attempts:  r.session.Attempts(),
		Remaining: r.session.Remaining(),
		Stats:     r.session.Stats(),
	}
	if prompt, ok := r.session.Prompt(); ok {
		update.Prompt = prompt
	}
	if turn, ok := r.session.ActiveParticipant(); ok {
		update.Turn = &turn
	}
	return update
}

func (r *Round) answerUpdate(res engine.AttemptResult) RoundUpdate {
	update := RoundUpdate{
		Kind:      UpdateAnswer,
		Position:  r.session.Position(),
		Total:     r.session.Deck().Size(),
		Attempts:  r.session.Attempts(),
		Remaining: r.session.Remaining(),
		Outcome:   res.Outcome.String(),
		Feedback:  res.Feedback,
		Reveal:    res.Reveal,
		Stats:     r.session.Stats(),
	}
	if turn, ok := r.session.ActiveParticipant(); ok {
		update.Turn = &turn
	}
	return update
}
