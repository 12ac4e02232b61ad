package domain

import "fmt"

// Card is a term/definition pair quizzed during a round. Cards are immutable;
// a card's identity is its position in the catalog it came from.
type Card struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Catalog is a fixed, ordered set of cards plus the phrasing used to turn a
// card into a question prompt. Prompt must contain a single %q verb for the
// term; when empty a generic phrasing is used.
type Catalog struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	Cards  []Card `json:"cards"`
}

// PromptFor renders the question text shown for a card.
func (c Catalog) PromptFor(card Card) string {
	format := c.Prompt
	if format == "" {
		format = "What is the definition of %q?"
	}
	return fmt.Sprintf(format, card.Term)
}

// Participant identifies a player in a room. Membership is owned by the room
// directory, not by the round engine.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Room is the directory-level view of a joinable room.
type Room struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// QuestionResult records how a single question was eventually resolved.
// Attempts is 0 while the question was never resolved, 1..3 when answered on
// that try, and 4 when resolved by reveal or give-up. It is written at most
// once per round.
type QuestionResult struct {
	Prompt   string `json:"prompt"`
	Attempts int    `json:"attempts"`
}

// GlobalStats buckets resolved questions by attempt class.
type GlobalStats struct {
	OneTry     int `json:"oneTry"`
	TwoTries   int `json:"twoTries"`
	ThreeTries int `json:"threeTries"`
	FourPlus   int `json:"fourPlus"`
}

// Total is the number of questions resolved so far.
func (s GlobalStats) Total() int {
	return s.OneTry + s.TwoTries + s.ThreeTries + s.FourPlus
}

// ParticipantStats tallies a single participant's resolutions. FirstTries
// counts class-1 resolutions only; TotalCorrect counts every question the
// participant closed out, reveals and give-ups included.
type ParticipantStats struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	FirstTries   int    `json:"firstTries"`
	TotalCorrect int    `json:"totalCorrect"`
}

// EndReason names which terminal condition fired first.
type EndReason string

const (
	EndReasonTimeUp   EndReason = "time_up"
	EndReasonDeckDone EndReason = "deck_exhausted"
)

// Label is the display text for the terminal screen.
func (r EndReason) Label() string {
	if r == EndReasonDeckDone {
		return "All questions completed!"
	}
	return "Time's up!"
}

// Summary is the immutable end-of-round report handed to the presentation
// layer. Results keeps one entry per catalog card, unresolved ones included;
// consumers filter on Attempts > 0 for the question-by-question listing.
// Players is ordered by FirstTries descending, ties keeping join order.
type Summary struct {
	CatalogID      string             `json:"catalogId"`
	Results        []QuestionResult   `json:"results"`
	Stats          GlobalStats        `json:"stats"`
	Players        []ParticipantStats `json:"players"`
	ElapsedSeconds int                `json:"elapsedSeconds"`
	Reason         EndReason          `json:"reason"`
}
