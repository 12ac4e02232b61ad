package engine

import "timeclash/internal/domain"

// Aggregator folds each resolved question into three accumulators: the global
// attempt-class buckets, the per-question record, and the per-participant
// tallies. Writes are first-writer-wins per card; a second resolution of the
// same card is a no-op across all three.
type Aggregator struct {
	results     []domain.QuestionResult
	global      domain.GlobalStats
	players     []domain.ParticipantStats
	playersOnce bool
}

// NewAggregator creates one QuestionResult per catalog card, all unresolved.
func NewAggregator(catalog domain.Catalog) *Aggregator {
	results := make([]domain.QuestionResult, len(catalog.Cards))
	for i, card := range catalog.Cards {
		results[i] = domain.QuestionResult{Prompt: catalog.PromptFor(card)}
	}
	return &Aggregator{results: results}
}

// InitParticipants seeds per-participant tallies from the roster. It takes
// effect once, on the first non-empty roster; later roster changes never
// reset or resize the tallies. A participant who joins mid-round simply has
// no entry, one who leaves keeps a stale but harmless entry.
func (a *Aggregator) InitParticipants(roster []domain.Participant) {
	if a.playersOnce || len(roster) == 0 {
		return
	}
	a.players = make([]domain.ParticipantStats, len(roster))
	for i, p := range roster {
		a.players[i] = domain.ParticipantStats{ID: p.ID, DisplayName: p.DisplayName}
	}
	a.playersOnce = true
}

// RecordResolution applies one resolution event. It reports whether this call
// was the first resolution for cardIndex; repeated calls change nothing.
// Every class 1-4 counts toward the active participant's TotalCorrect (a
// resolved question is a completed question, reveal included); FirstTries
// additionally increments for class 1 only.
func (a *Aggregator) RecordResolution(cardIndex, class, participantIndex int) bool {
	if cardIndex < 0 || cardIndex >= len(a.results) {
		return false
	}
	if a.results[cardIndex].Attempts != 0 {
		return false
	}
	a.results[cardIndex].Attempts = class

	switch class {
	case 1:
		a.global.OneTry++
	case 2:
		a.global.TwoTries++
	case 3:
		a.global.ThreeTries++
	default:
		a.global.FourPlus++
	}

	if participantIndex >= 0 && participantIndex < len(a.players) {
		a.players[participantIndex].TotalCorrect++
		if class == 1 {
			a.players[participantIndex].FirstTries++
		}
	}
	return true
}

// Global returns the bucket totals.
func (a *Aggregator) Global() domain.GlobalStats {
	return a.global
}

// Results returns a copy of the per-question records, catalog order.
func (a *Aggregator) Results() []domain.QuestionResult {
	out := make([]domain.QuestionResult, len(a.results))
	copy(out, a.results)
	return out
}

// Participants returns a copy of the per-participant tallies, join order.
func (a *Aggregator) Participants() []domain.ParticipantStats {
	out := make([]domain.ParticipantStats, len(a.players))
	copy(out, a.players)
	return out
}
