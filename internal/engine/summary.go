package engine

import (
	"sort"

	"timeclash/internal/domain"
)

// BuildSummary renders terminal session state into the report handed to the
// presentation layer. Results keeps every question, resolved or not, in
// catalog order; Players is sorted by first-try count descending with ties
// keeping join order. Valid once the session has ended, but pure either way.
func BuildSummary(s *Session) domain.Summary {
	players := s.stats.Participants()
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].FirstTries > players[j].FirstTries
	})

	return domain.Summary{
		CatalogID:      s.deck.Catalog().ID,
		Results:        s.stats.Results(),
		Stats:          s.stats.Global(),
		Players:        players,
		ElapsedSeconds: s.clock.Elapsed(),
		Reason:         s.reason,
	}
}
