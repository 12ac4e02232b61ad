package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclash/internal/domain"
)

func TestSummaryRanksByFirstTriesKeepingJoinOrderOnTies(t *testing.T) {
	deck, err := NewDeck(elementsFixture(), rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	s := NewSession(deck, 120)
	s.RefreshRoster(rosterOf("alice", "bob", "cleo", "dina"))

	// alice misses (class 4), bob answers first try, cleo answers first try,
	// dina misses. bob and cleo each end with one first-try; alice and dina tie at zero.
	s.GiveUp()
	card, _ := s.CurrentCard()
	s.SubmitAnswer(card.Definition)
	card, _ = s.CurrentCard()
	s.SubmitAnswer(card.Definition)
	s.GiveUp()

	summary := BuildSummary(s)
	require.Len(t, summary.Players, 4)
	assert.Equal(t, "bob", summary.Players[0].DisplayName)
	assert.Equal(t, "cleo", summary.Players[1].DisplayName)
	// zero-first-try tie keeps join order
	assert.Equal(t, "alice", summary.Players[2].DisplayName)
	assert.Equal(t, "dina", summary.Players[3].DisplayName)

	assert.Equal(t, 1, summary.Players[0].FirstTries)
	assert.Equal(t, 1, summary.Players[0].TotalCorrect)
	assert.Equal(t, 1, summary.Players[2].TotalCorrect) // give-up still completed the question
}

func TestSummaryKeepsUnresolvedResultsForFidelity(t *testing.T) {
	deck, err := NewDeck(elementsFixture(), rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	s := NewSession(deck, 2)
	s.RefreshRoster(rosterOf("alice"))

	card, _ := s.CurrentCard()
	s.SubmitAnswer(card.Definition)
	s.Tick()
	s.Tick()
	require.True(t, s.Ended())

	summary := BuildSummary(s)
	assert.Len(t, summary.Results, 10)

	resolved := 0
	for _, r := range summary.Results {
		if r.Attempts > 0 {
			resolved++
		}
	}
	assert.Equal(t, 1, resolved)
	assert.Equal(t, domain.EndReasonTimeUp, summary.Reason)
	assert.Equal(t, 2, summary.ElapsedSeconds)
	assert.Equal(t, "elements", summary.CatalogID)
}
