// Package engine implements the round engine for a timed trivia session:
// question sequencing, attempt evaluation, turn rotation, timer-driven
// termination and statistics aggregation. The engine is deliberately free of
// real-time and transport concerns; every mutation is a synchronous reaction
// to an injected stimulus (tick, answer, give-up, roster refresh).
package engine

import (
	"math/rand"

	"timeclash/internal/domain"
)

// Deck owns the card set for one round and a randomized, non-repeating
// traversal order over it. The order is fixed for the round's lifetime.
type Deck struct {
	catalog domain.Catalog
	order   []int
}

// NewDeck shuffles the catalog into a fresh traversal order. An empty catalog
// is a construction-time precondition violation.
func NewDeck(catalog domain.Catalog, rnd *rand.Rand) (*Deck, error) {
	if len(catalog.Cards) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	order := make([]int, len(catalog.Cards))
	for i := range order {
		order[i] = i
	}
	// Fisher-Yates from the last index down; independent of any prior shuffle.
	for i := len(order) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return &Deck{catalog: catalog, order: order}, nil
}

// Size is the number of cards in the round.
func (d *Deck) Size() int {
	return len(d.order)
}

// Card returns the card at a traversal position together with its catalog
// index. Position must be in [0, Size).
func (d *Deck) Card(position int) (domain.Card, int) {
	idx := d.order[position]
	return d.catalog.Cards[idx], idx
}

// Order exposes the traversal permutation, for tests and diagnostics.
func (d *Deck) Order() []int {
	out := make([]int, len(d.order))
	copy(out, d.order)
	return out
}

// Catalog returns the catalog backing the deck.
func (d *Deck) Catalog() domain.Catalog {
	return d.catalog
}
