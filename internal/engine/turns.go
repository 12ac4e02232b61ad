package engine

import "timeclash/internal/domain"

// TurnScheduler tracks which roster index currently owns the floor. The
// pointer rotates forward exactly once per resolved question, wrapping modulo
// the roster size in effect at that moment. A shrinking roster can make the
// "current participant" identity jump; that is accepted behavior, the modulo
// keeps the pointer in range.
type TurnScheduler struct {
	pointer int
}

// Advance rotates the pointer forward against the given roster size. With an
// empty roster the pointer stays at zero.
func (t *TurnScheduler) Advance(rosterSize int) {
	if rosterSize == 0 {
		t.pointer = 0
		return
	}
	t.pointer = (t.pointer + 1) % rosterSize
}

// Current returns the participant owning the floor, or false when the roster
// is empty or the pointer fell off a shrunken roster.
func (t *TurnScheduler) Current(roster []domain.Participant) (domain.Participant, bool) {
	if len(roster) == 0 || t.pointer >= len(roster) {
		return domain.Participant{}, false
	}
	return roster[t.pointer], true
}

// Pointer exposes the raw index for stats attribution.
func (t *TurnScheduler) Pointer() int {
	return t.pointer
}
