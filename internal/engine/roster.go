package engine

import "timeclash/internal/domain"

// RosterView is the engine's locally-held projection of who is currently in
// the room. Each refresh swaps in a complete snapshot; indices are not stable
// across refreshes, so consumers read the snapshot in effect at the start of
// one stimulus and never a half-updated list.
type RosterView struct {
	snapshot []domain.Participant
	version  int
}

// Refresh replaces the snapshot. Order is join order as delivered by the
// directory feed.
func (r *RosterView) Refresh(participants []domain.Participant) {
	snap := make([]domain.Participant, len(participants))
	copy(snap, participants)
	r.snapshot = snap
	r.version++
}

// Current returns the snapshot in effect.
func (r *RosterView) Current() []domain.Participant {
	return r.snapshot
}

// Size is the participant count of the current snapshot.
func (r *RosterView) Size() int {
	return len(r.snapshot)
}

// Version increments on every refresh; useful for change detection in tests.
func (r *RosterView) Version() int {
	return r.version
}
