package domain

import "errors"

var (
	// ErrRoomNotFound is returned when a room code does not match any room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrCatalogNotFound indicates the card catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrEmptyCatalog is reported at deck construction for a catalog with no cards.
	ErrEmptyCatalog = errors.New("catalog has no cards")
	// ErrRoundNotFound is returned when acting on a room with no running round.
	ErrRoundNotFound = errors.New("round not found")
	// ErrDisplayNameRequired is returned when joining without a display name.
	ErrDisplayNameRequired = errors.New("display name required")
)
