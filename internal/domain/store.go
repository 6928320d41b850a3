package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrEmptyStoreID   = errors.New("store ID cannot be empty")
	ErrEmptyStoreName = errors.New("store name cannot be empty")
)

// Store is one coffee-shop location the authenticated user may operate.
// Which stores a user sees is decided entirely by the backend's row-level
// security; the application trusts whatever rows come back.
type Store struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Validate checks if the Store has valid data.
func (s *Store) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyStoreID
	}
	if s.Name == "" {
		return ErrEmptyStoreName
	}
	return nil
}

// FindStore returns the store with the given ID from stores, or nil when no
// entry matches. The second return reports whether a match was found.
func FindStore(stores []Store, id uuid.UUID) (*Store, bool) {
	for i := range stores {
		if stores[i].ID == id {
			return &stores[i], true
		}
	}
	return nil, false
}
