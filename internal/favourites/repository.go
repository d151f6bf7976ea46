// Package favourites keeps the bookmarked photo collection. Changes arrive as
// events on a bus; a single subscriber persists them and re-renders every
// registered view.
package favourites

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/photodeck/internal/domain"
)

// StorageKey is the key the collection is persisted under
const StorageKey = "items"

// Repository reads and writes the persisted collection
type Repository struct {
	kv domain.KeyValueStore
}

// NewRepository creates a repository over kv
func NewRepository(kv domain.KeyValueStore) *Repository {
	return &Repository{kv: kv}
}

// Load returns the persisted collection; a missing key is an empty collection
func (r *Repository) Load() ([]domain.Photo, error) {
	raw, ok, err := r.kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load favourites: %w", err)
	}
	if !ok || raw == "" {
		return []domain.Photo{}, nil
	}
	var photos []domain.Photo
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		return nil, fmt.Errorf("decode favourites: %w", err)
	}
	if photos == nil {
		photos = []domain.Photo{}
	}
	return photos, nil
}

// Save replaces the persisted collection
func (r *Repository) Save(photos []domain.Photo) error {
	if photos == nil {
		photos = []domain.Photo{}
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("encode favourites: %w", err)
	}
	if err := r.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("save favourites: %w", err)
	}
	return nil
}
