package location

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory PreferenceRepository for testing and
// for clients without durable storage.
type InMemoryRepository struct {
	mu    sync.RWMutex
	asked bool
}

// NewInMemoryRepository creates a new in-memory preference repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// PromptAsked reports whether the permission prompt was already shown.
func (r *InMemoryRepository) PromptAsked(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.asked, nil
}

// SetPromptAsked records that the prompt was shown.
func (r *InMemoryRepository) SetPromptAsked(_ context.Context, asked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asked = asked
	return nil
}
