package tour

import (
	"context"
	"sync"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// StatusStore persists whether a viewer completed or dismissed a tour.
// Get returns domain.TourStatusNone for unknown tours.
type StatusStore interface {
	Get(ctx context.Context, tourID string) (domain.TourStatus, error)
	Set(ctx context.Context, tourID string, status domain.TourStatus) error
	Clear(ctx context.Context, tourID string) error
}

// MemoryStore is a process-wide in-memory StatusStore.
type MemoryStore struct {
	mu       sync.RWMutex
	statuses map[string]domain.TourStatus
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{statuses: make(map[string]domain.TourStatus)}
}

func (m *MemoryStore) Get(_ context.Context, tourID string) (domain.TourStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.statuses[tourID]; ok {
		return st, nil
	}
	return domain.TourStatusNone, nil
}

func (m *MemoryStore) Set(_ context.Context, tourID string, status domain.TourStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", "invalid")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == domain.TourStatusNone {
		delete(m.statuses, tourID)
		return nil
	}
	m.statuses[tourID] = status
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, tourID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.statuses, tourID)
	return nil
}
