package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps deals in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	deals map[uuid.UUID]SavedDeal
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{deals: make(map[uuid.UUID]SavedDeal), now: time.Now}
}

// Save implements DealStore.
func (s *MemoryStore) Save(_ context.Context, deal SavedDeal) (SavedDeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.deals[deal.ID]; ok && deal.CreatedAt.IsZero() {
		deal.CreatedAt = existing.CreatedAt
	}
	prepared, err := prepare(deal, s.now().UTC())
	if err != nil {
		return SavedDeal{}, err
	}
	s.deals[prepared.ID] = prepared
	return copyDeal(prepared), nil
}

// Get implements DealStore.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (SavedDeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deal, ok := s.deals[id]
	if !ok {
		return SavedDeal{}, ErrNotFound
	}
	return copyDeal(deal), nil
}

// List implements DealStore.
func (s *MemoryStore) List(_ context.Context) ([]SavedDeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deals := make([]SavedDeal, 0, len(s.deals))
	for _, deal := range s.deals {
		deals = append(deals, copyDeal(deal))
	}
	sort.Slice(deals, func(i, j int) bool {
		if deals[i].CreatedAt.Equal(deals[j].CreatedAt) {
			return deals[i].ID.String() < deals[j].ID.String()
		}
		return deals[i].CreatedAt.Before(deals[j].CreatedAt)
	})
	return deals, nil
}

// Delete implements DealStore.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deals[id]; !ok {
		return ErrNotFound
	}
	delete(s.deals, id)
	return nil
}

// Close implements DealStore.
func (s *MemoryStore) Close() error {
	return nil
}

func copyDeal(d SavedDeal) SavedDeal {
	d.Deal = d.Deal.Clone()
	return d
}
