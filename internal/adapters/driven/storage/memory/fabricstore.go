package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// Ensure FabricStore implements the interface.
var _ driven.FabricStore = (*FabricStore)(nil)

// FabricStore is an in-memory implementation of driven.FabricStore.
type FabricStore struct {
	mu      sync.RWMutex
	fabrics map[string]domain.Fabric
}

// NewFabricStore creates a new in-memory fabric store.
func NewFabricStore() *FabricStore {
	return &FabricStore{
		fabrics: make(map[string]domain.Fabric),
	}
}

// Save stores or updates a fabric.
func (s *FabricStore) Save(_ context.Context, fabric domain.Fabric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fabrics[fabric.ID] = fabric
	return nil
}

// Get retrieves a fabric by ID.
func (s *FabricStore) Get(_ context.Context, id string) (*domain.Fabric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fabric, ok := s.fabrics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &fabric, nil
}

// Delete removes a fabric.
func (s *FabricStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fabrics, id)
	return nil
}

// List returns all stored fabrics ordered by creation time.
func (s *FabricStore) List(_ context.Context) ([]domain.Fabric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Fabric, 0, len(s.fabrics))
	for _, fabric := range s.fabrics {
		result = append(result, fabric)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
