package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

func TestNewFabricStore(t *testing.T) {
	store := NewFabricStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.fabrics)
}

func TestFabricStore_Save_Success(t *testing.T) {
	store := NewFabricStore()
	ctx := context.Background()

	docs := 12
	fabric := domain.Fabric{
		ID:               "fabric-1",
		Name:             "Incidents",
		Domain:           domain.DomainIncidentManagement,
		Status:           domain.StatusReady,
		ChromaCollection: "incidents",
		ChunkSize:        512,
		ChunkOverlap:     64,
		DocumentsCount:   &docs,
	}

	err := store.Save(ctx, fabric)
	require.NoError(t, err)

	saved, err := store.Get(ctx, "fabric-1")
	require.NoError(t, err)
	assert.Equal(t, "Incidents", saved.Name)
	assert.Equal(t, domain.StatusReady, saved.Status)
	require.NotNil(t, saved.DocumentsCount)
	assert.Equal(t, 12, *saved.DocumentsCount)
}

func TestFabricStore_Save_Update(t *testing.T) {
	store := NewFabricStore()
	ctx := context.Background()

	err := store.Save(ctx, domain.Fabric{ID: "fabric-1", Status: domain.StatusDraft})
	require.NoError(t, err)

	err = store.Save(ctx, domain.Fabric{ID: "fabric-1", Status: domain.StatusIngesting})
	require.NoError(t, err)

	saved, err := store.Get(ctx, "fabric-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIngesting, saved.Status)
}

func TestFabricStore_Get_NotFound(t *testing.T) {
	store := NewFabricStore()

	fabric, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, fabric)
}

func TestFabricStore_Get_ReturnsCopy(t *testing.T) {
	store := NewFabricStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Fabric{ID: "fabric-1", Name: "Original"}))

	got, err := store.Get(ctx, "fabric-1")
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := store.Get(ctx, "fabric-1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}

func TestFabricStore_Delete(t *testing.T) {
	store := NewFabricStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Fabric{ID: "fabric-1"}))
	require.NoError(t, store.Delete(ctx, "fabric-1"))

	_, err := store.Get(ctx, "fabric-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFabricStore_Delete_NonExistent(t *testing.T) {
	store := NewFabricStore()

	// Deleting an unknown fabric is not an error
	err := store.Delete(context.Background(), "nonexistent")
	assert.NoError(t, err)
}

func TestFabricStore_List_Empty(t *testing.T) {
	store := NewFabricStore()

	fabrics, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fabrics)
}

func TestFabricStore_List_OrderedByCreation(t *testing.T) {
	store := NewFabricStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, domain.Fabric{ID: "f3", CreatedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.Fabric{ID: "f1", CreatedAt: base}))
	require.NoError(t, store.Save(ctx, domain.Fabric{ID: "f2", CreatedAt: base.Add(time.Hour)}))

	fabrics, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, fabrics, 3)
	assert.Equal(t, "f1", fabrics[0].ID)
	assert.Equal(t, "f2", fabrics[1].ID)
	assert.Equal(t, "f3", fabrics[2].ID)
}

func TestFabricStore_Concurrency(t *testing.T) {
	store := NewFabricStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			fabricID := "fabric-" + string(rune('a'+id))
			_ = store.Save(ctx, domain.Fabric{ID: fabricID})
			_, _ = store.Get(ctx, fabricID)
			_, _ = store.List(ctx)
		}(i)
	}
	wg.Wait()

	fabrics, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fabrics, 20)
}
