package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/vitrine/internal/filters"
	"github.com/foxxcyber/vitrine/internal/models"
)

var availableScope = models.PropertyScope{Status: models.StatusAvailable}

func samplePool() []*models.Property {
	return []*models.Property{
		{ID: "p1", Title: "Cobertura frente mar", IsBeachfront: true},
		{ID: "p2", Title: "Casa no centro"},
		{ID: "p3", Title: "Apartamento frente mar", IsBeachfront: true},
	}
}

func TestCatalog_PoolIsCached(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	cache := newFakePoolCache()
	catalog := NewCatalogService(store, cache, quietLogger())

	pool, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)
	assert.Len(t, pool, 3)

	_, err = catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestCatalog_WithoutCache(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	catalog := NewCatalogService(store, nil, quietLogger())

	_, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)
	_, err = catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls)
}

func TestCatalog_CacheReadErrorFallsThroughToStore(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	cache := newFakePoolCache()
	cache.getErr = errors.New("redis down")
	catalog := NewCatalogService(store, cache, quietLogger())

	pool, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)
	assert.Len(t, pool, 3)
}

func TestCatalog_ServesLastKnownGoodOnFailure(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	catalog := NewCatalogService(store, newFakePoolCache(), quietLogger())

	_, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)

	catalog.Invalidate(context.Background())
	store.err = errStoreDown

	pool, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, propertyIDs(pool))
}

func TestCatalog_FailureWithoutHistory(t *testing.T) {
	store := &fakePropertyStore{err: errStoreDown}
	catalog := NewCatalogService(store, newFakePoolCache(), quietLogger())

	_, err := catalog.Pool(context.Background(), availableScope)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestCatalog_StaleLoadDoesNotPopulateCache(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	cache := newFakePoolCache()
	catalog := NewCatalogService(store, cache, quietLogger())

	// a property write lands while the load is in flight
	store.before = func() { catalog.Invalidate(context.Background()) }

	pool, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)
	assert.Len(t, pool, 3, "the caller still gets its response")
	assert.Equal(t, 0, cache.sets)

	store.before = nil
	_, err = catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls, "nothing stale was cached")
	assert.Equal(t, 1, cache.sets)
}

func TestCatalog_InvalidateClearsCache(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	cache := newFakePoolCache()
	catalog := NewCatalogService(store, cache, quietLogger())

	_, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)

	catalog.Invalidate(context.Background())
	_, err = catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, 2, store.calls)
}

func TestCatalog_RefreshBypassesCache(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	cache := newFakePoolCache()
	catalog := NewCatalogService(store, cache, quietLogger())

	require.NoError(t, catalog.Refresh(context.Background(), availableScope))
	require.NoError(t, catalog.Refresh(context.Background(), availableScope))

	assert.Equal(t, 2, store.calls)
	assert.Equal(t, 2, cache.sets)
}

func TestCatalog_RefreshReportsStoreFailure(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	catalog := NewCatalogService(store, newFakePoolCache(), quietLogger())

	require.NoError(t, catalog.Refresh(context.Background(), availableScope))

	store.err = errStoreDown
	assert.ErrorIs(t, catalog.Refresh(context.Background(), availableScope), errStoreDown,
		"a last known pool does not hide the failure")

	pool, err := catalog.Pool(context.Background(), availableScope)
	require.NoError(t, err)
	assert.Len(t, pool, 3, "readers are still served")
}

func TestCatalog_Search(t *testing.T) {
	store := &fakePropertyStore{pools: map[string][]*models.Property{availableScope.Key(): samplePool()}}
	catalog := NewCatalogService(store, nil, quietLogger())

	c := filters.Default()
	c.IsBeachfront = true

	got, err := catalog.Search(context.Background(), availableScope, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, propertyIDs(got))
}

func TestPoolCacheKey(t *testing.T) {
	tenant := "t-1"
	a := poolCacheKey(availableScope)
	b := poolCacheKey(models.PropertyScope{Status: models.StatusAvailable, TenantID: &tenant})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, poolCacheKey(models.PropertyScope{Status: models.StatusAvailable}))
	assert.Contains(t, a, poolKeyPrefix)
}

func propertyIDs(props []*models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}
