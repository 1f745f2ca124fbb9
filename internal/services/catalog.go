package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/foxxcyber/vitrine/internal/filters"
	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/models"
)

// PropertyStore loads a property pool
type PropertyStore interface {
	ListProperties(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error)
}

// CatalogService serves property pools to the filter engine and the home
// page. Pools are fetched wholesale; filtering happens in memory.
type CatalogService struct {
	store  PropertyStore
	cache  PoolCache
	seq    *Sequencer
	logger *slog.Logger

	mu       sync.RWMutex
	lastGood map[string][]*models.Property
}

// NewCatalogService creates the service. cache may be nil.
func NewCatalogService(store PropertyStore, cache PoolCache, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		store:    store,
		cache:    cache,
		seq:      NewSequencer(),
		logger:   logger,
		lastGood: make(map[string][]*models.Property),
	}
}

// Pool returns every property in scope, newest first. When the store fails
// the last pool loaded for the scope is served instead.
func (s *CatalogService) Pool(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error) {
	if s.cache != nil {
		pool, ok, err := s.cache.Get(ctx, scope)
		if err != nil {
			s.logger.Warn("pool cache read failed", slog.String("scope", scope.Key()), logging.Err(err))
		} else if ok {
			return pool, nil
		}
	}

	return s.load(ctx, scope)
}

// Refresh reloads the pool of scope from the store, bypassing the cache.
// Unlike Pool it reports store failures instead of serving the last pool.
func (s *CatalogService) Refresh(ctx context.Context, scope models.PropertyScope) error {
	_, err := s.fetch(ctx, scope)
	return err
}

func (s *CatalogService) load(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error) {
	pool, err := s.fetch(ctx, scope)
	if err == nil {
		return pool, nil
	}

	key := scope.Key()
	s.mu.RLock()
	last, ok := s.lastGood[key]
	s.mu.RUnlock()
	if ok {
		s.logger.Warn("property fetch failed, serving last known pool",
			slog.String("scope", key), logging.Err(err), slog.Int("count", len(last)))
		return last, nil
	}
	s.logger.Error("property fetch failed", slog.String("scope", key), logging.Err(err))
	return nil, err
}

// fetch reads the pool from the store and, when no newer load or write has
// started since, records it as the scope's last good pool and caches it
func (s *CatalogService) fetch(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error) {
	key := scope.Key()
	log := s.logger.With(slog.String("scope", key))

	token := s.seq.Next(key)
	pool, err := s.store.ListProperties(ctx, scope)
	if err != nil {
		return nil, err
	}

	// A newer load for this scope, or a write, started while this one was in
	// flight. The caller still gets its answer but shared state is left alone.
	if !s.seq.IsLatest(key, token) {
		log.Debug("discarding stale pool", slog.Uint64("token", token))
		return pool, nil
	}

	s.mu.Lock()
	s.lastGood[key] = pool
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, scope, pool); err != nil {
			log.Warn("pool cache write failed", logging.Err(err))
		}
	}
	return pool, nil
}

// Search applies criteria to the pool of scope
func (s *CatalogService) Search(ctx context.Context, scope models.PropertyScope, c filters.Criteria) ([]*models.Property, error) {
	pool, err := s.Pool(ctx, scope)
	if err != nil {
		return nil, err
	}
	return filters.Filter(pool, c), nil
}

// Invalidate is called after every property write. In-flight loads become
// stale so they cannot repopulate the cache with pre-write data.
func (s *CatalogService) Invalidate(ctx context.Context) {
	s.seq.Expire()
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("pool cache invalidation failed", logging.Err(err))
	}
}
