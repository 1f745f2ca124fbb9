package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/models"
)

var errStoreDown = errors.New("store unavailable")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePropertyStore struct {
	mu     sync.Mutex
	pools  map[string][]*models.Property
	err    error
	calls  int
	before func()
}

func (f *fakePropertyStore) ListProperties(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error) {
	f.mu.Lock()
	f.calls++
	before := f.before
	err := f.err
	pool := f.pools[scope.Key()]
	f.mu.Unlock()

	if before != nil {
		before()
	}
	if err != nil {
		return nil, err
	}
	return pool, nil
}

type fakePoolCache struct {
	mu          sync.Mutex
	entries     map[string][]*models.Property
	sets        int
	invalidated int
	getErr      error
}

func newFakePoolCache() *fakePoolCache {
	return &fakePoolCache{entries: make(map[string][]*models.Property)}
}

func (f *fakePoolCache) Get(ctx context.Context, scope models.PropertyScope) ([]*models.Property, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	pool, ok := f.entries[scope.Key()]
	return pool, ok, nil
}

func (f *fakePoolCache) Set(ctx context.Context, scope models.PropertyScope, pool []*models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.entries[scope.Key()] = pool
	return nil
}

func (f *fakePoolCache) Invalidate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
	f.entries = make(map[string][]*models.Property)
	return nil
}

// fakeSectionStore keeps sections in memory and records order writes
type fakeSectionStore struct {
	sections    map[string]*models.HomeSection
	orderWrites []string
	failOrderOn string
	listErr     error
	deleted     []string
}

func newFakeSectionStore(list ...*models.HomeSection) *fakeSectionStore {
	f := &fakeSectionStore{sections: make(map[string]*models.HomeSection)}
	for _, s := range list {
		f.sections[s.ID] = s
	}
	return f
}

func (f *fakeSectionStore) ListSections(ctx context.Context, tenantID *string) ([]*models.HomeSection, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.HomeSection
	for _, s := range f.sections {
		if sameTenant(s.TenantID, tenantID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSectionStore) GetSection(ctx context.Context, id string) (*models.HomeSection, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, database.ErrSectionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSectionStore) CreateSection(ctx context.Context, s *models.HomeSection) (*models.HomeSection, error) {
	cp := *s
	cp.ID = fmt.Sprintf("s%d", len(f.sections)+1)
	cp.DisplayOrder = len(f.sections) + 1
	f.sections[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeSectionStore) UpdateSection(ctx context.Context, s *models.HomeSection) (*models.HomeSection, error) {
	if _, ok := f.sections[s.ID]; !ok {
		return nil, database.ErrSectionNotFound
	}
	cp := *s
	f.sections[s.ID] = &cp
	return &cp, nil
}

func (f *fakeSectionStore) UpdateSectionOrder(ctx context.Context, id string, order int) error {
	if id == f.failOrderOn {
		return errStoreDown
	}
	s, ok := f.sections[id]
	if !ok {
		return database.ErrSectionNotFound
	}
	s.DisplayOrder = order
	f.orderWrites = append(f.orderWrites, fmt.Sprintf("%s=%d", id, order))
	return nil
}

func (f *fakeSectionStore) SetSectionActive(ctx context.Context, id string, active bool) (*models.HomeSection, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, database.ErrSectionNotFound
	}
	s.IsActive = active
	cp := *s
	return &cp, nil
}

func (f *fakeSectionStore) DeleteSection(ctx context.Context, id string) error {
	if _, ok := f.sections[id]; !ok {
		return database.ErrSectionNotFound
	}
	delete(f.sections, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePoolSource struct {
	pool   []*models.Property
	err    error
	scopes []models.PropertyScope
}

func (f *fakePoolSource) Pool(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error) {
	f.scopes = append(f.scopes, scope)
	return f.pool, f.err
}
