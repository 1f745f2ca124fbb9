package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/models"
	"github.com/foxxcyber/vitrine/internal/sections"
)

// DefaultSectionItems is used when a new section does not set max_items
const DefaultSectionItems = 8

var ErrSectionForbidden = errors.New("section belongs to another tenant")

// SectionStore persists home sections
type SectionStore interface {
	ListSections(ctx context.Context, tenantID *string) ([]*models.HomeSection, error)
	GetSection(ctx context.Context, id string) (*models.HomeSection, error)
	CreateSection(ctx context.Context, s *models.HomeSection) (*models.HomeSection, error)
	UpdateSection(ctx context.Context, s *models.HomeSection) (*models.HomeSection, error)
	UpdateSectionOrder(ctx context.Context, id string, order int) error
	SetSectionActive(ctx context.Context, id string, active bool) (*models.HomeSection, error)
	DeleteSection(ctx context.Context, id string) error
}

// PoolSource provides the property pool sections are resolved against
type PoolSource interface {
	Pool(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error)
}

// ReorderError is returned when persisting a new order fails partway.
// Sections holds the order as the store now has it, for the caller to show
// instead of its optimistic one.
type ReorderError struct {
	Err        error
	Sections   []*models.HomeSection
	RefetchErr error
}

func (e *ReorderError) Error() string {
	if e.RefetchErr != nil {
		return fmt.Sprintf("reorder failed: %v (refetch failed: %v)", e.Err, e.RefetchErr)
	}
	return fmt.Sprintf("reorder failed: %v", e.Err)
}

func (e *ReorderError) Unwrap() error {
	return e.Err
}

type SectionService struct {
	store  SectionStore
	pools  PoolSource
	logger *slog.Logger
}

func NewSectionService(store SectionStore, pools PoolSource, logger *slog.Logger) *SectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SectionService{store: store, pools: pools, logger: logger}
}

// List returns every section of a tenant for the back office, by display order
func (s *SectionService) List(ctx context.Context, tenantID *string) ([]*models.HomeSection, error) {
	all, err := s.store.ListSections(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return sections.Sort(all), nil
}

// Create validates and inserts a section at the end of the tenant's order
func (s *SectionService) Create(ctx context.Context, tenantID *string, req *models.SaveSectionRequest) (*models.HomeSection, error) {
	section := &models.HomeSection{
		TenantID: tenantID,
		Title:    req.Title,
		Filters:  sections.Normalize(req.Filters),
		IsActive: true,
		MaxItems: req.MaxItems,
	}
	if req.IsActive != nil {
		section.IsActive = *req.IsActive
	}
	if section.MaxItems == 0 {
		section.MaxItems = DefaultSectionItems
	}

	if err := sections.Validate(section); err != nil {
		return nil, err
	}
	sections.ToLegacyShape(section).Apply(section)

	return s.store.CreateSection(ctx, section)
}

// Update validates and rewrites an existing section
func (s *SectionService) Update(ctx context.Context, tenantID *string, id string, req *models.SaveSectionRequest) (*models.HomeSection, error) {
	existing, err := s.owned(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	section := *existing
	section.Title = req.Title
	section.Filters = sections.Normalize(req.Filters)
	if req.IsActive != nil {
		section.IsActive = *req.IsActive
	}
	if req.MaxItems != 0 {
		section.MaxItems = req.MaxItems
	}

	if err := sections.Validate(&section); err != nil {
		return nil, err
	}
	sections.ToLegacyShape(&section).Apply(&section)

	return s.store.UpdateSection(ctx, &section)
}

// Reorder persists the order given by ids, which must name every section of
// the tenant exactly once
func (s *SectionService) Reorder(ctx context.Context, tenantID *string, ids []string) ([]*models.HomeSection, error) {
	current, err := s.store.ListSections(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	next, err := sections.ReorderByIDs(current, ids)
	if err != nil {
		return nil, err
	}
	return s.persistOrder(ctx, tenantID, next)
}

// Move persists a drag-and-drop move between two positions of the displayed order
func (s *SectionService) Move(ctx context.Context, tenantID *string, from, to int) ([]*models.HomeSection, error) {
	current, err := s.store.ListSections(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	next, err := sections.Move(current, from, to)
	if err != nil {
		return nil, err
	}
	return s.persistOrder(ctx, tenantID, next)
}

// persistOrder writes display_order for every section, one row at a time.
// The first failure stops the loop; the store is then reread so the caller
// can reconcile with whatever was written.
func (s *SectionService) persistOrder(ctx context.Context, tenantID *string, next []*models.HomeSection) ([]*models.HomeSection, error) {
	for _, section := range next {
		if err := s.store.UpdateSectionOrder(ctx, section.ID, section.DisplayOrder); err != nil {
			s.logger.Warn("section reorder aborted",
				slog.String("section_id", section.ID),
				slog.Int("display_order", section.DisplayOrder),
				logging.Err(err),
			)

			refetched, ferr := s.store.ListSections(ctx, tenantID)
			if ferr == nil {
				refetched = sections.Sort(refetched)
			}
			return nil, &ReorderError{Err: err, Sections: refetched, RefetchErr: ferr}
		}
	}
	return next, nil
}

// SetActive shows or hides a section without deleting it
func (s *SectionService) SetActive(ctx context.Context, tenantID *string, id string, active bool) (*models.HomeSection, error) {
	if _, err := s.owned(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return s.store.SetSectionActive(ctx, id, active)
}

// Delete removes a section
func (s *SectionService) Delete(ctx context.Context, tenantID *string, id string) error {
	if _, err := s.owned(ctx, tenantID, id); err != nil {
		return err
	}
	return s.store.DeleteSection(ctx, id)
}

// Home renders the active sections of a tenant with their properties.
// A section whose stored filters no longer compile is skipped.
func (s *SectionService) Home(ctx context.Context, tenantID *string) ([]models.HomeSectionView, error) {
	all, err := s.store.ListSections(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	active := sections.Active(all)
	if len(active) == 0 {
		return []models.HomeSectionView{}, nil
	}

	pool, err := s.pools.Pool(ctx, models.PropertyScope{Status: models.StatusAvailable, TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	views := make([]models.HomeSectionView, 0, len(active))
	for _, section := range active {
		props, err := sections.Resolve(section, pool)
		if err != nil {
			s.logger.Warn("skipping section with invalid filters",
				slog.String("section_id", section.ID),
				logging.Err(err),
			)
			continue
		}

		public := make([]*models.Property, 0, len(props))
		for _, p := range props {
			public = append(public, p.PublicView())
		}
		views = append(views, models.HomeSectionView{HomeSection: *section, Properties: public})
	}
	return views, nil
}

func (s *SectionService) owned(ctx context.Context, tenantID *string, id string) (*models.HomeSection, error) {
	section, err := s.store.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameTenant(section.TenantID, tenantID) {
		return nil, ErrSectionForbidden
	}
	return section, nil
}

func sameTenant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
