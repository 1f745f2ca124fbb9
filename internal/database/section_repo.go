package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/vitrine/internal/models"
)

var ErrSectionNotFound = errors.New("home section not found")

const sectionColumns = `
	id, tenant_id, title, filters, filter_type, filter_field, filter_value,
	display_order, is_active, max_items, created_at, updated_at`

func scanSection(row pgx.Row) (*models.HomeSection, error) {
	s := &models.HomeSection{}
	var filters []byte
	err := row.Scan(
		&s.ID,
		&s.TenantID,
		&s.Title,
		&filters,
		&s.FilterType,
		&s.FilterField,
		&s.FilterValue,
		&s.DisplayOrder,
		&s.IsActive,
		&s.MaxItems,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Filters = []models.SectionFilter{}
	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &s.Filters); err != nil {
			return nil, fmt.Errorf("failed to decode filters of section %s: %w", s.ID, err)
		}
	}
	return s, nil
}

// ListSections returns every section of a tenant (nil means the platform
// home page), active or not, by display order
func (db *DB) ListSections(ctx context.Context, tenantID *string) ([]*models.HomeSection, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+sectionColumns+`
		FROM home_sections
		WHERE tenant_id IS NOT DISTINCT FROM $1
		ORDER BY display_order, created_at
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	sections := []*models.HomeSection{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}

	return sections, rows.Err()
}

// GetSection retrieves a section by ID
func (db *DB) GetSection(ctx context.Context, id string) (*models.HomeSection, error) {
	s, err := scanSection(db.Pool.QueryRow(ctx,
		"SELECT "+sectionColumns+" FROM home_sections WHERE id = $1", id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return s, nil
}

// CreateSection inserts s at the end of its tenant's ordering
func (db *DB) CreateSection(ctx context.Context, s *models.HomeSection) (*models.HomeSection, error) {
	filters, err := json.Marshal(s.Filters)
	if err != nil {
		return nil, err
	}

	created, err := scanSection(db.Pool.QueryRow(ctx, `
		INSERT INTO home_sections (
			id, tenant_id, title, filters, filter_type, filter_field, filter_value,
			display_order, is_active, max_items
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(display_order), 0) + 1 FROM home_sections WHERE tenant_id IS NOT DISTINCT FROM $2),
			$8, $9)
		RETURNING `+sectionColumns,
		uuid.NewString(), s.TenantID, s.Title, filters, s.FilterType, s.FilterField, s.FilterValue,
		s.IsActive, s.MaxItems,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return created, nil
}

// UpdateSection rewrites the editable fields of a section, including the
// legacy filter columns
func (db *DB) UpdateSection(ctx context.Context, s *models.HomeSection) (*models.HomeSection, error) {
	filters, err := json.Marshal(s.Filters)
	if err != nil {
		return nil, err
	}

	updated, err := scanSection(db.Pool.QueryRow(ctx, `
		UPDATE home_sections
		SET title = $2,
		    filters = $3,
		    filter_type = $4,
		    filter_field = $5,
		    filter_value = $6,
		    is_active = $7,
		    max_items = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+sectionColumns,
		s.ID, s.Title, filters, s.FilterType, s.FilterField, s.FilterValue, s.IsActive, s.MaxItems,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return updated, nil
}

// UpdateSectionOrder persists one display_order value
func (db *DB) UpdateSectionOrder(ctx context.Context, id string, order int) error {
	tag, err := db.Pool.Exec(ctx,
		"UPDATE home_sections SET display_order = $2, updated_at = NOW() WHERE id = $1",
		id, order,
	)
	if err != nil {
		return fmt.Errorf("failed to update order of section %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// SetSectionActive shows or hides a section on the public home page
func (db *DB) SetSectionActive(ctx context.Context, id string, active bool) (*models.HomeSection, error) {
	s, err := scanSection(db.Pool.QueryRow(ctx, `
		UPDATE home_sections SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+sectionColumns,
		id, active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return s, nil
}

// DeleteSection removes a section
func (db *DB) DeleteSection(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM home_sections WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}
