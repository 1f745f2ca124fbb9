package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/vitrine/internal/models"
)

var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrTenantSlugExists = errors.New("tenant slug already exists")
)

const tenantColumns = "id, name, slug, enabled, created_at, updated_at"

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	t := &models.Tenant{}
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Enabled, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

// CreateTenant inserts a new tenant
func (db *DB) CreateTenant(ctx context.Context, name, slug string) (*models.Tenant, error) {
	t, err := scanTenant(db.Pool.QueryRow(ctx, `
		INSERT INTO tenants (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING `+tenantColumns,
		uuid.NewString(), name, slug,
	))
	if err != nil {
		if isUniqueViolation(err, "tenants_slug_key") {
			return nil, ErrTenantSlugExists
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return t, nil
}

// GetTenantByID retrieves a tenant by ID
func (db *DB) GetTenantByID(ctx context.Context, id string) (*models.Tenant, error) {
	return scanTenant(db.Pool.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE id = $1", id,
	))
}

// GetTenantBySlug resolves the storefront slug used in public URLs
func (db *DB) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return scanTenant(db.Pool.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE slug = $1", slug,
	))
}

// ListTenants returns every tenant by name; enabledOnly skips disabled ones
func (db *DB) ListTenants(ctx context.Context, enabledOnly bool) ([]*models.Tenant, error) {
	query := "SELECT " + tenantColumns + " FROM tenants"
	if enabledOnly {
		query += " WHERE enabled"
	}
	query += " ORDER BY name"

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []*models.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// UpdateTenant applies the non-nil fields of req
func (db *DB) UpdateTenant(ctx context.Context, id string, req *models.UpdateTenantRequest) (*models.Tenant, error) {
	return scanTenant(db.Pool.QueryRow(ctx, `
		UPDATE tenants
		SET name = COALESCE($2, name),
		    enabled = COALESCE($3, enabled),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+tenantColumns,
		id, req.Name, req.Enabled,
	))
}

// DeleteTenant removes a tenant and, by cascade, everything it owns
func (db *DB) DeleteTenant(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM tenants WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}
