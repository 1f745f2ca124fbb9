package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/vitrine/internal/models"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrSlugExists       = errors.New("slug already in use")
)

const propertyColumns = `
	id, slug, tenant_id, user_id, title, description, status, property_type, purpose,
	price, rental_price, location, city, state, area, bedrooms, bathrooms,
	tags, features, images, property_code,
	is_featured, is_beachfront, is_near_beach, is_development, accepts_exchange, hide_address,
	created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.TenantID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.PropertyType,
		&p.Purpose,
		&p.Price,
		&p.RentalPrice,
		&p.Location,
		&p.City,
		&p.State,
		&p.Area,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Tags,
		&p.Features,
		&p.Images,
		&p.PropertyCode,
		&p.IsFeatured,
		&p.IsBeachfront,
		&p.IsNearBeach,
		&p.IsDevelopment,
		&p.AcceptsExchange,
		&p.HideAddress,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// scopeWhere builds the equality filter of a property scope, numbering
// placeholders from 1
func scopeWhere(scope models.PropertyScope) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if scope.Status != "" {
		args = append(args, scope.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if scope.TenantID != nil {
		args = append(args, *scope.TenantID)
		conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", len(args)))
	}
	if scope.UserID != nil {
		args = append(args, *scope.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// enabledTenantCondition hides the listings of disabled tenants from public pools
const enabledTenantCondition = "(tenant_id IS NULL OR tenant_id IN (SELECT id FROM tenants WHERE enabled))"

// ListProperties returns the pool selected by scope, newest first.
// Available pools are public and skip listings of disabled tenants.
func (db *DB) ListProperties(ctx context.Context, scope models.PropertyScope) ([]*models.Property, error) {
	where, args := scopeWhere(scope)
	if scope.Status == models.StatusAvailable {
		where += " AND " + enabledTenantCondition
	}

	rows, err := db.Pool.Query(ctx,
		"SELECT "+propertyColumns+" FROM properties"+where+" ORDER BY created_at DESC, id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []*models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// GetPropertyByID retrieves a property by its ID
func (db *DB) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	p, err := scanProperty(db.Pool.QueryRow(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id = $1", id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// publicPropertyByIDQuery selects one property unless its tenant is disabled
const publicPropertyByIDQuery = "SELECT " + propertyColumns + " FROM properties WHERE id = $1 AND " + enabledTenantCondition

// GetPublicPropertyByID retrieves a property for anonymous visitors. Listings
// of disabled tenants are reported as not found.
func (db *DB) GetPublicPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	p, err := scanProperty(db.Pool.QueryRow(ctx, publicPropertyByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetPropertyBySlug retrieves a property of a tenant by its public slug
func (db *DB) GetPropertyBySlug(ctx context.Context, tenantID *string, slug string) (*models.Property, error) {
	p, err := scanProperty(db.Pool.QueryRow(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE slug = $1 AND tenant_id IS NOT DISTINCT FROM $2",
		slug, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateProperty inserts a property owned by userID inside tenantID
func (db *DB) CreateProperty(ctx context.Context, tenantID, userID *string, req *models.CreatePropertyRequest) (*models.Property, error) {
	status := req.Status
	if status == "" {
		status = models.StatusAvailable
	}
	tags := nonNil(req.Tags)
	features := nonNil(req.Features)

	p, err := scanProperty(db.Pool.QueryRow(ctx, `
		INSERT INTO properties (
			id, slug, tenant_id, user_id, title, description, status, property_type, purpose,
			price, rental_price, location, city, state, area, bedrooms, bathrooms,
			tags, features, property_code,
			is_featured, is_beachfront, is_near_beach, is_development, accepts_exchange, hide_address
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING `+propertyColumns,
		uuid.NewString(), req.Slug, tenantID, userID, req.Title, req.Description, status, req.PropertyType, req.Purpose,
		req.Price, req.RentalPrice, req.Location, req.City, req.State, req.Area, req.Bedrooms, req.Bathrooms,
		tags, features, req.PropertyCode,
		req.IsFeatured, req.IsBeachfront, req.IsNearBeach, req.IsDevelopment, req.AcceptsExchange, req.HideAddress,
	))
	if err != nil {
		if isUniqueViolation(err, "properties_tenant_slug_key") {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return p, nil
}

// UpdateProperty applies the non-nil fields of req
func (db *DB) UpdateProperty(ctx context.Context, id string, req *models.UpdatePropertyRequest) (*models.Property, error) {
	p, err := scanProperty(db.Pool.QueryRow(ctx, `
		UPDATE properties
		SET slug = COALESCE($2, slug),
		    title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    status = COALESCE($5, status),
		    property_type = COALESCE($6, property_type),
		    purpose = COALESCE($7, purpose),
		    price = COALESCE($8, price),
		    rental_price = COALESCE($9, rental_price),
		    location = COALESCE($10, location),
		    city = COALESCE($11, city),
		    state = COALESCE($12, state),
		    area = COALESCE($13, area),
		    bedrooms = COALESCE($14, bedrooms),
		    bathrooms = COALESCE($15, bathrooms),
		    tags = COALESCE($16, tags),
		    features = COALESCE($17, features),
		    property_code = COALESCE($18, property_code),
		    is_featured = COALESCE($19, is_featured),
		    is_beachfront = COALESCE($20, is_beachfront),
		    is_near_beach = COALESCE($21, is_near_beach),
		    is_development = COALESCE($22, is_development),
		    accepts_exchange = COALESCE($23, accepts_exchange),
		    hide_address = COALESCE($24, hide_address),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+propertyColumns,
		id, req.Slug, req.Title, req.Description, req.Status, req.PropertyType, req.Purpose,
		req.Price, req.RentalPrice, req.Location, req.City, req.State, req.Area, req.Bedrooms, req.Bathrooms,
		req.Tags, req.Features, req.PropertyCode,
		req.IsFeatured, req.IsBeachfront, req.IsNearBeach, req.IsDevelopment, req.AcceptsExchange, req.HideAddress,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		if isUniqueViolation(err, "properties_tenant_slug_key") {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return p, nil
}

// DeleteProperty removes a property and returns its image keys for cleanup
func (db *DB) DeleteProperty(ctx context.Context, id string) ([]string, error) {
	var images []string
	err := db.Pool.QueryRow(ctx,
		"DELETE FROM properties WHERE id = $1 RETURNING images", id,
	).Scan(&images)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return images, nil
}

// AddPropertyImage appends an image reference to the property gallery
func (db *DB) AddPropertyImage(ctx context.Context, id, image string) (*models.Property, error) {
	p, err := scanProperty(db.Pool.QueryRow(ctx, `
		UPDATE properties
		SET images = array_append(images, $2), updated_at = NOW()
		WHERE id = $1
		RETURNING `+propertyColumns,
		id, image,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// RemovePropertyImage drops an image reference from the gallery
func (db *DB) RemovePropertyImage(ctx context.Context, id, image string) (*models.Property, error) {
	p, err := scanProperty(db.Pool.QueryRow(ctx, `
		UPDATE properties
		SET images = array_remove(images, $2), updated_at = NOW()
		WHERE id = $1
		RETURNING `+propertyColumns,
		id, image,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetPropertyStats aggregates listings for the back office dashboard
func (db *DB) GetPropertyStats(ctx context.Context, scope models.PropertyScope) (*models.PropertyStats, error) {
	where, args := scopeWhere(scope)
	stats := &models.PropertyStats{
		ByStatus:  make(map[string]int),
		ByPurpose: make(map[string]int),
	}

	rows, err := db.Pool.Query(ctx,
		"SELECT status, purpose, COUNT(*), COUNT(*) FILTER (WHERE is_featured) FROM properties"+where+" GROUP BY status, purpose",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get property stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, purpose string
		var count, featured int
		if err := rows.Scan(&status, &purpose, &count, &featured); err != nil {
			return nil, err
		}
		stats.Total += count
		stats.Featured += featured
		stats.ByStatus[status] += count
		stats.ByPurpose[purpose] += count
	}

	return stats, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
