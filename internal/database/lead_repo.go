package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/vitrine/internal/models"
)

var ErrLeadNotFound = errors.New("lead not found")

const leadColumns = "id, tenant_id, property_id, assigned_to, name, email, phone, message, source, status, created_at, updated_at"

func scanLead(row pgx.Row) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(
		&l.ID,
		&l.TenantID,
		&l.PropertyID,
		&l.AssignedTo,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Message,
		&l.Source,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

// CreateLead stores a contact. The lead is assigned to the owner of the
// property it was captured on, when there is one.
func (db *DB) CreateLead(ctx context.Context, tenantID *string, req *models.CreateLeadRequest) (*models.Lead, error) {
	source := req.Source
	if source == "" {
		source = "site"
	}

	l, err := scanLead(db.Pool.QueryRow(ctx, `
		INSERT INTO leads (id, tenant_id, property_id, assigned_to, name, email, phone, message, source, status)
		VALUES ($1, $2, $3,
			(SELECT user_id FROM properties WHERE id = $3),
			$4, $5, $6, $7, $8, $9)
		RETURNING `+leadColumns,
		uuid.NewString(), tenantID, req.PropertyID, req.Name, req.Email, req.Phone, req.Message, source, models.LeadNew,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return l, nil
}

// GetLead retrieves a lead by ID
func (db *DB) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	return scanLead(db.Pool.QueryRow(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE id = $1", id,
	))
}

// ListLeads returns a page of leads, newest first, and the total matching
func (db *DB) ListLeads(ctx context.Context, params models.LeadListParams) ([]*models.Lead, int, error) {
	var status *string
	if params.Status != "" {
		status = &params.Status
	}

	const where = `
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		  AND ($2::uuid IS NULL OR assigned_to = $2)
		  AND ($3::text IS NULL OR status = $3)`

	var total int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads"+where,
		params.TenantID, params.UserID, status,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx,
		"SELECT "+leadColumns+" FROM leads"+where+" ORDER BY created_at DESC LIMIT $4 OFFSET $5",
		params.TenantID, params.UserID, status, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := []*models.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}
	return leads, total, rows.Err()
}

// UpdateLeadStatus moves a lead through the sales funnel
func (db *DB) UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error) {
	return scanLead(db.Pool.QueryRow(ctx, `
		UPDATE leads SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, status,
	))
}

// GetLeadStats counts leads per status within the same visibility as ListLeads
func (db *DB) GetLeadStats(ctx context.Context, tenantID, userID *string) (*models.LeadStats, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM leads
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		  AND ($2::uuid IS NULL OR assigned_to = $2)
		GROUP BY status
	`, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.LeadStats{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, rows.Err()
}
