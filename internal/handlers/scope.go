package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/middleware"
	"github.com/foxxcyber/vitrine/internal/models"
)

var errTenantUnavailable = errors.New("tenant not found")

// publicTenant resolves the storefront selected by the "tenant" slug query.
// No slug means the platform-wide marketplace.
func (h *Handler) publicTenant(c *fiber.Ctx) (*string, error) {
	slug := c.Query("tenant")
	if slug == "" {
		return nil, nil
	}

	tenant, err := h.db.GetTenantBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, database.ErrTenantNotFound) {
			return nil, errTenantUnavailable
		}
		return nil, err
	}
	if !tenant.Enabled {
		return nil, errTenantUnavailable
	}
	return &tenant.ID, nil
}

// managedTenant is the tenant a back-office request acts on: the user's own
// tenant, or for super admins the optional tenant_id query (nil = platform)
func managedTenant(c *fiber.Ctx) *string {
	if middleware.GetUserRole(c) == models.RoleSuperAdmin {
		if id := c.Query("tenant_id"); id != "" {
			return &id
		}
		return nil
	}
	return middleware.GetTenantID(c)
}

// backOfficeScope limits what a signed-in user may list. Brokers see their
// own listings, admins their tenant, super admins everything or one tenant.
func backOfficeScope(c *fiber.Ctx) models.PropertyScope {
	scope := models.PropertyScope{
		Status:   c.Query("status"),
		TenantID: managedTenant(c),
	}
	if middleware.GetUserRole(c) == models.RoleCorretor {
		userID := middleware.GetUserID(c)
		scope.UserID = &userID
	}
	return scope
}

// canManageProperty applies the same rule as backOfficeScope to one property
func canManageProperty(c *fiber.Ctx, p *models.Property) bool {
	switch middleware.GetUserRole(c) {
	case models.RoleSuperAdmin:
		return true
	case models.RoleAdmin:
		return sameID(p.TenantID, middleware.GetTenantID(c))
	case models.RoleCorretor:
		return p.UserID != nil && *p.UserID == middleware.GetUserID(c) &&
			sameID(p.TenantID, middleware.GetTenantID(c))
	}
	return false
}

// canManageLead lets admins see their tenant's leads and brokers the leads
// assigned to them
func canManageLead(c *fiber.Ctx, l *models.Lead) bool {
	switch middleware.GetUserRole(c) {
	case models.RoleSuperAdmin:
		return true
	case models.RoleAdmin:
		return sameID(l.TenantID, middleware.GetTenantID(c))
	case models.RoleCorretor:
		return l.AssignedTo != nil && *l.AssignedTo == middleware.GetUserID(c)
	}
	return false
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
