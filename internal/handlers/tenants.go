package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/foxxcyber/vitrine/internal/contracts"
	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/filters"
	"github.com/foxxcyber/vitrine/internal/models"
)

// slugify turns a display name into a URL slug: "Imóveis Beira-Mar" becomes "imoveis-beira-mar"
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range filters.Fold(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// GetTenant returns the public profile of an enabled tenant
func (h *Handler) GetTenant(c *fiber.Ctx) error {
	tenant, err := h.db.GetTenantBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, database.ErrTenantNotFound) {
			return Error(c, fiber.StatusNotFound, "tenant not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get tenant")
	}
	if !tenant.Enabled {
		return Error(c, fiber.StatusNotFound, "tenant not found")
	}
	return Success(c, tenant)
}

// ListTenants returns every tenant
func (h *Handler) ListTenants(c *fiber.Ctx) error {
	tenants, err := h.db.ListTenants(c.Context(), c.QueryBool("enabled", false))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list tenants")
	}
	return Success(c, tenants)
}

// CreateTenant registers a new agency
func (h *Handler) CreateTenant(c *fiber.Ctx) error {
	if stop, err := validateBody(c, contracts.Tenant); stop {
		return err
	}

	var req models.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}
	if slug == "" {
		return Error(c, fiber.StatusBadRequest, "slug cannot be derived from name")
	}

	tenant, err := h.db.CreateTenant(c.Context(), strings.TrimSpace(req.Name), slug)
	if err != nil {
		if errors.Is(err, database.ErrTenantSlugExists) {
			return Error(c, fiber.StatusConflict, "slug already in use")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create tenant")
	}
	return Created(c, tenant)
}

// UpdateTenant renames or enables/disables a tenant
func (h *Handler) UpdateTenant(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return Error(c, fiber.StatusNotFound, "tenant not found")
	}

	var req models.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "name cannot be empty")
	}

	tenant, err := h.db.UpdateTenant(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrTenantNotFound) {
			return Error(c, fiber.StatusNotFound, "tenant not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update tenant")
	}

	// A disabled tenant's listings leave the marketplace pool
	if req.Enabled != nil {
		h.catalog.Invalidate(c.Context())
	}
	return Success(c, tenant)
}

// DeleteTenant removes a tenant with its users, listings and sections
func (h *Handler) DeleteTenant(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return Error(c, fiber.StatusNotFound, "tenant not found")
	}

	if err := h.db.DeleteTenant(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrTenantNotFound) {
			return Error(c, fiber.StatusNotFound, "tenant not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete tenant")
	}

	h.catalog.Invalidate(c.Context())
	return Success(c, fiber.Map{
		"message": "tenant deleted",
	})
}
