package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/middleware"
	"github.com/foxxcyber/vitrine/internal/models"
)

// integrationTarget reads the :provider param and the tenant it applies to
func integrationTarget(c *fiber.Ctx) (string, string, error) {
	provider := c.Params("provider")
	if !models.IsKnownProvider(provider) {
		return "", "", fiber.NewError(fiber.StatusNotFound, "unknown integration")
	}

	tenantID := managedTenant(c)
	if tenantID == nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "tenant_id is required")
	}
	return provider, *tenantID, nil
}

// GetIntegration returns the settings of one provider. Secrets are masked
// unless a super admin asks for reveal=true.
func (h *Handler) GetIntegration(c *fiber.Ctx) error {
	provider, tenantID, err := integrationTarget(c)
	if err != nil {
		return err
	}

	reveal := c.QueryBool("reveal", false) && middleware.GetUserRole(c) == models.RoleSuperAdmin

	settings, err := h.db.GetIntegrationSettings(c.Context(), tenantID, provider, h.encKey, reveal)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get integration")
	}
	return Success(c, settings)
}

type updateIntegrationRequest struct {
	Settings map[string]interface{} `json:"settings"`
}

// UpdateIntegration stores provider settings. Masked values are left as they were.
func (h *Handler) UpdateIntegration(c *fiber.Ctx) error {
	provider, tenantID, err := integrationTarget(c)
	if err != nil {
		return err
	}

	var req updateIntegrationRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	values := make(map[string]string, len(req.Settings))
	for key, value := range req.Settings {
		if !models.IsIntegrationKey(provider, key) {
			return Error(c, fiber.StatusBadRequest, "unknown setting: "+key)
		}
		switch v := value.(type) {
		case string:
			values[key] = v
		case float64:
			values[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			values[key] = strconv.FormatBool(v)
		default:
			values[key] = fmt.Sprintf("%v", v)
		}
	}

	if err := h.db.SetIntegrationSettings(c.Context(), tenantID, provider, values, h.encKey); err != nil {
		logging.FromCtx(c).Error("failed to save integration", "provider", provider, logging.Err(err))
		return Error(c, fiber.StatusInternalServerError, "failed to save integration")
	}

	settings, err := h.db.GetIntegrationSettings(c.Context(), tenantID, provider, h.encKey, false)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get integration")
	}
	return Success(c, settings)
}

// DeleteIntegration disconnects a provider
func (h *Handler) DeleteIntegration(c *fiber.Ctx) error {
	provider, tenantID, err := integrationTarget(c)
	if err != nil {
		return err
	}

	if err := h.db.DeleteIntegration(c.Context(), tenantID, provider); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete integration")
	}
	return Success(c, fiber.Map{
		"message": "integration removed",
	})
}
