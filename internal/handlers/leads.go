package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/foxxcyber/vitrine/internal/contracts"
	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/middleware"
	"github.com/foxxcyber/vitrine/internal/models"
	"github.com/foxxcyber/vitrine/internal/services"
)

// CreateLead captures a contact request from the public site. A lead about a
// property belongs to that property's tenant and is assigned to its broker.
func (h *Handler) CreateLead(c *fiber.Ctx) error {
	if stop, err := validateBody(c, contracts.Lead); stop {
		return err
	}

	var req models.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.captcha.Verify(c.Context(), req.CaptchaToken, c.IP()); err != nil {
		if errors.Is(err, services.ErrCaptchaFailed) {
			return Error(c, fiber.StatusBadRequest, "captcha verification failed")
		}
		logging.FromCtx(c).Error("captcha verification unavailable", logging.Err(err))
		return Error(c, fiber.StatusServiceUnavailable, "captcha verification unavailable")
	}

	var tenantID *string
	var property *models.Property
	if req.PropertyID != nil {
		p, err := h.db.GetPublicPropertyByID(c.Context(), *req.PropertyID)
		if err != nil {
			if errors.Is(err, database.ErrPropertyNotFound) {
				return Error(c, fiber.StatusNotFound, "property not found")
			}
			return Error(c, fiber.StatusInternalServerError, "failed to record lead")
		}
		tenantID = p.TenantID
		property = p
	} else {
		var err error
		tenantID, err = h.publicTenant(c)
		if err != nil {
			if errors.Is(err, errTenantUnavailable) {
				return Error(c, fiber.StatusNotFound, "tenant not found")
			}
			return Error(c, fiber.StatusInternalServerError, "failed to record lead")
		}
	}

	lead, err := h.db.CreateLead(c.Context(), tenantID, &req)
	if err != nil {
		logging.FromCtx(c).Error("failed to record lead", logging.Err(err))
		return Error(c, fiber.StatusInternalServerError, "failed to record lead")
	}

	logger := logging.FromCtx(c)
	logger.Info("lead captured", "lead_id", lead.ID, "source", lead.Source)

	if h.email != nil && lead.AssignedTo != nil {
		go h.notifyBroker(logger, *lead.AssignedTo, lead, property)
	}

	return Created(c, fiber.Map{
		"id": lead.ID,
	})
}

// notifyBroker emails the assigned broker. It runs after the response is
// sent, so it must not touch the fiber context.
func (h *Handler) notifyBroker(logger *slog.Logger, brokerID string, lead *models.Lead, property *models.Property) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	broker, err := h.db.GetUserByID(ctx, brokerID)
	if err != nil {
		logger.Warn("lead notification skipped", "lead_id", lead.ID, logging.Err(err))
		return
	}

	if err := h.email.NotifyLead(broker.Email, lead, property); err != nil {
		logger.Warn("lead notification failed", "lead_id", lead.ID, logging.Err(err))
		return
	}
	logger.Info("lead notification sent", "lead_id", lead.ID)
}

// GetCaptchaConfig returns what the public site needs to render the captcha
func (h *Handler) GetCaptchaConfig(c *fiber.Ctx) error {
	return Success(c, h.captcha.Config())
}

// ListLeads returns the leads visible to the caller
func (h *Handler) ListLeads(c *fiber.Ctx) error {
	limit, offset := pagination(c, 20)

	params := models.LeadListParams{
		Limit:    limit,
		Offset:   offset,
		Status:   c.Query("status"),
		TenantID: managedTenant(c),
	}
	if params.Status != "" && !models.LeadStatus(params.Status).Valid() {
		return Error(c, fiber.StatusBadRequest, "invalid status")
	}
	if middleware.GetUserRole(c) == models.RoleCorretor {
		userID := middleware.GetUserID(c)
		params.UserID = &userID
	}

	leads, total, err := h.db.ListLeads(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list leads")
	}

	return SuccessWithMeta(c, leads, total, limit, offset)
}

type leadStatusRequest struct {
	Status models.LeadStatus `json:"status"`
}

// UpdateLeadStatus moves a lead through the follow-up pipeline
func (h *Handler) UpdateLeadStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return Error(c, fiber.StatusNotFound, "lead not found")
	}

	var req leadStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Status.Valid() {
		return Error(c, fiber.StatusBadRequest, "invalid status")
	}

	current, err := h.db.GetLead(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrLeadNotFound) {
			return Error(c, fiber.StatusNotFound, "lead not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get lead")
	}
	if !canManageLead(c, current) {
		return Error(c, fiber.StatusForbidden, "not allowed to manage this lead")
	}

	lead, err := h.db.UpdateLeadStatus(c.Context(), id, req.Status)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to update lead")
	}
	return Success(c, lead)
}
