package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/foxxcyber/vitrine/internal/contracts"
	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/models"
	"github.com/foxxcyber/vitrine/internal/sections"
	"github.com/foxxcyber/vitrine/internal/services"
)

// sectionError maps section service errors to responses
func sectionError(c *fiber.Ctx, err error) error {
	var verr *sections.ValidationError
	var rerr *services.ReorderError

	switch {
	case errors.As(err, &verr):
		return ErrorWithData(c, fiber.StatusBadRequest, verr.Error(), fiber.Map{"field": verr.Field})
	case errors.As(err, &rerr):
		logging.FromCtx(c).Warn("section order partially saved", logging.Err(err))
		if rerr.RefetchErr != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to save order, reload the page")
		}
		return ErrorWithData(c, fiber.StatusConflict, "failed to save order", rerr.Sections)
	case errors.Is(err, sections.ErrOrderMismatch), errors.Is(err, sections.ErrIndexOutOfRange):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrSectionNotFound):
		return Error(c, fiber.StatusNotFound, "section not found")
	case errors.Is(err, services.ErrSectionForbidden):
		return Error(c, fiber.StatusForbidden, "not allowed to manage this section")
	}

	logging.FromCtx(c).Error("section operation failed", logging.Err(err))
	return Error(c, fiber.StatusInternalServerError, "section operation failed")
}

func sectionID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", fiber.NewError(fiber.StatusNotFound, "section not found")
	}
	return id, nil
}

// GetHome renders the active home sections of a storefront
func (h *Handler) GetHome(c *fiber.Ctx) error {
	tenantID, err := h.publicTenant(c)
	if err != nil {
		if errors.Is(err, errTenantUnavailable) {
			return Error(c, fiber.StatusNotFound, "tenant not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load tenant")
	}

	views, err := h.sections.Home(c.Context(), tenantID)
	if err != nil {
		logging.FromCtx(c).Error("home unavailable", logging.Err(err))
		return Error(c, fiber.StatusServiceUnavailable, "home unavailable")
	}

	for i := range views {
		views[i].Properties = publicProperties(views[i].Properties)
	}
	return Success(c, views)
}

// ListSections returns every section of the managed tenant, inactive included
func (h *Handler) ListSections(c *fiber.Ctx) error {
	list, err := h.sections.List(c.Context(), managedTenant(c))
	if err != nil {
		return sectionError(c, err)
	}
	return Success(c, list)
}

// CreateSection appends a section at the end of the home page
func (h *Handler) CreateSection(c *fiber.Ctx) error {
	if stop, err := validateBody(c, contracts.HomeSection); stop {
		return err
	}

	var req models.SaveSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.sections.Create(c.Context(), managedTenant(c), &req)
	if err != nil {
		return sectionError(c, err)
	}
	return Created(c, section)
}

// UpdateSection replaces the title, filters and size of a section
func (h *Handler) UpdateSection(c *fiber.Ctx) error {
	id, err := sectionID(c)
	if err != nil {
		return err
	}
	if stop, err := validateBody(c, contracts.HomeSection); stop {
		return err
	}

	var req models.SaveSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.sections.Update(c.Context(), managedTenant(c), id, &req)
	if err != nil {
		return sectionError(c, err)
	}
	return Success(c, section)
}

type toggleSectionRequest struct {
	IsActive bool `json:"is_active"`
}

// ToggleSection shows or hides a section
func (h *Handler) ToggleSection(c *fiber.Ctx) error {
	id, err := sectionID(c)
	if err != nil {
		return err
	}

	var req toggleSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.sections.SetActive(c.Context(), managedTenant(c), id, req.IsActive)
	if err != nil {
		return sectionError(c, err)
	}
	return Success(c, section)
}

// DeleteSection removes a section
func (h *Handler) DeleteSection(c *fiber.Ctx) error {
	id, err := sectionID(c)
	if err != nil {
		return err
	}

	if err := h.sections.Delete(c.Context(), managedTenant(c), id); err != nil {
		return sectionError(c, err)
	}
	return Success(c, fiber.Map{
		"message": "section deleted",
	})
}

// ReorderSections persists a complete ordering of section ids
func (h *Handler) ReorderSections(c *fiber.Ctx) error {
	var req models.ReorderSectionsRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	list, err := h.sections.Reorder(c.Context(), managedTenant(c), req.SectionIDs)
	if err != nil {
		return sectionError(c, err)
	}
	return Success(c, list)
}

// MoveSection persists a drag-and-drop move
func (h *Handler) MoveSection(c *fiber.Ctx) error {
	var req models.MoveSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	list, err := h.sections.Move(c.Context(), managedTenant(c), req.From, req.To)
	if err != nil {
		return sectionError(c, err)
	}
	return Success(c, list)
}
