package handlers

import (
	"errors"
	"strings"
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

const (
	maxImageSize  = 10 * 1024 * 1024
	imageURLTTL   = time.Hour
	imageRoute    = "/api/images/"
	defaultListed = 24
)

// isExternalImage reports whether an image reference is a full URL rather
// than an object key in our bucket
func isExternalImage(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// publicProperty prepares a property for anonymous visitors
func publicProperty(p *models.Property) *models.Property {
	view := p.PublicView()
	images := make([]string, len(p.Images))
	for i, ref := range p.Images {
		if isExternalImage(ref) {
			images[i] = ref
		} else {
			images[i] = imageRoute + ref
		}
	}
	view.Images = images
	return view
}

func publicProperties(props []*models.Property) []*models.Property {
	out := make([]*models.Property, len(props))
	for i, p := range props {
		out[i] = publicProperty(p)
	}
	return out
}

// visibleOnStorefront reports whether a public page may show p. A tenant
// storefront only shows its own listings; the platform marketplace shows any.
func visibleOnStorefront(p *models.Property, storefront *string) bool {
	if p.Status == models.StatusInactive {
		return false
	}
	return storefront == nil || sameID(p.TenantID, storefront)
}

// ListProperties returns the public listing filtered by the query string
func (h *Handler) ListProperties(c *fiber.Ctx) error {
	tenantID, err := h.publicTenant(c)
	if err != nil {
		if errors.Is(err, errTenantUnavailable) {
			return Error(c, fiber.StatusNotFound, "tenant not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load tenant")
	}

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	scope := models.PropertyScope{Status: models.StatusAvailable, TenantID: tenantID}
	results, err := h.catalog.Search(c.Context(), scope, criteria)
	if err != nil {
		return Error(c, fiber.StatusServiceUnavailable, "listings unavailable")
	}

	limit, offset := pagination(c, defaultListed)
	return SuccessWithMeta(c, publicProperties(page(results, limit, offset)), len(results), limit, offset)
}

// GetProperty returns one public property by id or by slug
func (h *Handler) GetProperty(c *fiber.Ctx) error {
	ref := c.Params("ref")

	tenantID, err := h.publicTenant(c)

	var p *models.Property
	if err == nil {
		if _, perr := uuid.Parse(ref); perr == nil {
			p, err = h.db.GetPublicPropertyByID(c.Context(), ref)
		} else {
			p, err = h.db.GetPropertyBySlug(c.Context(), tenantID, ref)
		}
	}
	if err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) || errors.Is(err, errTenantUnavailable) {
			return Error(c, fiber.StatusNotFound, "property not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get property")
	}

	if !visibleOnStorefront(p, tenantID) {
		return Error(c, fiber.StatusNotFound, "property not found")
	}

	return Success(c, publicProperty(p))
}

// AdminListProperties returns the back-office listing for the caller's scope
func (h *Handler) AdminListProperties(c *fiber.Ctx) error {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	results, err := h.catalog.Search(c.Context(), backOfficeScope(c), criteria)
	if err != nil {
		return Error(c, fiber.StatusServiceUnavailable, "listings unavailable")
	}

	limit, offset := pagination(c, 50)
	return SuccessWithMeta(c, page(results, limit, offset), len(results), limit, offset)
}

// AdminGetProperty returns a property the caller may manage
func (h *Handler) AdminGetProperty(c *fiber.Ctx) error {
	p, err := h.managedProperty(c)
	if err != nil {
		return err
	}
	return Success(c, p)
}

// CreateProperty creates a listing owned by the caller
func (h *Handler) CreateProperty(c *fiber.Ctx) error {
	if stop, err := validateBody(c, contracts.Property); stop {
		return err
	}

	var req models.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Slug == nil || *req.Slug == "" {
		slug := slugify(req.Title)
		req.Slug = &slug
	}

	userID := middleware.GetUserID(c)
	p, err := h.db.CreateProperty(c.Context(), managedTenant(c), &userID, &req)
	if err != nil {
		if errors.Is(err, database.ErrSlugExists) {
			return Error(c, fiber.StatusConflict, "slug already in use")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create property")
	}

	h.catalog.Invalidate(c.Context())
	return Created(c, p)
}

// UpdateProperty applies a partial update
func (h *Handler) UpdateProperty(c *fiber.Ctx) error {
	current, err := h.managedProperty(c)
	if err != nil {
		return err
	}

	var req models.UpdatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := checkPropertyUpdate(&req); msg != "" {
		return Error(c, fiber.StatusBadRequest, msg)
	}

	p, err := h.db.UpdateProperty(c.Context(), current.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrPropertyNotFound):
			return Error(c, fiber.StatusNotFound, "property not found")
		case errors.Is(err, database.ErrSlugExists):
			return Error(c, fiber.StatusConflict, "slug already in use")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update property")
	}

	h.catalog.Invalidate(c.Context())
	return Success(c, p)
}

// checkPropertyUpdate validates the fields a partial update may carry
func checkPropertyUpdate(req *models.UpdatePropertyRequest) string {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return "title cannot be empty"
	}
	if req.Status != nil {
		switch *req.Status {
		case models.StatusAvailable, models.StatusReserved, models.StatusSold, models.StatusRented, models.StatusInactive:
		default:
			return "invalid status"
		}
	}
	if req.Purpose != nil {
		switch *req.Purpose {
		case models.PurposeSale, models.PurposeRent, models.PurposeRentAnnual, models.PurposeRentSeasonal, models.PurposeBoth:
		default:
			return "invalid purpose"
		}
	}
	if (req.Price != nil && *req.Price < 0) || (req.RentalPrice != nil && *req.RentalPrice < 0) {
		return "price cannot be negative"
	}
	if req.Area != nil && *req.Area < 0 {
		return "area cannot be negative"
	}
	if (req.Bedrooms != nil && *req.Bedrooms < 0) || (req.Bathrooms != nil && *req.Bathrooms < 0) {
		return "room counts cannot be negative"
	}
	return ""
}

// DeleteProperty removes a listing and its stored images
func (h *Handler) DeleteProperty(c *fiber.Ctx) error {
	current, err := h.managedProperty(c)
	if err != nil {
		return err
	}

	images, err := h.db.DeleteProperty(c.Context(), current.ID)
	if err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) {
			return Error(c, fiber.StatusNotFound, "property not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete property")
	}

	h.catalog.Invalidate(c.Context())

	if h.storage != nil {
		var keys []string
		for _, ref := range images {
			if !isExternalImage(ref) {
				keys = append(keys, ref)
			}
		}
		if len(keys) > 0 {
			if err := h.storage.DeleteMultiple(c.Context(), keys); err != nil {
				logging.FromCtx(c).Warn("failed to delete property images", "property_id", current.ID, logging.Err(err))
			}
		}
	}

	return Success(c, fiber.Map{
		"message": "property deleted",
	})
}

// UploadPropertyImage stores an image and appends it to the gallery
func (h *Handler) UploadPropertyImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "image storage not configured")
	}

	current, err := h.managedProperty(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	contentType := file.Header.Get("Content-Type")
	if _, ok := services.AllowedImageTypes[contentType]; !ok {
		return Error(c, fiber.StatusBadRequest, "invalid file type, allowed: JPEG, PNG, WebP")
	}
	if file.Size > maxImageSize {
		return Error(c, fiber.StatusBadRequest, "file too large, maximum 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	key, err := h.storage.UploadImage(c.Context(), current.ID, src, file.Size, contentType)
	if err != nil {
		logging.FromCtx(c).Error("image upload failed", "property_id", current.ID, logging.Err(err))
		return Error(c, fiber.StatusBadGateway, "failed to store image")
	}

	p, err := h.db.AddPropertyImage(c.Context(), current.ID, key)
	if err != nil {
		_ = h.storage.Delete(c.Context(), key)
		return Error(c, fiber.StatusInternalServerError, "failed to attach image")
	}

	h.catalog.Invalidate(c.Context())
	return Created(c, p)
}

type removeImageRequest struct {
	Image string `json:"image"`
}

// DeletePropertyImage detaches an image and removes the stored object
func (h *Handler) DeletePropertyImage(c *fiber.Ctx) error {
	current, err := h.managedProperty(c)
	if err != nil {
		return err
	}

	var req removeImageRequest
	if err := c.BodyParser(&req); err != nil || req.Image == "" {
		return Error(c, fiber.StatusBadRequest, "image is required")
	}
	ref := strings.TrimPrefix(req.Image, imageRoute)

	p, err := h.db.RemovePropertyImage(c.Context(), current.ID, ref)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to detach image")
	}

	if h.storage != nil && !isExternalImage(ref) {
		if err := h.storage.Delete(c.Context(), ref); err != nil {
			logging.FromCtx(c).Warn("failed to delete image object", "key", ref, logging.Err(err))
		}
	}

	h.catalog.Invalidate(c.Context())
	return Success(c, p)
}

// ServeImage redirects to the stored object
func (h *Handler) ServeImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusNotFound, "image not found")
	}

	key := c.Params("*")
	if !strings.HasPrefix(key, "properties/") || strings.Contains(key, "..") {
		return Error(c, fiber.StatusNotFound, "image not found")
	}

	url, err := h.storage.URL(c.Context(), key, imageURLTTL)
	if err != nil {
		return Error(c, fiber.StatusBadGateway, "image unavailable")
	}

	return c.Redirect(url, fiber.StatusFound)
}

// AdminGetStats returns listing and lead counts for the caller's scope
func (h *Handler) AdminGetStats(c *fiber.Ctx) error {
	scope := backOfficeScope(c)
	scope.Status = ""

	properties, err := h.db.GetPropertyStats(c.Context(), scope)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get stats")
	}

	leads, err := h.db.GetLeadStats(c.Context(), scope.TenantID, scope.UserID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get stats")
	}

	return Success(c, fiber.Map{
		"properties": properties,
		"leads":      leads,
	})
}

// managedProperty loads the :id property and checks the caller may manage it.
// Failures are *fiber.Error values rendered by ErrorHandler.
func (h *Handler) managedProperty(c *fiber.Ctx) (*models.Property, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "property not found")
	}

	p, err := h.db.GetPropertyByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "property not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to get property")
	}
	if !canManageProperty(c, p) {
		return nil, fiber.NewError(fiber.StatusForbidden, "not allowed to manage this property")
	}
	return p, nil
}
