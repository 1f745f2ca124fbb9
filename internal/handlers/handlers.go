package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/vitrine/internal/config"
	"github.com/foxxcyber/vitrine/internal/contracts"
	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/logging"
	"github.com/foxxcyber/vitrine/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db       *database.DB
	cfg      *config.Config
	catalog  *services.CatalogService
	sections *services.SectionService
	storage  *services.StorageService
	email    *services.EmailService
	captcha  *services.CaptchaService
	encKey   []byte
}

// New creates a new Handler instance. storage and email may be nil when
// image uploads or lead notifications are not configured.
func New(db *database.DB, cfg *config.Config, catalog *services.CatalogService, sections *services.SectionService, storage *services.StorageService, email *services.EmailService) *Handler {
	return &Handler{
		db:       db,
		cfg:      cfg,
		catalog:  catalog,
		sections: sections,
		storage:  storage,
		email:    email,
		captcha:  services.NewCaptchaService(cfg.TurnstileSiteKey, cfg.TurnstileSecretKey),
		encKey:   services.DeriveEncryptionKey(cfg.JWTSecret),
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logging.FromCtx(c).Error("unhandled error", logging.Err(err))
	}

	return Error(c, code, message)
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a 201 with the created resource
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// ErrorWithData returns an error response carrying data the client needs to
// recover, such as the reconciled state after a failed write
func ErrorWithData(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
		Data:    data,
	})
}

// validateBody checks the raw request body against a JSON schema. It writes
// the 400 response itself and reports whether the handler should stop.
func validateBody(c *fiber.Ctx, schema string) (bool, error) {
	err := contracts.Validate(schema, c.Body())
	if err == nil {
		return false, nil
	}

	var verr *contracts.ValidationError
	if errors.As(err, &verr) {
		return true, ErrorWithData(c, fiber.StatusBadRequest, "validation failed", verr.Violations)
	}

	logging.FromCtx(c).Error("schema validation unavailable", logging.Err(err))
	return true, Error(c, fiber.StatusInternalServerError, "validation unavailable")
}

// pagination reads limit/offset with the given default page size
func pagination(c *fiber.Ctx, defaultLimit int) (int, int) {
	limit := c.QueryInt("limit", defaultLimit)
	offset := c.QueryInt("offset", 0)

	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// page slices an in-memory result
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
