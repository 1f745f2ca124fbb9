package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/vitrine/internal/database"
	"github.com/foxxcyber/vitrine/internal/middleware"
	"github.com/foxxcyber/vitrine/internal/models"
)

// AdminCreateUser creates a back-office account. Tenant admins may only add
// brokers and admins to their own tenant.
func (h *Handler) AdminCreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		return Error(c, fiber.StatusBadRequest, "email is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if len(req.Password) < minPasswordLength {
		return Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	if req.Role == "" {
		req.Role = models.RoleCorretor
	}
	if !req.Role.Valid() {
		return Error(c, fiber.StatusBadRequest, "invalid role")
	}

	if middleware.GetUserRole(c) != models.RoleSuperAdmin {
		if req.Role == models.RoleSuperAdmin {
			return Error(c, fiber.StatusForbidden, "cannot create super admins")
		}
		req.TenantID = middleware.GetTenantID(c)
	}
	if req.Role != models.RoleSuperAdmin && req.TenantID == nil {
		return Error(c, fiber.StatusBadRequest, "tenant_id is required")
	}
	if req.Role == models.RoleSuperAdmin {
		req.TenantID = nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	user, err := h.db.CreateUser(c.Context(), &req, string(hashedPassword))
	if err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			return Error(c, fiber.StatusConflict, "email already in use")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create user")
	}

	return Created(c, user)
}

// AdminListUsers returns a paginated list of the users the caller manages
func (h *Handler) AdminListUsers(c *fiber.Ctx) error {
	limit, offset := pagination(c, 20)

	users, total, err := h.db.ListUsers(c.Context(), managedTenant(c), limit, offset)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return SuccessWithMeta(c, users, total, limit, offset)
}

// AdminDeleteUser deletes a user. Their listings stay with the tenant.
func (h *Handler) AdminDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return Error(c, fiber.StatusNotFound, "user not found")
	}
	if id == middleware.GetUserID(c) {
		return Error(c, fiber.StatusBadRequest, "cannot delete your own account")
	}

	user, err := h.db.GetUserByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get user")
	}

	if middleware.GetUserRole(c) != models.RoleSuperAdmin &&
		(user.IsSuperAdmin() || !sameID(user.TenantID, middleware.GetTenantID(c))) {
		return Error(c, fiber.StatusForbidden, "not allowed to delete this user")
	}

	if err := h.db.DeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete user")
	}

	return Success(c, fiber.Map{
		"message": "user deleted successfully",
	})
}
