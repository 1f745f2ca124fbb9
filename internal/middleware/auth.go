package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/foxxcyber/vitrine/internal/config"
	"github.com/foxxcyber/vitrine/internal/models"
)

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	UserID   string      `json:"user_id"`
	TenantID *string     `json:"tenant_id,omitempty"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token claims")

// ParseToken validates a signed token and returns its claims
func ParseToken(tokenString, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

func setClaims(c *fiber.Ctx, claims *JWTClaims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("tenant_id", claims.TenantID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// AuthRequired middleware checks for a valid JWT token
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "missing authorization header")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "invalid authorization format")
		}

		claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "), cfg.JWTSecret)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// AuthOptional parses a token when present so public endpoints can tell a
// signed-in broker from a visitor. Bad tokens are ignored.
func AuthOptional(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		if claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "), cfg.JWTSecret); err == nil {
			setClaims(c, claims)
		}
		return c.Next()
	}
}

// RoleRequired lets the request through only for the given roles
func RoleRequired(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(models.Role)
		if !ok {
			return unauthorized(c, "unauthorized")
		}

		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "insufficient permissions",
		})
	}
}

// AdminRequired allows tenant admins and super admins
func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin, models.RoleSuperAdmin)
}

// SuperAdminRequired allows platform operators only
func SuperAdminRequired() fiber.Handler {
	return RoleRequired(models.RoleSuperAdmin)
}

// GetUserID extracts the user ID from the context
func GetUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// GetTenantID extracts the tenant of the signed-in user; nil for super admins
func GetTenantID(c *fiber.Ctx) *string {
	if id, ok := c.Locals("tenant_id").(*string); ok {
		return id
	}
	return nil
}

// GetUserRole extracts the user role from the context
func GetUserRole(c *fiber.Ctx) models.Role {
	if role, ok := c.Locals("user_role").(models.Role); ok {
		return role
	}
	return ""
}

// GetUserEmail extracts the user email from the context
func GetUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("user_email").(string); ok {
		return email
	}
	return ""
}
