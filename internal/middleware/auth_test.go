package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/vitrine/internal/config"
	"github.com/foxxcyber/vitrine/internal/models"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims *JWTClaims, secret string) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	cfg := &config.Config{JWTSecret: testSecret}

	chain := append([]fiber.Handler{AuthRequired(cfg)}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		tenant := "none"
		if id := GetTenantID(c); id != nil {
			tenant = *id
		}
		return c.SendString(GetUserID(c) + "|" + tenant + "|" + string(GetUserRole(c)))
	})
	app.Get("/", chain...)
	return app
}

func get(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	tenant := "t-1"
	app := newApp()

	status, body := get(t, app, signed(t, &JWTClaims{UserID: "u-1", TenantID: &tenant, Role: models.RoleCorretor}, testSecret))
	assert.Equal(t, 200, status)
	assert.Equal(t, "u-1|t-1|corretor", body)

	status, _ = get(t, app, "")
	assert.Equal(t, 401, status)

	status, _ = get(t, app, signed(t, &JWTClaims{UserID: "u-1"}, "other-secret"))
	assert.Equal(t, 401, status)

	expired := &JWTClaims{UserID: "u-1"}
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	status, _ = get(t, app, signed(t, expired, testSecret))
	assert.Equal(t, 401, status)

	status, _ = get(t, app, signed(t, &JWTClaims{Role: models.RoleAdmin}, testSecret))
	assert.Equal(t, 401, status, "a token without a subject is rejected")
}

func TestAuthRequired_RejectsNonBearer(t *testing.T) {
	app := newApp()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRoleRequired(t *testing.T) {
	tests := []struct {
		name  string
		guard fiber.Handler
		role  models.Role
		want  int
	}{
		{"admin passes admin guard", AdminRequired(), models.RoleAdmin, 200},
		{"super admin passes admin guard", AdminRequired(), models.RoleSuperAdmin, 200},
		{"corretor blocked by admin guard", AdminRequired(), models.RoleCorretor, 403},
		{"admin blocked by super admin guard", SuperAdminRequired(), models.RoleAdmin, 403},
		{"super admin passes super admin guard", SuperAdminRequired(), models.RoleSuperAdmin, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(tt.guard)
			status, _ := get(t, app, signed(t, &JWTClaims{UserID: "u-1", Role: tt.role}, testSecret))
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestAuthOptional(t *testing.T) {
	app := fiber.New()
	app.Get("/", AuthOptional(&config.Config{JWTSecret: testSecret}), func(c *fiber.Ctx) error {
		return c.SendString("user=" + GetUserID(c))
	})

	status, body := get(t, app, "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "user=", body)

	status, body = get(t, app, "garbage")
	assert.Equal(t, 200, status)
	assert.Equal(t, "user=", body)

	status, body = get(t, app, signed(t, &JWTClaims{UserID: "u-9", Role: models.RoleCorretor}, testSecret))
	assert.Equal(t, 200, status)
	assert.Equal(t, "user=u-9", body)
}
