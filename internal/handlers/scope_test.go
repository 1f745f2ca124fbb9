package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/vitrine/internal/models"
)

// withUser runs fn inside a request signed in as the given user
func withUser(t *testing.T, userID string, tenantID *string, role models.Role, target string, fn func(c *fiber.Ctx)) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("tenant_id", tenantID)
		c.Locals("user_role", role)
		fn(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestBackOfficeScope(t *testing.T) {
	tenant := "t-1"

	withUser(t, "u-1", &tenant, models.RoleCorretor, "/?tenant_id=t-2&status=sold", func(c *fiber.Ctx) {
		scope := backOfficeScope(c)
		require.NotNil(t, scope.TenantID)
		require.NotNil(t, scope.UserID)
		assert.Equal(t, "t-1", *scope.TenantID, "brokers cannot pick another tenant")
		assert.Equal(t, "u-1", *scope.UserID)
		assert.Equal(t, "sold", scope.Status)
	})

	withUser(t, "u-2", &tenant, models.RoleAdmin, "/", func(c *fiber.Ctx) {
		scope := backOfficeScope(c)
		require.NotNil(t, scope.TenantID)
		assert.Equal(t, "t-1", *scope.TenantID)
		assert.Nil(t, scope.UserID)
	})

	withUser(t, "root", nil, models.RoleSuperAdmin, "/", func(c *fiber.Ctx) {
		scope := backOfficeScope(c)
		assert.Nil(t, scope.TenantID)
		assert.Nil(t, scope.UserID)
	})

	withUser(t, "root", nil, models.RoleSuperAdmin, "/?tenant_id=t-2", func(c *fiber.Ctx) {
		scope := backOfficeScope(c)
		require.NotNil(t, scope.TenantID)
		assert.Equal(t, "t-2", *scope.TenantID)
	})
}

func TestCanManageProperty(t *testing.T) {
	t1, t2 := "t-1", "t-2"
	owner := "u-1"
	p := &models.Property{ID: "p1", TenantID: &t1, UserID: &owner}

	withUser(t, "u-1", &t1, models.RoleCorretor, "/", func(c *fiber.Ctx) {
		assert.True(t, canManageProperty(c, p))
	})
	withUser(t, "u-9", &t1, models.RoleCorretor, "/", func(c *fiber.Ctx) {
		assert.False(t, canManageProperty(c, p), "another broker's listing")
	})
	withUser(t, "u-2", &t1, models.RoleAdmin, "/", func(c *fiber.Ctx) {
		assert.True(t, canManageProperty(c, p))
	})
	withUser(t, "u-3", &t2, models.RoleAdmin, "/", func(c *fiber.Ctx) {
		assert.False(t, canManageProperty(c, p), "another tenant")
	})
	withUser(t, "root", nil, models.RoleSuperAdmin, "/", func(c *fiber.Ctx) {
		assert.True(t, canManageProperty(c, p))
	})
}

func TestCanManageLead(t *testing.T) {
	t1 := "t-1"
	broker := "u-1"
	lead := &models.Lead{ID: "l1", TenantID: &t1, AssignedTo: &broker}

	withUser(t, "u-1", &t1, models.RoleCorretor, "/", func(c *fiber.Ctx) {
		assert.True(t, canManageLead(c, lead))
	})
	withUser(t, "u-2", &t1, models.RoleCorretor, "/", func(c *fiber.Ctx) {
		assert.False(t, canManageLead(c, lead))
	})
	withUser(t, "u-3", &t1, models.RoleAdmin, "/", func(c *fiber.Ctx) {
		assert.True(t, canManageLead(c, lead))
	})
}

func TestVisibleOnStorefront(t *testing.T) {
	mareAlta := "t-mare"
	other := "t-other"

	owned := &models.Property{ID: "p1", TenantID: &mareAlta, Status: models.StatusAvailable}
	platform := &models.Property{ID: "p2", Status: models.StatusAvailable}
	hidden := &models.Property{ID: "p3", TenantID: &mareAlta, Status: models.StatusInactive}

	assert.True(t, visibleOnStorefront(owned, nil), "marketplace shows every tenant")
	assert.True(t, visibleOnStorefront(owned, &mareAlta))
	assert.False(t, visibleOnStorefront(owned, &other), "another storefront cannot show it")
	assert.True(t, visibleOnStorefront(platform, nil))
	assert.False(t, visibleOnStorefront(platform, &mareAlta))
	assert.False(t, visibleOnStorefront(hidden, nil))
}
