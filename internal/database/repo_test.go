package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/vitrine/internal/models"
)

func testKey() []byte {
	key := make([]byte, 32)
	copy(key, "integration-test-key")
	return key
}

func TestEncryptDecrypt(t *testing.T) {
	sealed, err := encrypt("olx-secret", testKey())
	require.NoError(t, err)
	assert.NotContains(t, sealed, "olx-secret")

	plain, err := decrypt(sealed, testKey())
	require.NoError(t, err)
	assert.Equal(t, "olx-secret", plain)
}

func TestEncrypt_NonceVaries(t *testing.T) {
	a, err := encrypt("same", testKey())
	require.NoError(t, err)
	b, err := encrypt("same", testKey())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_Failures(t *testing.T) {
	sealed, err := encrypt("token", testKey())
	require.NoError(t, err)

	other := make([]byte, 32)
	_, err = decrypt(sealed, other)
	assert.Error(t, err, "wrong key")

	_, err = decrypt("not base64!", testKey())
	assert.Error(t, err)

	_, err = decrypt("YQ==", testKey())
	assert.Error(t, err, "shorter than the nonce")
}

func TestScopeWhere(t *testing.T) {
	tenant := "t-1"
	user := "u-1"

	where, args := scopeWhere(models.PropertyScope{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = scopeWhere(models.PropertyScope{Status: models.StatusAvailable, TenantID: &tenant, UserID: &user})
	assert.Equal(t, " WHERE status = $1 AND tenant_id = $2 AND user_id = $3", where)
	assert.Equal(t, []interface{}{"available", "t-1", "u-1"}, args)

	where, args = scopeWhere(models.PropertyScope{UserID: &user})
	assert.Equal(t, " WHERE user_id = $1", where)
	assert.Equal(t, []interface{}{"u-1"}, args)
}

func TestPublicPropertyByIDQuery_HidesDisabledTenants(t *testing.T) {
	assert.Contains(t, publicPropertyByIDQuery, "WHERE id = $1 AND "+enabledTenantCondition)
	assert.Contains(t, enabledTenantCondition, "SELECT id FROM tenants WHERE enabled")
}
