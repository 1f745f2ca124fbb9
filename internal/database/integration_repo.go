package database

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/foxxcyber/vitrine/internal/models"
)

var ErrUnknownIntegration = errors.New("unknown integration provider or key")

// encrypt seals a value with AES-GCM; the nonce is prepended to the ciphertext
func encrypt(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt opens a value produced by encrypt
func decrypt(ciphertext string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// GetIntegrationSettings returns the stored settings of one provider for a
// tenant. Sensitive values are decrypted, then masked unless reveal is set.
func (db *DB) GetIntegrationSettings(ctx context.Context, tenantID, provider string, encryptionKey []byte, reveal bool) ([]models.IntegrationSetting, error) {
	if !models.IsKnownProvider(provider) {
		return nil, ErrUnknownIntegration
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT tenant_id, provider, key, value, is_sensitive, updated_at
		FROM tenant_integrations
		WHERE tenant_id = $1 AND provider = $2
		ORDER BY key
	`, tenantID, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to get integration settings: %w", err)
	}
	defer rows.Close()

	settings := []models.IntegrationSetting{}
	for rows.Next() {
		var s models.IntegrationSetting
		if err := rows.Scan(&s.TenantID, &s.Provider, &s.Key, &s.Value, &s.IsSensitive, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan integration setting: %w", err)
		}

		if s.IsSensitive && s.Value != "" {
			if !reveal {
				s.Value = models.MaskedValue
			} else if plain, err := decrypt(s.Value, encryptionKey); err == nil {
				s.Value = plain
			} else {
				s.Value = ""
			}
		}

		settings = append(settings, s)
	}

	return settings, rows.Err()
}

// SetIntegrationSettings upserts provider settings for a tenant. A masked
// value means the client echoed back what it was shown and is left unchanged.
func (db *DB) SetIntegrationSettings(ctx context.Context, tenantID, provider string, values map[string]string, encryptionKey []byte) error {
	for key := range values {
		if !models.IsIntegrationKey(provider, key) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownIntegration, provider, key)
		}
	}

	for key, value := range values {
		if value == models.MaskedValue {
			continue
		}

		sensitive := models.IsSensitiveIntegrationKey(provider, key)
		stored := value
		if sensitive && value != "" {
			encrypted, err := encrypt(value, encryptionKey)
			if err != nil {
				return fmt.Errorf("failed to encrypt %s: %w", key, err)
			}
			stored = encrypted
		}

		_, err := db.Pool.Exec(ctx, `
			INSERT INTO tenant_integrations (tenant_id, provider, key, value, is_sensitive, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (tenant_id, provider, key) DO UPDATE SET
				value = EXCLUDED.value,
				is_sensitive = EXCLUDED.is_sensitive,
				updated_at = NOW()
		`, tenantID, provider, key, stored, sensitive)
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// DeleteIntegration removes every stored setting of a provider for a tenant
func (db *DB) DeleteIntegration(ctx context.Context, tenantID, provider string) error {
	if !models.IsKnownProvider(provider) {
		return ErrUnknownIntegration
	}
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM tenant_integrations WHERE tenant_id = $1 AND provider = $2`,
		tenantID, provider,
	)
	return err
}
