package models

import (
	"time"
)

// Integration providers a tenant can connect
const (
	ProviderOLX      = "olx"
	ProviderWhatsApp = "whatsapp"
)

// MaskedValue replaces secrets in API responses
const MaskedValue = "••••••••"

// IntegrationSetting is one credential or option of a tenant integration
type IntegrationSetting struct {
	TenantID    string    `json:"tenant_id"`
	Provider    string    `json:"provider"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	IsSensitive bool      `json:"is_sensitive"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// sensitiveIntegrationKeys are stored encrypted and masked on read
var sensitiveIntegrationKeys = map[string]map[string]bool{
	ProviderOLX:      {"client_secret": true, "access_token": true, "refresh_token": true},
	ProviderWhatsApp: {"api_token": true},
}

// integrationKeys lists the keys accepted per provider
var integrationKeys = map[string][]string{
	ProviderOLX:      {"client_id", "client_secret", "access_token", "refresh_token", "enabled"},
	ProviderWhatsApp: {"phone_number", "api_token", "default_message", "enabled"},
}

// IsKnownProvider reports whether provider can be configured
func IsKnownProvider(provider string) bool {
	_, ok := integrationKeys[provider]
	return ok
}

// IsIntegrationKey reports whether key belongs to provider
func IsIntegrationKey(provider, key string) bool {
	for _, k := range integrationKeys[provider] {
		if k == key {
			return true
		}
	}
	return false
}

// IsSensitiveIntegrationKey reports whether key must be encrypted at rest
func IsSensitiveIntegrationKey(provider, key string) bool {
	return sensitiveIntegrationKeys[provider][key]
}
