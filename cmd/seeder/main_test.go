package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/vitrine/internal/models"
	"github.com/foxxcyber/vitrine/internal/services"
)

func TestExampleSeedIsValid(t *testing.T) {
	seed, err := readSeed("seed.example.yaml")
	require.NoError(t, err)

	require.Len(t, seed.Tenants, 1)
	assert.Equal(t, "mare-alta", seed.Tenants[0].Slug)
	assert.Len(t, seed.Tenants[0].Properties, 2)
	assert.Len(t, seed.PlatformSections, 1)

	assert.NoError(t, validateSeed(seed))
}

func TestSeedSectionRequest(t *testing.T) {
	field := "is_featured"
	s := seedSection{
		Title:   "Destaques",
		Filters: []seedFilter{{Type: models.SectionFilterBoolean, Field: &field, Value: "true"}},
	}

	req := s.request()

	assert.Equal(t, services.DefaultSectionItems, req.MaxItems)
	require.Len(t, req.Filters, 1)
	assert.Equal(t, "is_featured", *req.Filters[0].Field)
}

func TestValidateSeed_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad property": `
tenants:
  - name: X
    slug: x
    properties:
      - title: Sem preço
        property_type: Casa
        purpose: sale
        city: Itajaí
`,
		"super admin in tenant": `
tenants:
  - name: X
    slug: x
    users:
      - email: a@x.com
        name: A
        password: "12345678"
        role: super_admin
`,
		"bad section": `
platform_sections:
  - title: Quartos
    filters:
      - type: bedrooms
        value: "3"
`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "seed.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			seed, err := readSeed(path)
			require.NoError(t, err)
			assert.Error(t, validateSeed(seed))
		})
	}
}
