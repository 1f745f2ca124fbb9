package filters

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPatch_DoesNotMutateState(t *testing.T) {
	state := ApplyPatch(Default(), Patch{Tags: tagsPtr("piscina")})
	snapshot := ApplyPatch(state, Patch{})

	next := ApplyPatch(state, Patch{
		Search:   strPtr("cobertura"),
		PriceMax: floatPtr(900000),
		Tags:     tagsPtr("vista mar"),
	})
	next.Tags[0] = "changed"

	assert.Equal(t, snapshot, state)
	assert.Equal(t, "cobertura", next.Search)
	assert.Equal(t, float64(900000), next.PriceMax)
}

func TestApplyPatch_NilFieldsKeepValues(t *testing.T) {
	state := ApplyPatch(Default(), Patch{
		City:       strPtr("Itajaí"),
		Bedrooms:   strPtr("2"),
		IsFeatured: boolPtr(true),
	})

	next := ApplyPatch(state, Patch{Purpose: strPtr("rent")})

	assert.Equal(t, "Itajaí", next.City)
	assert.Equal(t, "2", next.Bedrooms)
	assert.True(t, next.IsFeatured)
	assert.Equal(t, "rent", next.Purpose)
}

func TestApplyPatch_ClearAfterEdits(t *testing.T) {
	edited := ApplyPatch(Default(), Patch{
		PriceMin:        floatPtr(1000),
		PriceMax:        floatPtr(5000),
		AreaMax:         floatPtr(120),
		Tags:            tagsPtr("destaque"),
		AcceptsExchange: boolPtr(true),
	})

	assert.NotEqual(t, Default(), edited)
	assert.Equal(t, Default(), Clear())
}

func TestFold(t *testing.T) {
	assert.Equal(t, "lancamento", Fold("Lançamento"))
	assert.Equal(t, "balneario camboriu", Fold("Balneário Camboriú"))
	assert.Equal(t, "sao jose", Fold("SÃO JOSÉ"))
}

func TestFold_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.Equal(t, "lancamento", Fold("Lançamento"))
				assert.Equal(t, "itajai", Fold("Itajaí"))
			}
		}()
	}
	wg.Wait()
}

func TestFold_PlainLowerUnchanged(t *testing.T) {
	assert.Equal(t, "frente mar", Fold("frente mar"))
	assert.Equal(t, "", Fold(""))
}

func TestParseIntPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"4+", 4, true},
		{"-1", -1, true},
		{"+2", 2, true},
		{"", 0, false},
		{"abc", 0, false},
		{"+", 0, false},
		{"99999999999999999999", math.MaxInt32, true},
		{"-99999999999999999999", -math.MaxInt32, true},
	}

	for _, tt := range tests {
		got, ok := parseIntPrefix(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
