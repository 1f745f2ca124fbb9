package filters

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/vitrine/internal/models"
)

func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
func boolPtr(b bool) *bool          { return &b }
func tagsPtr(t ...string) *[]string { return &t }

func ids(props []*models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func sampleProperty(id string) *models.Property {
	return &models.Property{
		ID:           id,
		Title:        "Apartamento " + id,
		Status:       models.StatusAvailable,
		PropertyType: "Apartamento",
		Purpose:      models.PurposeSale,
		Price:        450000,
		Location:     "Rua das Flores, Centro",
		City:         "Balneário Camboriú",
		State:        "SC",
		Area:         90,
		Bedrooms:     2,
		Bathrooms:    1,
		Tags:         []string{},
	}
}

func TestFilter_DefaultCriteriaIsIdentity(t *testing.T) {
	props := []*models.Property{
		sampleProperty("a"),
		{ID: "b", Price: 0, Area: 0},
		{ID: "c", Price: 250000000, Area: 15000, Purpose: models.PurposeRent, RentalPrice: floatPtr(9000)},
	}

	got := Filter(props, Clear())

	assert.Equal(t, props, got)
}

func TestClear_RestoresSentinelBounds(t *testing.T) {
	c := Clear()

	assert.Equal(t, float64(0), c.PriceMin)
	assert.Equal(t, float64(100000000), c.PriceMax)
	assert.Equal(t, float64(0), c.AreaMin)
	assert.Equal(t, float64(2000), c.AreaMax)
	assert.Equal(t, "any", c.Bedrooms)
	assert.Equal(t, "any", c.Bathrooms)
	assert.Empty(t, c.Tags)
	assert.NotNil(t, c.Tags)
	assert.Equal(t, Default(), c)
}

func TestFilter_Search(t *testing.T) {
	withCode := sampleProperty("coded")
	withCode.Title = "Casa térrea"
	withCode.PropertyCode = strPtr("VT-0042")
	byLocation := sampleProperty("located")
	byLocation.Title = "Sobrado"
	byLocation.Location = "Avenida Atlântica, Barra Sul"
	props := []*models.Property{sampleProperty("plain"), withCode, byLocation}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"title substring", "apartamento", []string{"plain"}},
		{"case insensitive", "CASA", []string{"coded"}},
		{"location", "barra sul", []string{"located"}},
		{"property code", "vt-0042", []string{"coded"}},
		{"trimmed", "   sobrado  ", []string{"located"}},
		{"whitespace only is a no-op", "   ", []string{"plain", "coded", "located"}},
		{"no match", "cobertura", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ApplyPatch(Default(), Patch{Search: strPtr(tt.search)})
			assert.Equal(t, tt.want, ids(Filter(props, c)))
		})
	}
}

func TestFilter_Type(t *testing.T) {
	apt := sampleProperty("apt")
	apt.PropertyType = "Apartamento Garden"
	house := sampleProperty("house")
	house.PropertyType = "casa"
	props := []*models.Property{apt, house}

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"exact", "casa", []string{"house"}},
		{"property contains filter", "apartamento", []string{"apt"}},
		{"filter containing property does not match", "casa de praia", []string{}},
		{"all is a no-op", "all", []string{"apt", "house"}},
		{"empty is a no-op", "", []string{"apt", "house"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ApplyPatch(Default(), Patch{Type: strPtr(tt.value)})
			assert.Equal(t, tt.want, ids(Filter(props, c)))
		})
	}
}

func TestFilter_PurposeIsExact(t *testing.T) {
	sale := sampleProperty("sale")
	rentAnnual := sampleProperty("annual")
	rentAnnual.Purpose = models.PurposeRentAnnual
	props := []*models.Property{sale, rentAnnual}

	c := ApplyPatch(Default(), Patch{Purpose: strPtr("RENT")})
	assert.Empty(t, Filter(props, c), "purpose must not fall back to substring matching")

	c = ApplyPatch(Default(), Patch{Purpose: strPtr("Rent_Annual")})
	assert.Equal(t, []string{"annual"}, ids(Filter(props, c)))
}

func TestFilter_CityMatchesCityOrLocation(t *testing.T) {
	inCity := sampleProperty("city")
	inCity.City = "Itapema"
	inLocation := sampleProperty("location")
	inLocation.City = ""
	inLocation.Location = "Meia Praia, Itapema"
	elsewhere := sampleProperty("elsewhere")
	props := []*models.Property{inCity, inLocation, elsewhere}

	c := ApplyPatch(Default(), Patch{City: strPtr("itapema")})

	assert.Equal(t, []string{"city", "location"}, ids(Filter(props, c)))
}

func TestFilter_PricePurposeCoupling(t *testing.T) {
	p := sampleProperty("both")
	p.Price = 500000
	p.RentalPrice = floatPtr(2000)
	p.Purpose = models.PurposeBoth
	props := []*models.Property{p}

	bounds := Patch{PriceMin: floatPtr(1000), PriceMax: floatPtr(3000)}

	rent := bounds
	rent.Purpose = strPtr("rent")
	assert.Equal(t, []string{"both"}, ids(Filter(props, ApplyPatch(Default(), rent))),
		"rental price is compared when purpose is rent")

	unset := bounds
	unset.Purpose = strPtr("")
	assert.Empty(t, Filter(props, ApplyPatch(Default(), unset)),
		"sale price is compared when purpose is unset")
}

func TestFilter_PriceOnlyCouplesLiteralRent(t *testing.T) {
	p := sampleProperty("seasonal")
	p.Price = 800000
	p.RentalPrice = floatPtr(5000)
	p.Purpose = models.PurposeRentSeasonal

	c := ApplyPatch(Default(), Patch{
		Purpose:  strPtr(models.PurposeRentSeasonal),
		PriceMin: floatPtr(1000),
		PriceMax: floatPtr(10000),
	})

	assert.False(t, Matches(p, c))
}

func TestFilter_PriceFallsBackToSalePriceWithoutRental(t *testing.T) {
	p := sampleProperty("no-rental")
	p.Purpose = models.PurposeRent
	p.Price = 2500

	c := ApplyPatch(Default(), Patch{
		Purpose:  strPtr("rent"),
		PriceMin: floatPtr(1000),
		PriceMax: floatPtr(3000),
	})

	assert.True(t, Matches(p, c))
}

func TestFilter_BothAnswersToSaleAndRent(t *testing.T) {
	p := sampleProperty("both")
	p.Purpose = models.PurposeBoth

	assert.True(t, Matches(p, ApplyPatch(Default(), Patch{Purpose: strPtr("sale")})))
	assert.True(t, Matches(p, ApplyPatch(Default(), Patch{Purpose: strPtr("rent")})))
	assert.False(t, Matches(p, ApplyPatch(Default(), Patch{Purpose: strPtr("rent_seasonal")})))
}

func TestFilter_PriceBoundsInclusive(t *testing.T) {
	p := sampleProperty("edge")
	p.Price = 300000

	c := ApplyPatch(Default(), Patch{PriceMin: floatPtr(300000), PriceMax: floatPtr(300000)})
	assert.True(t, Matches(p, c))

	c = ApplyPatch(Default(), Patch{PriceMax: floatPtr(299999.99)})
	assert.False(t, Matches(p, c))
}

func TestFilter_MaximumAboveDefaultStillBounds(t *testing.T) {
	p := sampleProperty("tower")
	p.Price = 200000000
	p.Area = 5000

	c := ApplyPatch(Default(), Patch{PriceMax: floatPtr(150000000)})
	assert.False(t, Matches(p, c), "price above a raised maximum")

	c = ApplyPatch(Default(), Patch{AreaMax: floatPtr(3000)})
	assert.False(t, Matches(p, c), "area above a raised maximum")

	c = ApplyPatch(Default(), Patch{PriceMax: floatPtr(250000000), AreaMax: floatPtr(6000)})
	assert.True(t, Matches(p, c))
}

func TestFilter_Area(t *testing.T) {
	small := sampleProperty("small")
	small.Area = 45
	unset := sampleProperty("unset")
	unset.Area = 0
	large := sampleProperty("large")
	large.Area = 300
	props := []*models.Property{small, unset, large}

	c := ApplyPatch(Default(), Patch{AreaMin: floatPtr(50), AreaMax: floatPtr(300)})

	assert.Equal(t, []string{"unset", "large"}, ids(Filter(props, c)))
}

func TestFilter_BedroomsBoundary(t *testing.T) {
	p := sampleProperty("three")
	p.Bedrooms = 3

	tests := []struct {
		value string
		want  bool
	}{
		{"3", true},
		{"4", false},
		{"any", true},
		{"", true},
		{"2+", true},
		{"4+", false},
		{"many", true},
		{"99999999999999999999", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("bedrooms=%q", tt.value), func(t *testing.T) {
			c := ApplyPatch(Default(), Patch{Bedrooms: strPtr(tt.value)})
			assert.Equal(t, tt.want, Matches(p, c))
		})
	}
}

func TestFilter_Bathrooms(t *testing.T) {
	p := sampleProperty("baths")
	p.Bathrooms = 2

	assert.True(t, Matches(p, ApplyPatch(Default(), Patch{Bathrooms: strPtr("2")})))
	assert.False(t, Matches(p, ApplyPatch(Default(), Patch{Bathrooms: strPtr("3")})))
}

func TestFilter_TagsOrWithinCategory(t *testing.T) {
	p := sampleProperty("launch")
	p.Tags = []string{"Lançamento"}
	p.IsFeatured = true
	props := []*models.Property{p, sampleProperty("other")}

	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"derived facet label", []string{"destaque"}, []string{"launch"}},
		{"case and accent insensitive", []string{"lancamento"}, []string{"launch"}},
		{"substring of a tag", []string{"lanç"}, []string{"launch"}},
		{"english facet label", []string{"featured"}, []string{"launch"}},
		{"any selected tag is enough", []string{"piscina", "destaque"}, []string{"launch"}},
		{"no selected tag matches", []string{"piscina"}, []string{}},
		{"blank tags are ignored", []string{" "}, []string{"launch", "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ApplyPatch(Default(), Patch{Tags: tagsPtr(tt.tags...)})
			assert.Equal(t, tt.want, ids(Filter(props, c)))
		})
	}
}

func TestSearchableTags(t *testing.T) {
	p := &models.Property{
		Tags:            []string{"Piscina"},
		IsBeachfront:    true,
		IsNearBeach:     true,
		IsDevelopment:   true,
		AcceptsExchange: true,
	}

	assert.Equal(t, []string{
		"Piscina",
		"frente mar", "beachfront",
		"quadra mar", "near beach",
		"empreendimento", "development",
		"aceita permuta", "exchange",
	}, SearchableTags(p))
}

func TestFilter_BooleanToggles(t *testing.T) {
	flagged := &models.Property{
		ID:              "flagged",
		IsFeatured:      true,
		IsBeachfront:    true,
		IsNearBeach:     true,
		IsDevelopment:   true,
		AcceptsExchange: true,
	}
	plain := &models.Property{ID: "plain"}
	props := []*models.Property{flagged, plain}

	toggles := map[string]Patch{
		"isFeatured":      {IsFeatured: boolPtr(true)},
		"isBeachfront":    {IsBeachfront: boolPtr(true)},
		"isNearBeach":     {IsNearBeach: boolPtr(true)},
		"isDevelopment":   {IsDevelopment: boolPtr(true)},
		"acceptsExchange": {AcceptsExchange: boolPtr(true)},
	}

	for name, patch := range toggles {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []string{"flagged"}, ids(Filter(props, ApplyPatch(Default(), patch))))
		})
	}

	t.Run("false never excludes", func(t *testing.T) {
		c := ApplyPatch(Default(), Patch{IsFeatured: boolPtr(false), IsBeachfront: boolPtr(false)})
		assert.Equal(t, []string{"flagged", "plain"}, ids(Filter(props, c)))
	})
}

func TestFilter_Conjunction(t *testing.T) {
	match := sampleProperty("match")
	match.Bedrooms = 3
	match.IsBeachfront = true

	wrongCity := sampleProperty("wrong-city")
	wrongCity.Bedrooms = 3
	wrongCity.IsBeachfront = true
	wrongCity.City = "Florianópolis"
	wrongCity.Location = "Jurerê"

	fewRooms := sampleProperty("few-rooms")
	fewRooms.IsBeachfront = true

	notBeach := sampleProperty("not-beach")
	notBeach.Bedrooms = 4

	props := []*models.Property{match, wrongCity, fewRooms, notBeach}

	c := ApplyPatch(Default(), Patch{
		City:         strPtr("camboriu"),
		Bedrooms:     strPtr("3"),
		IsBeachfront: boolPtr(true),
	})

	got := Filter(props, c)
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].ID)

	for _, p := range props {
		single := []Patch{
			{City: strPtr(c.City)},
			{Bedrooms: strPtr(c.Bedrooms)},
			{IsBeachfront: boolPtr(true)},
		}
		all := true
		for _, patch := range single {
			all = all && Matches(p, ApplyPatch(Default(), patch))
		}
		assert.Equal(t, all, Matches(p, c), p.ID)
	}
}

func TestFilter_BeachfrontScenario(t *testing.T) {
	var props []*models.Property
	var want []string
	for i := 0; i < 10; i++ {
		p := sampleProperty(fmt.Sprintf("p%02d", i))
		if i == 1 || i == 4 || i == 8 {
			p.IsBeachfront = true
			want = append(want, p.ID)
		}
		props = append(props, p)
	}

	got := Filter(props, ApplyPatch(Default(), Patch{IsBeachfront: boolPtr(true)}))

	require.Len(t, got, 3)
	assert.Equal(t, want, ids(got))
}

func TestFilter_SkipsNilEntries(t *testing.T) {
	props := []*models.Property{nil, sampleProperty("a")}

	assert.Equal(t, []string{"a"}, ids(Filter(props, Default())))
}
