// Package filters implements the in-memory property search used by the public
// listing pages and the back office.
package filters

// Sentinel maxima used by the default criteria. A maximum equal to its
// sentinel does not constrain the result; any other value is an inclusive bound.
const (
	DefaultPriceMax = 100000000
	DefaultAreaMax  = 2000
)

// AnyValue leaves bedrooms/bathrooms unconstrained; AllValue does the same for type/city/purpose
const (
	AnyValue = "any"
	AllValue = "all"
)

// Criteria holds every constraint the listing page can express
type Criteria struct {
	Search    string   `json:"search"`
	Type      string   `json:"type"`
	City      string   `json:"city"`
	Purpose   string   `json:"purpose"`
	PriceMin  float64  `json:"priceMin"`
	PriceMax  float64  `json:"priceMax"`
	AreaMin   float64  `json:"areaMin"`
	AreaMax   float64  `json:"areaMax"`
	Bedrooms  string   `json:"bedrooms"`
	Bathrooms string   `json:"bathrooms"`
	Tags      []string `json:"tags"`

	IsFeatured      bool `json:"isFeatured"`
	IsBeachfront    bool `json:"isBeachfront"`
	IsNearBeach     bool `json:"isNearBeach"`
	IsDevelopment   bool `json:"isDevelopment"`
	AcceptsExchange bool `json:"acceptsExchange"`
}

// Default returns the all-permissive criteria
func Default() Criteria {
	return Criteria{
		Search:    "",
		Type:      "",
		City:      "",
		Purpose:   "",
		PriceMin:  0,
		PriceMax:  DefaultPriceMax,
		AreaMin:   0,
		AreaMax:   DefaultAreaMax,
		Bedrooms:  AnyValue,
		Bathrooms: AnyValue,
		Tags:      []string{},
	}
}

// Clear resets every constraint in one step
func Clear() Criteria {
	return Default()
}

// Patch is a partial update of Criteria. Nil fields are left untouched.
type Patch struct {
	Search    *string   `json:"search,omitempty"`
	Type      *string   `json:"type,omitempty"`
	City      *string   `json:"city,omitempty"`
	Purpose   *string   `json:"purpose,omitempty"`
	PriceMin  *float64  `json:"priceMin,omitempty"`
	PriceMax  *float64  `json:"priceMax,omitempty"`
	AreaMin   *float64  `json:"areaMin,omitempty"`
	AreaMax   *float64  `json:"areaMax,omitempty"`
	Bedrooms  *string   `json:"bedrooms,omitempty"`
	Bathrooms *string   `json:"bathrooms,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`

	IsFeatured      *bool `json:"isFeatured,omitempty"`
	IsBeachfront    *bool `json:"isBeachfront,omitempty"`
	IsNearBeach     *bool `json:"isNearBeach,omitempty"`
	IsDevelopment   *bool `json:"isDevelopment,omitempty"`
	AcceptsExchange *bool `json:"acceptsExchange,omitempty"`
}

// ApplyPatch returns a new Criteria with patch applied on top of state.
// state is never modified.
func ApplyPatch(state Criteria, patch Patch) Criteria {
	next := state
	next.Tags = append([]string{}, state.Tags...)

	if patch.Search != nil {
		next.Search = *patch.Search
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.City != nil {
		next.City = *patch.City
	}
	if patch.Purpose != nil {
		next.Purpose = *patch.Purpose
	}
	if patch.PriceMin != nil {
		next.PriceMin = *patch.PriceMin
	}
	if patch.PriceMax != nil {
		next.PriceMax = *patch.PriceMax
	}
	if patch.AreaMin != nil {
		next.AreaMin = *patch.AreaMin
	}
	if patch.AreaMax != nil {
		next.AreaMax = *patch.AreaMax
	}
	if patch.Bedrooms != nil {
		next.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		next.Bathrooms = *patch.Bathrooms
	}
	if patch.Tags != nil {
		next.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.IsFeatured != nil {
		next.IsFeatured = *patch.IsFeatured
	}
	if patch.IsBeachfront != nil {
		next.IsBeachfront = *patch.IsBeachfront
	}
	if patch.IsNearBeach != nil {
		next.IsNearBeach = *patch.IsNearBeach
	}
	if patch.IsDevelopment != nil {
		next.IsDevelopment = *patch.IsDevelopment
	}
	if patch.AcceptsExchange != nil {
		next.AcceptsExchange = *patch.AcceptsExchange
	}

	return next
}
