package models

import (
	"time"
)

// Purpose values accepted for a property listing
const (
	PurposeSale         = "sale"
	PurposeRent         = "rent"
	PurposeRentAnnual   = "rent_annual"
	PurposeRentSeasonal = "rent_seasonal"
	PurposeBoth         = "both"
)

// Status values for a property listing
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusRented    = "rented"
	StatusInactive  = "inactive"
)

// Property is a listing snapshot as stored and as consumed by the filter engine
type Property struct {
	ID           string   `json:"id"`
	Slug         *string  `json:"slug,omitempty"`
	TenantID     *string  `json:"tenant_id,omitempty"`
	UserID       *string  `json:"user_id,omitempty"`
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Status       string   `json:"status"`
	PropertyType string   `json:"property_type"`
	Purpose      string   `json:"purpose"`
	Price        float64  `json:"price"`
	RentalPrice  *float64 `json:"rental_price,omitempty"`
	Location     string   `json:"location"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Area         float64  `json:"area"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Tags         []string `json:"tags"`
	Features     []string `json:"features"`
	Images       []string `json:"images"`
	PropertyCode *string  `json:"property_code,omitempty"`

	IsFeatured      bool `json:"is_featured"`
	IsBeachfront    bool `json:"is_beachfront"`
	IsNearBeach     bool `json:"is_near_beach"`
	IsDevelopment   bool `json:"is_development"`
	AcceptsExchange bool `json:"accepts_exchange"`
	HideAddress     bool `json:"hide_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicView returns a copy safe for anonymous visitors.
// The address is blanked when the owner asked to hide it.
func (p *Property) PublicView() *Property {
	cp := *p
	if cp.HideAddress {
		cp.Location = ""
	}
	return &cp
}

// PropertyScope selects a property pool by equality on status, tenant and owner.
// Nil pointers leave that column unconstrained.
type PropertyScope struct {
	Status   string  `json:"status"`
	TenantID *string `json:"tenant_id,omitempty"`
	UserID   *string `json:"user_id,omitempty"`
}

// Key returns a stable identifier for caching and sequencing
func (s PropertyScope) Key() string {
	tenant := "*"
	if s.TenantID != nil {
		tenant = *s.TenantID
	}
	user := "*"
	if s.UserID != nil {
		user = *s.UserID
	}
	return "status=" + s.Status + ":tenant=" + tenant + ":user=" + user
}

// CreatePropertyRequest is the request body for creating a property
type CreatePropertyRequest struct {
	Slug            *string  `json:"slug,omitempty"`
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	Status          string   `json:"status"`
	PropertyType    string   `json:"property_type"`
	Purpose         string   `json:"purpose"`
	Price           float64  `json:"price"`
	RentalPrice     *float64 `json:"rental_price,omitempty"`
	Location        string   `json:"location"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	Area            float64  `json:"area"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       int      `json:"bathrooms"`
	Tags            []string `json:"tags,omitempty"`
	Features        []string `json:"features,omitempty"`
	PropertyCode    *string  `json:"property_code,omitempty"`
	IsFeatured      bool     `json:"is_featured"`
	IsBeachfront    bool     `json:"is_beachfront"`
	IsNearBeach     bool     `json:"is_near_beach"`
	IsDevelopment   bool     `json:"is_development"`
	AcceptsExchange bool     `json:"accepts_exchange"`
	HideAddress     bool     `json:"hide_address"`
}

// UpdatePropertyRequest is the request body for updating a property
type UpdatePropertyRequest struct {
	Slug            *string   `json:"slug,omitempty"`
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Status          *string   `json:"status,omitempty"`
	PropertyType    *string   `json:"property_type,omitempty"`
	Purpose         *string   `json:"purpose,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	RentalPrice     *float64  `json:"rental_price,omitempty"`
	Location        *string   `json:"location,omitempty"`
	City            *string   `json:"city,omitempty"`
	State           *string   `json:"state,omitempty"`
	Area            *float64  `json:"area,omitempty"`
	Bedrooms        *int      `json:"bedrooms,omitempty"`
	Bathrooms       *int      `json:"bathrooms,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	Features        *[]string `json:"features,omitempty"`
	PropertyCode    *string   `json:"property_code,omitempty"`
	IsFeatured      *bool     `json:"is_featured,omitempty"`
	IsBeachfront    *bool     `json:"is_beachfront,omitempty"`
	IsNearBeach     *bool     `json:"is_near_beach,omitempty"`
	IsDevelopment   *bool     `json:"is_development,omitempty"`
	AcceptsExchange *bool     `json:"accepts_exchange,omitempty"`
	HideAddress     *bool     `json:"hide_address,omitempty"`
}

// PropertyStats contains aggregate statistics for the back office
type PropertyStats struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	ByPurpose map[string]int `json:"by_purpose"`
	Featured  int            `json:"featured"`
}
