package models

import (
	"time"
)

// SectionFilterType tags the variant of a SectionFilter
type SectionFilterType string

const (
	SectionFilterBoolean      SectionFilterType = "boolean_field"
	SectionFilterTag          SectionFilterType = "tag"
	SectionFilterPropertyType SectionFilterType = "property_type"
	SectionFilterCity         SectionFilterType = "city"
	SectionFilterPurpose      SectionFilterType = "purpose"
)

// SectionFilter is one predicate of a home section.
// Field is only set for boolean_field filters.
type SectionFilter struct {
	Type  SectionFilterType `json:"type"`
	Field *string           `json:"field"`
	Value string            `json:"value"`
}

// HomeSection is an admin-defined group of properties on the public home page
type HomeSection struct {
	ID       string          `json:"id"`
	TenantID *string         `json:"tenant_id"`
	Title    string          `json:"title"`
	Filters  []SectionFilter `json:"filters"`

	// Mirrors of Filters[0] for readers of the single-filter schema
	FilterType  *string `json:"filter_type"`
	FilterField *string `json:"filter_field"`
	FilterValue *string `json:"filter_value"`

	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	MaxItems     int       `json:"max_items"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HomeSectionView is a section rendered with its resolved properties
type HomeSectionView struct {
	HomeSection
	Properties []*Property `json:"properties"`
}

// SaveSectionRequest is the request body for creating or updating a section
type SaveSectionRequest struct {
	Title    string          `json:"title"`
	Filters  []SectionFilter `json:"filters"`
	IsActive *bool           `json:"is_active,omitempty"`
	MaxItems int             `json:"max_items"`
}

// ReorderSectionsRequest carries the complete new ordering of section ids
type ReorderSectionsRequest struct {
	SectionIDs []string `json:"section_ids"`
}

// MoveSectionRequest is the drag-and-drop form of a reorder
type MoveSectionRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}
