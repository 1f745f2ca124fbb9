package sections

import (
	"fmt"
	"strings"

	"github.com/foxxcyber/vitrine/internal/models"
)

// Bounds for max_items
const (
	MinItems = 1
	MaxItems = 24
)

// ValidationError describes why a section cannot be saved
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks a section before any write is attempted
func Validate(s *models.HomeSection) error {
	if strings.TrimSpace(s.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if len(s.Filters) == 0 {
		return &ValidationError{Field: "filters", Message: ErrNoFilters.Error()}
	}
	if s.MaxItems < MinItems || s.MaxItems > MaxItems {
		return &ValidationError{
			Field:   "max_items",
			Message: fmt.Sprintf("max_items must be between %d and %d", MinItems, MaxItems),
		}
	}

	for i, f := range s.Filters {
		if f.Type != models.SectionFilterBoolean && strings.TrimSpace(f.Value) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("filters[%d].value", i),
				Message: "value is required",
			}
		}
		if _, err := Compile(f); err != nil {
			return &ValidationError{Field: fmt.Sprintf("filters[%d]", i), Message: err.Error()}
		}
	}

	return nil
}

// Normalize fills the fields an admin dialog leaves implicit: boolean filters
// always carry value "true" and non-boolean filters never carry a field
func Normalize(fs []models.SectionFilter) []models.SectionFilter {
	out := make([]models.SectionFilter, 0, len(fs))
	for _, f := range fs {
		if f.Type == models.SectionFilterBoolean {
			if f.Value == "" {
				f.Value = "true"
			}
		} else {
			f.Field = nil
			f.Value = strings.TrimSpace(f.Value)
		}
		out = append(out, f)
	}
	return out
}
