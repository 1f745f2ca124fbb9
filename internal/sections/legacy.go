package sections

import (
	"github.com/foxxcyber/vitrine/internal/models"
)

// LegacyFields are the single-filter columns older readers still consume
type LegacyFields struct {
	FilterType  *string
	FilterField *string
	FilterValue *string
}

// ToLegacyShape mirrors the first filter into the legacy columns. A section
// without filters clears them.
func ToLegacyShape(s *models.HomeSection) LegacyFields {
	if len(s.Filters) == 0 {
		return LegacyFields{}
	}

	first := s.Filters[0]
	filterType := string(first.Type)
	value := first.Value

	var field *string
	if first.Field != nil {
		f := *first.Field
		field = &f
	}

	return LegacyFields{
		FilterType:  &filterType,
		FilterField: field,
		FilterValue: &value,
	}
}

// Apply writes the legacy fields onto s
func (l LegacyFields) Apply(s *models.HomeSection) {
	s.FilterType = l.FilterType
	s.FilterField = l.FilterField
	s.FilterValue = l.FilterValue
}
