// Package sections composes the admin-defined home page sections: each section
// is an AND of typed filters over the property pool.
package sections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/foxxcyber/vitrine/internal/filters"
	"github.com/foxxcyber/vitrine/internal/models"
)

var (
	ErrNoFilters         = errors.New("section must have at least one filter")
	ErrUnknownFilterType = errors.New("unknown section filter type")
	ErrUnknownField      = errors.New("unknown boolean field")
)

// Predicate reports whether a property belongs to a section
type Predicate func(p *models.Property) bool

type compileFunc func(f models.SectionFilter) (Predicate, error)

// BooleanFields are the property facets a boolean_field filter may reference
var BooleanFields = map[string]func(p *models.Property) bool{
	"is_featured":      func(p *models.Property) bool { return p.IsFeatured },
	"is_beachfront":    func(p *models.Property) bool { return p.IsBeachfront },
	"is_near_beach":    func(p *models.Property) bool { return p.IsNearBeach },
	"is_development":   func(p *models.Property) bool { return p.IsDevelopment },
	"accepts_exchange": func(p *models.Property) bool { return p.AcceptsExchange },
}

// compilers holds one handler per filter variant
var compilers = map[models.SectionFilterType]compileFunc{
	models.SectionFilterBoolean:      compileBoolean,
	models.SectionFilterTag:          compileTag,
	models.SectionFilterPropertyType: compilePropertyType,
	models.SectionFilterCity:         compileCity,
	models.SectionFilterPurpose:      compilePurpose,
}

// Compile turns one filter into its predicate
func Compile(f models.SectionFilter) (Predicate, error) {
	compile, ok := compilers[f.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilterType, f.Type)
	}
	return compile(f)
}

// CompileAll returns the conjunction of every filter
func CompileAll(fs []models.SectionFilter) (Predicate, error) {
	if len(fs) == 0 {
		return nil, ErrNoFilters
	}

	preds := make([]Predicate, 0, len(fs))
	for i, f := range fs {
		pred, err := Compile(f)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		preds = append(preds, pred)
	}

	return func(p *models.Property) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}, nil
}

// Boolean filters only ever select properties where the facet is true
func compileBoolean(f models.SectionFilter) (Predicate, error) {
	if f.Field == nil {
		return nil, fmt.Errorf("%w: field is required", ErrUnknownField)
	}
	get, ok := BooleanFields[*f.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, *f.Field)
	}
	if f.Value != "true" {
		return nil, fmt.Errorf("boolean_field %q only supports value \"true\"", *f.Field)
	}
	return get, nil
}

func compileTag(f models.SectionFilter) (Predicate, error) {
	want := f.Value
	return func(p *models.Property) bool {
		for _, tag := range p.Tags {
			if tag == want {
				return true
			}
		}
		return false
	}, nil
}

func compilePropertyType(f models.SectionFilter) (Predicate, error) {
	want := f.Value
	return func(p *models.Property) bool {
		return p.PropertyType == want
	}, nil
}

// City is typed free-hand by admins, so it matches as a folded substring of
// either the city or the location
func compileCity(f models.SectionFilter) (Predicate, error) {
	want := filters.Fold(strings.TrimSpace(f.Value))
	return func(p *models.Property) bool {
		return strings.Contains(filters.Fold(p.City), want) ||
			strings.Contains(filters.Fold(p.Location), want)
	}, nil
}

func compilePurpose(f models.SectionFilter) (Predicate, error) {
	want := f.Value
	return func(p *models.Property) bool {
		return p.Purpose == want
	}, nil
}
