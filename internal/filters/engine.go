package filters

import (
	"strings"

	"github.com/foxxcyber/vitrine/internal/models"
)

type predicate func(p *models.Property) bool

// Filter returns the properties that satisfy every active constraint in c.
// Input order is preserved and the input slice is not modified.
func Filter(properties []*models.Property, c Criteria) []*models.Property {
	preds := compile(c)

	result := make([]*models.Property, 0, len(properties))
	for _, p := range properties {
		if p != nil && matchAll(p, preds) {
			result = append(result, p)
		}
	}
	return result
}

// Matches reports whether a single property satisfies c
func Matches(p *models.Property, c Criteria) bool {
	return matchAll(p, compile(c))
}

func matchAll(p *models.Property, preds []predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

// compile turns the active categories of c into predicates. Inactive
// categories contribute nothing, so the default criteria compile to an empty list.
func compile(c Criteria) []predicate {
	var preds []predicate

	if term := Fold(strings.TrimSpace(c.Search)); term != "" {
		preds = append(preds, func(p *models.Property) bool {
			if containsFolded(p.Title, term) || containsFolded(p.Location, term) {
				return true
			}
			return p.PropertyCode != nil && containsFolded(*p.PropertyCode, term)
		})
	}

	if isSet(c.Type) {
		want := Fold(c.Type)
		preds = append(preds, func(p *models.Property) bool {
			have := Fold(p.PropertyType)
			return have == want || strings.Contains(have, want)
		})
	}

	if isSet(c.Purpose) {
		want := c.Purpose
		preds = append(preds, func(p *models.Property) bool {
			return purposeMatches(p.Purpose, want)
		})
	}

	if isSet(c.City) {
		want := Fold(c.City)
		preds = append(preds, func(p *models.Property) bool {
			return containsFolded(p.City, want) || containsFolded(p.Location, want)
		})
	}

	if c.PriceMin > 0 || c.PriceMax != DefaultPriceMax {
		lo, hi := c.PriceMin, c.PriceMax
		useRental := c.Purpose == models.PurposeRent
		preds = append(preds, func(p *models.Property) bool {
			price := p.Price
			if useRental && p.RentalPrice != nil {
				price = *p.RentalPrice
			}
			return price >= lo && (hi == DefaultPriceMax || price <= hi)
		})
	}

	if c.AreaMin > 0 || c.AreaMax != DefaultAreaMax {
		lo, hi := c.AreaMin, c.AreaMax
		preds = append(preds, func(p *models.Property) bool {
			if p.Area == 0 {
				return true
			}
			return p.Area >= lo && (hi == DefaultAreaMax || p.Area <= hi)
		})
	}

	if n, ok := atLeast(c.Bedrooms); ok {
		preds = append(preds, func(p *models.Property) bool { return p.Bedrooms >= n })
	}
	if n, ok := atLeast(c.Bathrooms); ok {
		preds = append(preds, func(p *models.Property) bool { return p.Bathrooms >= n })
	}

	if wanted := foldedTags(c.Tags); len(wanted) > 0 {
		preds = append(preds, func(p *models.Property) bool {
			for _, tag := range p.Tags {
				if containsAny(Fold(tag), wanted) {
					return true
				}
			}
			for _, label := range facetLabelsOf(p) {
				if containsAny(label, wanted) {
					return true
				}
			}
			return false
		})
	}

	if c.IsFeatured {
		preds = append(preds, func(p *models.Property) bool { return p.IsFeatured })
	}
	if c.IsBeachfront {
		preds = append(preds, func(p *models.Property) bool { return p.IsBeachfront })
	}
	if c.IsNearBeach {
		preds = append(preds, func(p *models.Property) bool { return p.IsNearBeach })
	}
	if c.IsDevelopment {
		preds = append(preds, func(p *models.Property) bool { return p.IsDevelopment })
	}
	if c.AcceptsExchange {
		preds = append(preds, func(p *models.Property) bool { return p.AcceptsExchange })
	}

	return preds
}

// purposeMatches compares purposes exactly, ignoring case. A listing offered
// for both sale and rent answers to either of those two purposes.
func purposeMatches(have, want string) bool {
	if strings.EqualFold(have, want) {
		return true
	}
	if strings.EqualFold(have, models.PurposeBoth) {
		return strings.EqualFold(want, models.PurposeSale) || strings.EqualFold(want, models.PurposeRent)
	}
	return false
}

func isSet(v string) bool {
	return v != "" && v != AllValue
}

// atLeast parses a ">=" count constraint. "any", empty and non-numeric values
// leave the category inactive.
func atLeast(v string) (int, bool) {
	if v == "" || v == AnyValue {
		return 0, false
	}
	return parseIntPrefix(v)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func foldedTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if f := Fold(strings.TrimSpace(t)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
