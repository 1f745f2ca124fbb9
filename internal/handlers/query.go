package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/vitrine/internal/filters"
)

// criteriaFromQuery builds filter criteria from the listing page query
// string. Absent keys keep their permissive defaults.
func criteriaFromQuery(c *fiber.Ctx) (filters.Criteria, error) {
	var patch filters.Patch

	for key, dst := range map[string]**string{
		"search":    &patch.Search,
		"type":      &patch.Type,
		"city":      &patch.City,
		"purpose":   &patch.Purpose,
		"bedrooms":  &patch.Bedrooms,
		"bathrooms": &patch.Bathrooms,
	} {
		if v := c.Query(key); v != "" {
			v := v
			*dst = &v
		}
	}

	for key, dst := range map[string]**float64{
		"price_min": &patch.PriceMin,
		"price_max": &patch.PriceMax,
		"area_min":  &patch.AreaMin,
		"area_max":  &patch.AreaMax,
	} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return filters.Criteria{}, fmt.Errorf("invalid %s", key)
		}
		*dst = &f
	}

	for key, dst := range map[string]**bool{
		"is_featured":      &patch.IsFeatured,
		"is_beachfront":    &patch.IsBeachfront,
		"is_near_beach":    &patch.IsNearBeach,
		"is_development":   &patch.IsDevelopment,
		"accepts_exchange": &patch.AcceptsExchange,
	} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filters.Criteria{}, fmt.Errorf("invalid %s", key)
		}
		*dst = &b
	}

	if v := c.Query("tags"); v != "" {
		var tags []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		patch.Tags = &tags
	}

	return filters.ApplyPatch(filters.Default(), patch), nil
}
