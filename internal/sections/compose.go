package sections

import (
	"errors"
	"fmt"
	"sort"

	"github.com/foxxcyber/vitrine/internal/models"
)

// Resolve returns the pool members matching every filter of s, in pool order,
// capped at s.MaxItems
func Resolve(s *models.HomeSection, pool []*models.Property) ([]*models.Property, error) {
	pred, err := CompileAll(s.Filters)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Property, 0, s.MaxItems)
	for _, p := range pool {
		if len(result) >= s.MaxItems {
			break
		}
		if p != nil && pred(p) {
			result = append(result, p)
		}
	}
	return result, nil
}

// Active returns the sections shown on the public site, by ascending display order
func Active(all []*models.HomeSection) []*models.HomeSection {
	active := make([]*models.HomeSection, 0, len(all))
	for _, s := range all {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return Sort(active)
}

// Sort returns a copy of the list ordered by display_order; ties keep their input order
func Sort(list []*models.HomeSection) []*models.HomeSection {
	out := append([]*models.HomeSection(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

// Renumber returns copies of the sections with display_order rewritten to 1..N
// following the slice order
func Renumber(list []*models.HomeSection) []*models.HomeSection {
	out := make([]*models.HomeSection, 0, len(list))
	for i, s := range list {
		cp := *s
		cp.DisplayOrder = i + 1
		out = append(out, &cp)
	}
	return out
}

var (
	ErrIndexOutOfRange = errors.New("section index out of range")
	ErrOrderMismatch   = errors.New("ordering must list every section exactly once")
)

// Move takes the section at index from (in display order) and inserts it at
// index to, then renumbers the whole list
func Move(list []*models.HomeSection, from, to int) ([]*models.HomeSection, error) {
	sorted := Sort(list)
	if from < 0 || from >= len(sorted) || to < 0 || to >= len(sorted) {
		return nil, fmt.Errorf("%w: from=%d to=%d len=%d", ErrIndexOutOfRange, from, to, len(sorted))
	}

	moved := sorted[from]
	rest := append(append([]*models.HomeSection(nil), sorted[:from]...), sorted[from+1:]...)

	out := make([]*models.HomeSection, 0, len(sorted))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)

	return Renumber(out), nil
}

// ReorderByIDs arranges the sections in the order of ids and renumbers them.
// ids must name every section exactly once.
func ReorderByIDs(list []*models.HomeSection, ids []string) ([]*models.HomeSection, error) {
	if len(ids) != len(list) {
		return nil, ErrOrderMismatch
	}

	byID := make(map[string]*models.HomeSection, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}

	out := make([]*models.HomeSection, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok || seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrOrderMismatch, id)
		}
		seen[id] = true
		out = append(out, s)
	}

	return Renumber(out), nil
}
