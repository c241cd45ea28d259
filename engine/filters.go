package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// FILTERS — Dimension-based row selection
// ============================================================================
// One pass over the view; matching rows become a SubView over the parent.
// ============================================================================

// ParseFilters reads "dimension=value" pairs. Repeating a dimension widens
// it (OR); distinct dimensions narrow (AND).
func ParseFilters(pairs []string) (Filters, error) {
	f := Filters{Dimensions: make(map[string][]string)}
	for _, p := range pairs {
		dim, val, ok := strings.Cut(p, "=")
		dim = strings.TrimSpace(dim)
		if !ok || dim == "" {
			return Filters{}, fmt.Errorf("filter %q: want dimension=value", p)
		}
		f.Dimensions[dim] = append(f.Dimensions[dim], strings.TrimSpace(val))
	}
	return f, nil
}

// ApplyFilters returns the rows of view matching every dimension filter,
// compared case-insensitively. An empty filter returns view itself.
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool, len(filters.Dimensions))
	for dim, allowed := range filters.Dimensions {
		if len(allowed) == 0 {
			continue
		}
		set := make(map[string]bool, len(allowed))
		for _, a := range allowed {
			set[strings.ToLower(a)] = true
		}
		sets[dim] = set
	}

	indices := make([]int, 0, view.Len())
rows:
	for i := 0; i < view.Len(); i++ {
		for dim, set := range sets {
			if !set[strings.ToLower(getDimensionValue(view, i, dim))] {
				continue rows
			}
		}
		indices = append(indices, i)
	}
	return newSubView(view, indices)
}
