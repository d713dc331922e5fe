package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
)

// values collects repeated and comma-separated params:
// ?size=Small&size=Large and ?size=Small,Large are the same.
func values[T ~string](q url.Values, key string) []T {
	var out []T
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, T(part))
			}
		}
	}

	return out
}

func parseFlag(q url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}

	return b, nil
}

func parseBound(q url.Values, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, raw)
	}

	return v, nil
}

// ParseFilter builds a FilterSpec from shop query params, starting from
// DefaultFilter.
func ParseFilter(q url.Values) (FilterSpec, error) {
	f := DefaultFilter()

	f.Categories = values[models.Category](q, "category")
	f.CareLevels = values[models.CareLevel](q, "careLevel")
	f.LightRequirements = values[models.LightRequirement](q, "lightRequirement")
	f.Sizes = values[models.Size](q, "size")

	var err error
	if f.PriceRange.Min, err = parseBound(q, "minPrice", f.PriceRange.Min); err != nil {
		return FilterSpec{}, err
	}
	if f.PriceRange.Max, err = parseBound(q, "maxPrice", f.PriceRange.Max); err != nil {
		return FilterSpec{}, err
	}
	if f.PriceRange.Min > f.PriceRange.Max {
		return FilterSpec{}, fmt.Errorf("minPrice %v is greater than maxPrice %v", f.PriceRange.Min, f.PriceRange.Max)
	}

	if f.InStockOnly, err = parseFlag(q, "inStock"); err != nil {
		return FilterSpec{}, err
	}
	if f.OnSaleOnly, err = parseFlag(q, "onSale"); err != nil {
		return FilterSpec{}, err
	}

	return f, nil
}

// ParseSort reads sortBy and order. order defaults to asc.
func ParseSort(q url.Values) (SortSpec, error) {
	spec := SortSpec{
		By:    SortKey(strings.ToLower(strings.TrimSpace(q.Get("sortBy")))),
		Order: SortOrder(strings.ToLower(strings.TrimSpace(q.Get("order")))),
	}

	if !spec.By.Valid() {
		return SortSpec{}, fmt.Errorf("unsupported sortBy %q", spec.By)
	}

	switch spec.Order {
	case "":
		spec.Order = Ascending
	case Ascending, Descending:
	default:
		return SortSpec{}, fmt.Errorf("order must be asc or desc, got %q", spec.Order)
	}

	return spec, nil
}
