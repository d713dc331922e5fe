// Package catalog narrows and orders a product collection for the shop grid.
package catalog

import (
	"math"
	"slices"

	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
)

// PriceRange is inclusive on both ends and expressed in USD.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies in the inclusive range. The zero
// range is unbounded, so FilterSpec{} restricts nothing on price.
func (r PriceRange) Contains(price float64) bool {
	if r == (PriceRange{}) {
		return true
	}

	return price >= r.Min && price <= r.Max
}

// FilterSpec is the set of inclusion predicates for one shop view. An empty
// set restricts nothing on its dimension, and the zero value matches every
// product.
type FilterSpec struct {
	Categories        []models.Category         `json:"category"`
	CareLevels        []models.CareLevel        `json:"careLevel"`
	LightRequirements []models.LightRequirement `json:"lightRequirement"`
	Sizes             []models.Size             `json:"size"`
	PriceRange        PriceRange                `json:"priceRange"`
	InStockOnly       bool                      `json:"inStock"`
	OnSaleOnly        bool                      `json:"onSale"`
}

// DefaultFilter is what a freshly mounted shop page starts with.
func DefaultFilter() FilterSpec {
	return FilterSpec{PriceRange: PriceRange{Min: 0, Max: math.Inf(1)}}
}

func allowed[T comparable](set []T, v T) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

// Matches reports whether p passes every predicate of f.
func (f FilterSpec) Matches(p models.Product) bool {
	ok := allowed(f.Categories, p.Category)
	ok = allowed(f.CareLevels, p.CareLevel) && ok
	ok = allowed(f.LightRequirements, p.LightRequirement) && ok
	ok = allowed(f.Sizes, p.Size) && ok
	ok = f.PriceRange.Contains(p.Price) && ok
	ok = (!f.InStockOnly || p.InStock) && ok
	ok = (!f.OnSaleOnly || p.IsOnSale) && ok

	return ok
}

// Filter keeps the products that match f, in input order.
func Filter(products []models.Product, f FilterSpec) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}

	return out
}

// Apply filters then sorts. The input slice is left untouched.
func Apply(products []models.Product, filter FilterSpec, sort SortSpec) []models.Product {
	out := Filter(products, filter)
	Sort(out, sort)

	return out
}
