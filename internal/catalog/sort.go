package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortName       SortKey = "name"
	SortPrice      SortKey = "price"
	SortRating     SortKey = "rating"
	SortPopularity SortKey = "popularity"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortName, SortPrice, SortRating, SortPopularity:
		return true
	}
	return false
}

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

type SortSpec struct {
	By    SortKey   `json:"sortBy"`
	Order SortOrder `json:"order"`
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// comparator returns a three-way compare for key, or nil when the key does
// not order anything.
func comparator(key SortKey) func(a, b models.Product) int {
	switch key {
	case SortName:
		// collators keep internal buffers, so one per sort call
		c := collate.New(language.English, collate.IgnoreCase)
		return func(a, b models.Product) int {
			return c.CompareString(strings.TrimSpace(a.Name), strings.TrimSpace(b.Name))
		}
	case SortPrice:
		return func(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortRating:
		return func(a, b models.Product) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortPopularity:
		return func(a, b models.Product) int { return compareBool(a.IsPopular, b.IsPopular) }
	}

	return nil
}

// Sort orders products in place with a stable sort. Descending negates the
// comparison rather than reversing the slice, so equal keys keep their
// relative order in both directions.
func Sort(products []models.Product, spec SortSpec) {
	compare := comparator(spec.By)
	if compare == nil {
		return
	}

	if spec.Order == Descending {
		asc := compare
		compare = func(a, b models.Product) int { return -asc(a, b) }
	}

	slices.SortStableFunc(products, compare)
}
