package catalog_test

import (
	"testing"

	"github.com/aaravmahajanofficial/plant-storefront/internal/catalog"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSort_PriceDescending(t *testing.T) {
	products := []models.Product{{ID: 1, Price: 10}, {ID: 2, Price: 30}, {ID: 3, Price: 20}}

	catalog.Sort(products, catalog.SortSpec{By: catalog.SortPrice, Order: catalog.Descending})

	assert.Equal(t, []float64{30, 20, 10}, []float64{products[0].Price, products[1].Price, products[2].Price})
}

func TestSort_Keys(t *testing.T) {
	tests := []struct {
		name     string
		spec     catalog.SortSpec
		expected []int64
	}{
		{"Name ascending ignores case", catalog.SortSpec{By: catalog.SortName, Order: catalog.Ascending}, []int64{1, 3, 4, 2, 5}},
		{"Name descending", catalog.SortSpec{By: catalog.SortName, Order: catalog.Descending}, []int64{5, 2, 4, 3, 1}},
		{"Price ascending", catalog.SortSpec{By: catalog.SortPrice, Order: catalog.Ascending}, []int64{1, 4, 3, 5, 2}},
		{"Rating descending keeps ties in input order", catalog.SortSpec{By: catalog.SortRating, Order: catalog.Descending}, []int64{2, 1, 3, 4, 5}},
		{"Rating ascending keeps ties in input order", catalog.SortSpec{By: catalog.SortRating, Order: catalog.Ascending}, []int64{4, 5, 1, 3, 2}},
		{"Popularity descending puts popular first", catalog.SortSpec{By: catalog.SortPopularity, Order: catalog.Descending}, []int64{2, 4, 1, 3, 5}},
		{"Popularity ascending", catalog.SortSpec{By: catalog.SortPopularity, Order: catalog.Ascending}, []int64{1, 3, 5, 2, 4}},
		{"No key keeps order", catalog.SortSpec{}, []int64{1, 2, 3, 4, 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			products := fixtures()
			products[0].Name = "echeveria"

			catalog.Sort(products, tc.spec)

			assert.Equal(t, tc.expected, ids(products))
		})
	}
}

func TestSort_Idempotent(t *testing.T) {
	spec := catalog.SortSpec{By: catalog.SortRating, Order: catalog.Descending}

	once := fixtures()
	catalog.Sort(once, spec)

	twice := append([]models.Product(nil), once...)
	catalog.Sort(twice, spec)

	assert.Equal(t, ids(once), ids(twice))
}

func TestSort_ReverseOnlyFlipsDistinctKeys(t *testing.T) {
	products := []models.Product{
		{ID: 1, Price: 5}, {ID: 2, Price: 9}, {ID: 3, Price: 5}, {ID: 4, Price: 1}, {ID: 5, Price: 9},
	}

	asc := append([]models.Product(nil), products...)
	catalog.Sort(asc, catalog.SortSpec{By: catalog.SortPrice, Order: catalog.Ascending})
	desc := append([]models.Product(nil), products...)
	catalog.Sort(desc, catalog.SortSpec{By: catalog.SortPrice, Order: catalog.Descending})

	assert.Equal(t, []int64{4, 1, 3, 2, 5}, ids(asc))
	assert.Equal(t, []int64{2, 5, 1, 3, 4}, ids(desc))
}
