package catalog_test

import (
	"testing"

	"github.com/aaravmahajanofficial/plant-storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestBuildFeatures(t *testing.T) {
	t.Run("Empty attributes produce no features", func(t *testing.T) {
		assert.Empty(t, catalog.BuildFeatures(catalog.CareExtras{}))
	})

	t.Run("Blank values are skipped and values trimmed", func(t *testing.T) {
		got := catalog.BuildFeatures(catalog.CareExtras{
			Humidity:     "  High ",
			Fertilizer:   "   ",
			SpecialNotes: "Keep away from drafts",
		})

		assert.Equal(t, []string{"Humidity: High", "Special Notes: Keep away from drafts"}, got)
	})

	t.Run("Order follows declaration order", func(t *testing.T) {
		got := catalog.BuildFeatures(catalog.CareExtras{
			SpecialNotes:   "Rotate monthly",
			BloomingSeason: "Spring",
			GrowthRate:     "Slow",
			Toxicity:       "Toxic to pets",
			Repotting:      "Every 2 years",
			Fertilizer:     "Monthly in summer",
			Temperature:    "18-27°C",
			Humidity:       "Moderate",
		})

		assert.Equal(t, []string{
			"Humidity: Moderate",
			"Temperature: 18-27°C",
			"Fertilizer: Monthly in summer",
			"Repotting: Every 2 years",
			"Toxicity: Toxic to pets",
			"Growth Rate: Slow",
			"Blooming Season: Spring",
			"Special Notes: Rotate monthly",
		}, got)
	})
}
