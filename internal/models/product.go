package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Category string

const (
	CategoryIndoor    Category = "Indoor Plants"
	CategoryOutdoor   Category = "Outdoor Plants"
	CategorySucculent Category = "Succulents"
	CategoryFlowering Category = "Flowering Plants"
	CategoryHerbs     Category = "Herbs"
	CategoryAirPlants Category = "Air Plants"
)

var Categories = []Category{CategoryIndoor, CategoryOutdoor, CategorySucculent, CategoryFlowering, CategoryHerbs, CategoryAirPlants}

type CareLevel string

const (
	CareEasy      CareLevel = "Easy"
	CareModerate  CareLevel = "Moderate"
	CareDifficult CareLevel = "Difficult"
)

type LightRequirement string

const (
	LightLow            LightRequirement = "Low Light"
	LightMedium         LightRequirement = "Medium Light"
	LightBrightIndirect LightRequirement = "Bright Indirect Light"
	LightDirectSun      LightRequirement = "Direct Sunlight"
)

type WaterFrequency string

const (
	WaterDaily     WaterFrequency = "Daily"
	WaterEvery2to3 WaterFrequency = "Every 2-3 days"
	WaterWeekly    WaterFrequency = "Weekly"
	WaterBiWeekly  WaterFrequency = "Bi-weekly"
	WaterMonthly   WaterFrequency = "Monthly"
)

type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// Defaults applied when a create payload omits the care attributes.
const (
	DefaultCareLevel        = CareEasy
	DefaultLightRequirement = LightBrightIndirect
	DefaultWaterFrequency   = WaterWeekly
	DefaultSize             = SizeMedium
	DefaultImage            = "/placeholder.svg"
)

// Product prices are always USD.
type Product struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	ScientificName   string           `json:"scientificName"`
	Description      string           `json:"description"`
	Category         Category         `json:"category"`
	Image            string           `json:"image"`
	Price            float64          `json:"price"`
	OriginalPrice    *float64         `json:"originalPrice"`
	StockQuantity    int              `json:"stockQuantity"`
	InStock          bool             `json:"inStock"`
	CareLevel        CareLevel        `json:"careLevel"`
	LightRequirement LightRequirement `json:"lightRequirement"`
	WaterFrequency   WaterFrequency   `json:"waterFrequency"`
	Size             Size             `json:"size"`
	Features         []string         `json:"features"`
	IsPopular        bool             `json:"isPopular"`
	IsOnSale         bool             `json:"isOnSale"`
	Rating           float64          `json:"rating"`
	ReviewCount      int              `json:"reviewCount"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// FormValue holds a numeric field exactly as the form sent it. It accepts a
// JSON string, number or null so both `"29.99"` and `29.99` decode.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected a number or numeric string, got %s", data)
		}
		*v = FormValue(n.String())
	}

	return nil
}

type CreateProductRequest struct {
	Name             string           `json:"name" validate:"required,max=200"`
	ScientificName   string           `json:"scientificName" validate:"max=200"`
	Price            FormValue        `json:"price" validate:"required"`
	OriginalPrice    FormValue        `json:"originalPrice"`
	Category         Category         `json:"category" validate:"required,oneof='Indoor Plants' 'Outdoor Plants' Succulents 'Flowering Plants' Herbs 'Air Plants'"`
	CareLevel        CareLevel        `json:"careLevel" validate:"omitempty,oneof=Easy Moderate Difficult"`
	LightRequirement LightRequirement `json:"lightRequirement" validate:"omitempty,oneof='Low Light' 'Medium Light' 'Bright Indirect Light' 'Direct Sunlight'"`
	WaterFrequency   WaterFrequency   `json:"waterFrequency" validate:"omitempty,oneof=Daily 'Every 2-3 days' Weekly Bi-weekly Monthly"`
	Size             Size             `json:"size" validate:"omitempty,oneof=Small Medium Large"`
	Description      string           `json:"description" validate:"required"`
	Image            string           `json:"image" validate:"max=2048"`
	StockQuantity    FormValue        `json:"stockQuantity" validate:"required"`
	Features         []string         `json:"features" validate:"max=16,dive,max=500"`
	IsPopular        bool             `json:"isPopular"`
	IsOnSale         bool             `json:"isOnSale"`
}

// UpdateProductRequest replaces every column; inStock is set explicitly and
// never derived from stockQuantity.
type UpdateProductRequest struct {
	CreateProductRequest
	InStock *bool `json:"inStock" validate:"required"`
}

type ListProductsFilter struct {
	Category *Category
	InStock  *bool
	Popular  *bool
	Limit    int
}

type DeletedProduct struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ExchangeRate struct {
	Base  string  `json:"base"`
	Quote string  `json:"quote"`
	Rate  float64 `json:"rate"`
}
