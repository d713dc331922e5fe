package catalog

import (
	"strings"
)

// CareExtras are the optional secondary attributes an admin can fill in.
// They are not stored individually; they become the product feature tags.
type CareExtras struct {
	Humidity       string `json:"humidity"`
	Temperature    string `json:"temperature"`
	Fertilizer     string `json:"fertilizer"`
	Repotting      string `json:"repotting"`
	Toxicity       string `json:"toxicity"`
	GrowthRate     string `json:"growthRate"`
	BloomingSeason string `json:"bloomingSeason"`
	SpecialNotes   string `json:"specialNotes"`
}

// BuildFeatures renders each non-blank attribute as "<Label>: <value>" in
// declaration order.
func BuildFeatures(x CareExtras) []string {
	entries := [...]struct {
		label string
		value string
	}{
		{"Humidity", x.Humidity},
		{"Temperature", x.Temperature},
		{"Fertilizer", x.Fertilizer},
		{"Repotting", x.Repotting},
		{"Toxicity", x.Toxicity},
		{"Growth Rate", x.GrowthRate},
		{"Blooming Season", x.BloomingSeason},
		{"Special Notes", x.SpecialNotes},
	}

	features := make([]string, 0, len(entries))
	for _, e := range entries {
		if v := strings.TrimSpace(e.value); v != "" {
			features = append(features, e.label+": "+v)
		}
	}

	return features
}
