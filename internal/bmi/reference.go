package bmi

import "github.com/rcliao/bmicalc/internal/model"

// Band is one row of the category reference table.
type Band struct {
	Label    string         `json:"label"`
	Category model.Category `json:"category"`
	Color    model.Color    `json:"color"`
}

// Reference returns the static category table, lowest band first.
func Reference() []Band {
	rows := []struct {
		label string
		cat   model.Category
	}{
		{"Below 18.5", model.Underweight},
		{"18.5 - 24.9", model.NormalWeight},
		{"25.0 - 29.9", model.Overweight},
		{"30.0+", model.Obese},
	}
	bands := make([]Band, 0, len(rows))
	for _, r := range rows {
		bands = append(bands, Band{Label: r.label, Category: r.cat, Color: ColorOf(r.cat)})
	}
	return bands
}
