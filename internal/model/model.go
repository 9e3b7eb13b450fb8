// Package model defines the core BMI data types.
package model

import (
	"fmt"
	"strings"
)

// UnitSystem selects how raw height and weight are entered.
type UnitSystem string

const (
	Metric   UnitSystem = "Metric"
	Imperial UnitSystem = "Imperial"
)

// ValidUnitSystems are the accepted unit systems, keyed by lowercase name.
var ValidUnitSystems = map[string]UnitSystem{
	"metric":   Metric,
	"imperial": Imperial,
}

// ParseUnitSystem resolves a unit system name case-insensitively.
func ParseUnitSystem(s string) (UnitSystem, error) {
	u, ok := ValidUnitSystems[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown unit system %q (use metric or imperial)", s)
	}
	return u, nil
}

// Category is a BMI health category.
type Category string

const (
	Underweight  Category = "Underweight"
	NormalWeight Category = "Normal Weight"
	Overweight   Category = "Overweight"
	Obese        Category = "Obese"
)

// Color is the display color assigned to a category.
type Color struct {
	Token string `json:"token"`
	Hex   string `json:"hex"`
}

var (
	Blue   = Color{Token: "BLUE", Hex: "#3498DB"}
	Green  = Color{Token: "GREEN", Hex: "#2ECC71"}
	Orange = Color{Token: "ORANGE", Hex: "#F39C12"}
	Red    = Color{Token: "RED", Hex: "#E74C3C"}
)

// Result is the outcome of evaluating one measurement.
// Value is rounded to one decimal place.
type Result struct {
	Value    float64  `json:"bmi"`
	Category Category `json:"category"`
	Color    Color    `json:"color"`
	Tip      string   `json:"tip"`
}

// HistoryEntry is one immutable record in the session history.
type HistoryEntry struct {
	ID         uint64     `json:"id"`
	BMI        float64    `json:"bmi"`
	Category   Category   `json:"category"`
	Date       string     `json:"date"`
	UnitSystem UnitSystem `json:"unit_system"`
	Source     string     `json:"source"`
}

// DateLayout is the calendar date format used for HistoryEntry.Date.
const DateLayout = "2006-01-02"
