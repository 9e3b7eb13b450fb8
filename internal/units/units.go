// Package units converts raw metric or imperial input into meters and kilograms.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rcliao/bmicalc/internal/model"
)

// Conversion factors. Fixed, not configurable.
const (
	CentimetersPerMeter = 100.0
	InchesPerFoot       = 12.0
	MetersPerInch       = 0.0254
	KilogramsPerPound   = 0.453592
)

// Field names a raw input field or a derived quantity.
type Field string

const (
	FieldHeight Field = "height"
	FieldWeight Field = "weight"
	FieldFeet   Field = "feet"
	FieldInches Field = "inches"
	FieldPounds Field = "pounds"
)

// ParseField resolves a field name, accepting a few common aliases.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "height", "h", "cm":
		return FieldHeight, nil
	case "weight", "w", "kg":
		return FieldWeight, nil
	case "feet", "ft":
		return FieldFeet, nil
	case "inches", "in":
		return FieldInches, nil
	case "pounds", "lbs", "lb":
		return FieldPounds, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Measurement is raw user input, kept as text until conversion.
// Metric uses Height (cm) and Weight (kg); Imperial uses Feet, Inches and Pounds.
type Measurement struct {
	System model.UnitSystem `json:"unit_system"`
	Height string           `json:"height,omitempty"`
	Weight string           `json:"weight,omitempty"`
	Feet   string           `json:"feet,omitempty"`
	Inches string           `json:"inches,omitempty"`
	Pounds string           `json:"pounds,omitempty"`
}

// Get returns the raw text of a field.
func (m Measurement) Get(f Field) string {
	switch f {
	case FieldHeight:
		return m.Height
	case FieldWeight:
		return m.Weight
	case FieldFeet:
		return m.Feet
	case FieldInches:
		return m.Inches
	case FieldPounds:
		return m.Pounds
	}
	return ""
}

// With returns a copy of m with field f set to text.
func (m Measurement) With(f Field, text string) Measurement {
	switch f {
	case FieldHeight:
		m.Height = text
	case FieldWeight:
		m.Weight = text
	case FieldFeet:
		m.Feet = text
	case FieldInches:
		m.Inches = text
	case FieldPounds:
		m.Pounds = text
	}
	return m
}

// Fields lists the raw fields used by a unit system, in entry order.
func Fields(u model.UnitSystem) []Field {
	if u == model.Imperial {
		return []Field{FieldFeet, FieldInches, FieldPounds}
	}
	return []Field{FieldHeight, FieldWeight}
}

// Required lists the fields that must be non-empty for a unit system.
func Required(u model.UnitSystem) []Field {
	if u == model.Imperial {
		return []Field{FieldFeet, FieldPounds}
	}
	return []Field{FieldHeight, FieldWeight}
}

// Normalize trims surrounding space and turns decimal commas into periods.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

var decimalRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseDecimal parses normalized decimal text. Hex floats, infinities and NaN
// are rejected.
func ParseDecimal(s string) (float64, error) {
	s = Normalize(s)
	if !decimalRe.MatchString(s) {
		return 0, fmt.Errorf("not a decimal number: %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// ConversionError reports a required field that does not parse as a number.
type ConversionError struct {
	Field Field
	Text  string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s %q: %v", e.Field, e.Text, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Quantities are parsed input values in the units they were entered in.
type Quantities struct {
	System   model.UnitSystem
	HeightCm float64
	WeightKg float64
	Feet     float64
	Inches   float64
	Pounds   float64
}

// Parse parses the fields of m required by its unit system. A blank inches
// field counts as zero.
func Parse(m Measurement) (Quantities, error) {
	q := Quantities{System: m.System}
	targets := map[Field]*float64{
		FieldHeight: &q.HeightCm,
		FieldWeight: &q.WeightKg,
		FieldFeet:   &q.Feet,
		FieldInches: &q.Inches,
		FieldPounds: &q.Pounds,
	}
	for _, f := range Fields(m.System) {
		text := m.Get(f)
		if f == FieldInches && Normalize(text) == "" {
			continue
		}
		v, err := ParseDecimal(text)
		if err != nil {
			return Quantities{}, &ConversionError{Field: f, Text: text, Err: err}
		}
		*targets[f] = v
	}
	return q, nil
}

// TotalInches is feet*12 + inches.
func (q Quantities) TotalInches() float64 {
	return q.Feet*InchesPerFoot + q.Inches
}

// Height returns the height in the entry unit system: centimeters or total inches.
func (q Quantities) Height() float64 {
	if q.System == model.Imperial {
		return q.TotalInches()
	}
	return q.HeightCm
}

// Weight returns the weight in the entry unit system: kilograms or pounds.
func (q Quantities) Weight() float64 {
	if q.System == model.Imperial {
		return q.Pounds
	}
	return q.WeightKg
}

// HeightUnit and WeightUnit name the units of Height and Weight.
func HeightUnit(u model.UnitSystem) string {
	if u == model.Imperial {
		return "in"
	}
	return "cm"
}

func WeightUnit(u model.UnitSystem) string {
	if u == model.Imperial {
		return "lbs"
	}
	return "kg"
}

// CanonicalMeasurement is height in meters and weight in kilograms.
// It can only be produced by this package.
type CanonicalMeasurement struct {
	heightMeters float64
	weightKg     float64
}

func (c CanonicalMeasurement) HeightMeters() float64 { return c.heightMeters }
func (c CanonicalMeasurement) WeightKg() float64     { return c.weightKg }

// Canonicalize converts parsed quantities to meters and kilograms.
func Canonicalize(q Quantities) CanonicalMeasurement {
	if q.System == model.Imperial {
		return CanonicalMeasurement{
			heightMeters: q.TotalInches() * MetersPerInch,
			weightKg:     q.Pounds * KilogramsPerPound,
		}
	}
	return CanonicalMeasurement{
		heightMeters: q.HeightCm / CentimetersPerMeter,
		weightKg:     q.WeightKg,
	}
}

// Convert parses and canonicalizes m. It does not check signs or ranges.
func Convert(m Measurement) (CanonicalMeasurement, error) {
	q, err := Parse(m)
	if err != nil {
		return CanonicalMeasurement{}, err
	}
	return Canonicalize(q), nil
}

// Describe echoes the parsed input, e.g. `175 cm / 70.5 kg` or `5'8" / 154 lbs`.
func Describe(q Quantities) string {
	if q.System == model.Imperial {
		return fmt.Sprintf(`%s'%s" / %s lbs`, formatNumber(q.Feet), formatNumber(q.Inches), formatNumber(q.Pounds))
	}
	return fmt.Sprintf("%s cm / %s kg", formatNumber(q.HeightCm), formatNumber(q.WeightKg))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
