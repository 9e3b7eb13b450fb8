// Package bmi computes and classifies Body Mass Index values.
package bmi

import (
	"fmt"
	"strconv"

	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/units"
)

// Category thresholds. Each band is closed below and open above.
const (
	NormalFrom     = 18.5
	OverweightFrom = 25.0
	ObeseFrom      = 30.0
)

// Policy selects which value is classified.
type Policy int

const (
	// ClassifyRounded classifies the one-decimal display value, so a raw
	// 24.96 shows as 25.0 and is Overweight.
	ClassifyRounded Policy = iota
	// ClassifyRaw classifies the unrounded ratio.
	ClassifyRaw
)

// ParsePolicy maps "rounded" or "raw" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "rounded":
		return ClassifyRounded, nil
	case "raw":
		return ClassifyRaw, nil
	}
	return 0, fmt.Errorf("unknown classify policy %q (use rounded or raw)", s)
}

func (p Policy) String() string {
	if p == ClassifyRaw {
		return "raw"
	}
	return "rounded"
}

// Evaluator turns canonical measurements into results.
type Evaluator struct {
	Policy Policy
}

// Evaluate computes the BMI of m. Height is assumed positive; callers get
// m from validation.
func (e Evaluator) Evaluate(m units.CanonicalMeasurement) model.Result {
	raw := Raw(m)
	value := Round(raw)
	classified := value
	if e.Policy == ClassifyRaw {
		classified = raw
	}
	cat := Classify(classified)
	return model.Result{
		Value:    value,
		Category: cat,
		Color:    ColorOf(cat),
		Tip:      Tip(cat),
	}
}

// Evaluate uses the default rounded classification policy.
func Evaluate(m units.CanonicalMeasurement) model.Result {
	return Evaluator{}.Evaluate(m)
}

// Raw is weight / height².
func Raw(m units.CanonicalMeasurement) float64 {
	h := m.HeightMeters()
	return m.WeightKg() / (h * h)
}

// Round rounds to the nearest tenth by formatting with one decimal and
// parsing the result back, so it always agrees with Format.
func Round(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

// Format renders a BMI value with one decimal place.
func Format(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Classify maps a BMI value to its category.
func Classify(v float64) model.Category {
	switch {
	case v < NormalFrom:
		return model.Underweight
	case v < OverweightFrom:
		return model.NormalWeight
	case v < ObeseFrom:
		return model.Overweight
	default:
		return model.Obese
	}
}

var colors = map[model.Category]model.Color{
	model.Underweight:  model.Blue,
	model.NormalWeight: model.Green,
	model.Overweight:   model.Orange,
	model.Obese:        model.Red,
}

// ColorOf returns the display color of a category. Unknown categories get
// the zero Color.
func ColorOf(c model.Category) model.Color {
	return colors[c]
}

// DefaultTip is returned for a category with no tip of its own.
const DefaultTip = "Maintain a healthy lifestyle."

var tips = map[model.Category]string{
	model.Underweight:  "Consider consulting a nutritionist to ensure you are meeting your dietary needs and promoting healthy weight gain.",
	model.NormalWeight: "Keep up the good work! Maintain a balanced diet and consistent exercise routine for optimal health.",
	model.Overweight:   "Focus on small, sustainable changes in diet and increase daily physical activity. Consistency is key.",
	model.Obese:        "It's important to consult a healthcare professional. Developing a structured diet and exercise plan can greatly improve your health.",
}

// Tip returns the health tip for a category.
func Tip(c model.Category) string {
	if t, ok := tips[c]; ok {
		return t
	}
	return DefaultTip
}
