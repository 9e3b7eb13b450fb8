// Package validate checks raw BMI input and produces canonical measurements.
//
// Rules run in a fixed order and the first failing rule wins:
// presence, numeric, positive, range.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/units"
)

// Kind classifies a rejection.
type Kind string

const (
	KindMissingField Kind = "missing_field"
	KindNotANumber   Kind = "not_a_number"
	KindNonPositive  Kind = "non_positive"
	KindOutOfRange   Kind = "out_of_range"
)

// Sentinels for errors.Is; every *Error unwraps to the one matching its Kind.
var (
	ErrMissingField = errors.New("missing field")
	ErrNotANumber   = errors.New("not a number")
	ErrNonPositive  = errors.New("non-positive value")
	ErrOutOfRange   = errors.New("out of range")
)

var sentinels = map[Kind]error{
	KindMissingField: ErrMissingField,
	KindNotANumber:   ErrNotANumber,
	KindNonPositive:  ErrNonPositive,
	KindOutOfRange:   ErrOutOfRange,
}

// Error is a user-correctable rejection. Value, Min, Max and Unit are set
// for non-positive and out-of-range rejections; Text carries the raw input
// for not-a-number rejections.
type Error struct {
	Kind   Kind             `json:"kind"`
	System model.UnitSystem `json:"unit_system"`
	Field  units.Field      `json:"field"`
	Text   string           `json:"text,omitempty"`
	Value  float64          `json:"value,omitempty"`
	Min    float64          `json:"min,omitempty"`
	Max    float64          `json:"max,omitempty"`
	Unit   string           `json:"unit,omitempty"`
}

func (e *Error) Error() string { return e.Message() }

func (e *Error) Unwrap() error { return sentinels[e.Kind] }

// Message is suitable for direct display to the user.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMissingField:
		if e.System == model.Imperial {
			return fmt.Sprintf("Please enter height (feet/inches) and weight (lbs). Missing: %s.", e.Field)
		}
		return fmt.Sprintf("Please enter both height (cm) and weight (kg). Missing: %s.", e.Field)
	case KindNotANumber:
		return fmt.Sprintf("Please enter a valid number for %s (got %q).", e.Field, e.Text)
	case KindNonPositive:
		return fmt.Sprintf("Please enter a positive %s (got %s %s).", e.Field, num(e.Value), e.Unit)
	case KindOutOfRange:
		return fmt.Sprintf("%s must be between %s %s and %s %s (got %s %s).",
			capitalize(string(e.Field)), num(e.Min), e.Unit, num(e.Max), e.Unit, num(e.Value), e.Unit)
	}
	return "Invalid input."
}

// Bound is the plausible range for one derived quantity, inclusive.
type Bound struct {
	Field units.Field
	Min   float64
	Max   float64
	Unit  string
}

// Bounds are the physiological plausibility ranges per unit system, checked in order.
var Bounds = map[model.UnitSystem][]Bound{
	model.Metric: {
		{Field: units.FieldHeight, Min: 5, Max: 300, Unit: "cm"},
		{Field: units.FieldWeight, Min: 0.2, Max: 600, Unit: "kg"},
	},
	model.Imperial: {
		{Field: units.FieldHeight, Min: 40, Max: 120, Unit: "in"},
		{Field: units.FieldWeight, Min: 4, Max: 1350, Unit: "lbs"},
	},
}

// Result is the validated outcome: either Measurement is usable and Err is
// nil, or Err describes the first failing rule.
type Result struct {
	Measurement units.CanonicalMeasurement
	Quantities  units.Quantities
	Err         *Error
}

// Valid reports whether validation passed.
func (r Result) Valid() bool { return r.Err == nil }

type check struct {
	m units.Measurement
	q units.Quantities
}

type rule struct {
	name  string
	apply func(c *check) *Error
}

var rules = []rule{
	{name: "presence", apply: checkPresence},
	{name: "numeric", apply: checkNumeric},
	{name: "positive", apply: checkPositive},
	{name: "range", apply: checkRange},
}

// Validate runs the rule list against m and returns the first rejection, if any.
// An unset unit system is treated as metric.
func Validate(m units.Measurement) Result {
	if m.System == "" {
		m.System = model.Metric
	}
	c := &check{m: m}
	for _, r := range rules {
		if err := r.apply(c); err != nil {
			return Result{Err: err}
		}
	}
	return Result{Measurement: units.Canonicalize(c.q), Quantities: c.q}
}

func checkPresence(c *check) *Error {
	for _, f := range units.Required(c.m.System) {
		if units.Normalize(c.m.Get(f)) == "" {
			return &Error{Kind: KindMissingField, System: c.m.System, Field: f}
		}
	}
	return nil
}

func checkNumeric(c *check) *Error {
	q, err := units.Parse(c.m)
	if err != nil {
		var ce *units.ConversionError
		if errors.As(err, &ce) {
			return &Error{Kind: KindNotANumber, System: c.m.System, Field: ce.Field, Text: ce.Text}
		}
		return &Error{Kind: KindNotANumber, System: c.m.System}
	}
	c.q = q
	return nil
}

func checkPositive(c *check) *Error {
	sys := c.m.System
	if h := c.q.Height(); h <= 0 {
		return &Error{Kind: KindNonPositive, System: sys, Field: units.FieldHeight, Value: h, Unit: units.HeightUnit(sys)}
	}
	if w := c.q.Weight(); w <= 0 {
		return &Error{Kind: KindNonPositive, System: sys, Field: units.FieldWeight, Value: w, Unit: units.WeightUnit(sys)}
	}
	return nil
}

func checkRange(c *check) *Error {
	for _, b := range Bounds[c.m.System] {
		v := c.q.Weight()
		if b.Field == units.FieldHeight {
			v = c.q.Height()
		}
		if v < b.Min || v > b.Max {
			return &Error{
				Kind:   KindOutOfRange,
				System: c.m.System,
				Field:  b.Field,
				Value:  v,
				Min:    b.Min,
				Max:    b.Max,
				Unit:   b.Unit,
			}
		}
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
