// Package session models one interactive BMI calculator session.
//
// A Session is an immutable value. Every transition returns the next
// Session, so the caller owns the only copy that matters.
package session

import (
	"errors"
	"time"

	"github.com/rcliao/bmicalc/internal/bmi"
	"github.com/rcliao/bmicalc/internal/ledger"
	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/units"
	"github.com/rcliao/bmicalc/internal/validate"
)

// State is the interaction state.
type State int

const (
	// Editing: inputs open, no result shown.
	Editing State = iota
	// Calculated: inputs locked, result shown until reset.
	Calculated
)

func (s State) String() string {
	if s == Calculated {
		return "calculated"
	}
	return "editing"
}

// ErrLocked is returned when an input is edited after a calculation.
var ErrLocked = errors.New("inputs are locked until reset")

// Session holds the unit system, raw input, lock state, last result and history.
type Session struct {
	input     units.Measurement
	state     State
	result    *model.Result
	history   ledger.Ledger
	seq       ledger.Sequence
	evaluator bmi.Evaluator
}

// New starts an empty session in the Editing state.
func New(system model.UnitSystem, e bmi.Evaluator) Session {
	if system == "" {
		system = model.Metric
	}
	return Session{input: units.Measurement{System: system}, evaluator: e}
}

func (s Session) State() State                { return s.state }
func (s Session) UnitSystem() model.UnitSystem { return s.input.System }
func (s Session) Input() units.Measurement     { return s.input }
func (s Session) History() ledger.Ledger       { return s.history }

// Result returns the current result, if the session is Calculated.
func (s Session) Result() (model.Result, bool) {
	if s.result == nil {
		return model.Result{}, false
	}
	return *s.result, true
}

// SetField stores raw text for a field. The text is kept exactly as typed.
func (s Session) SetField(f units.Field, text string) (Session, error) {
	if s.state == Calculated {
		return s, ErrLocked
	}
	s.input = s.input.With(f, text)
	return s, nil
}

// SwitchUnits selects a unit system. Choosing a different system clears all
// fields and any result, returning to Editing. Choosing the current system
// changes nothing.
func (s Session) SwitchUnits(system model.UnitSystem) Session {
	if system == s.input.System {
		return s
	}
	return s.cleared(system)
}

// Reset clears the fields and result and returns to Editing. History is kept.
func (s Session) Reset() Session {
	return s.cleared(s.input.System)
}

func (s Session) cleared(system model.UnitSystem) Session {
	s.input = units.Measurement{System: system}
	s.result = nil
	s.state = Editing
	return s
}

// Calculate validates the input, evaluates it, records a history entry dated
// at, and locks the inputs. On rejection the session is returned unchanged
// with a *validate.Error. Calculating again while locked is an error.
func (s Session) Calculate(at time.Time) (Session, error) {
	if s.state == Calculated {
		return s, ErrLocked
	}
	v := validate.Validate(s.input)
	if !v.Valid() {
		return s, v.Err
	}
	r := s.evaluator.Evaluate(v.Measurement)

	var id uint64
	id, s.seq = s.seq.Next()
	s.history = ledger.Record(s.history, ledger.NewEntry(id, r, v.Quantities, at))
	s.result = &r
	s.state = Calculated
	return s, nil
}

// Press acts as the single calculator button: Calculate while Editing,
// Reset while Calculated.
func (s Session) Press(at time.Time) (Session, error) {
	if s.state == Calculated {
		return s.Reset(), nil
	}
	return s.Calculate(at)
}
