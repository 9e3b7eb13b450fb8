package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rcliao/bmicalc/internal/bmi"
	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/units"
	"github.com/rcliao/bmicalc/internal/validate"
)

var at = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fill(t *testing.T, s Session, kv ...string) Session {
	t.Helper()
	for i := 0; i+1 < len(kv); i += 2 {
		var err error
		s, err = s.SetField(units.Field(kv[i]), kv[i+1])
		if err != nil {
			t.Fatalf("set %s: %v", kv[i], err)
		}
	}
	return s
}

func TestCalculate_LocksAndRecords(t *testing.T) {
	s := fill(t, New(model.Metric, bmi.Evaluator{}), "height", "175", "weight", "70")

	s, err := s.Calculate(at)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if s.State() != Calculated {
		t.Errorf("expected calculated, got %s", s.State())
	}
	r, ok := s.Result()
	if !ok || r.Value != 22.9 || r.Category != model.NormalWeight {
		t.Errorf("unexpected result %+v (%v)", r, ok)
	}
	if s.History().Len() != 1 {
		t.Fatalf("expected 1 history entry, got %d", s.History().Len())
	}
	e, _ := s.History().Newest()
	if e.Source != "175 cm / 70 kg" || e.Date != "2026-10-15" || e.ID != 1 {
		t.Errorf("unexpected entry %+v", e)
	}

	if _, err := s.SetField(units.FieldHeight, "180"); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked on edit, got %v", err)
	}
	if _, err := s.Calculate(at); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked on recalculation, got %v", err)
	}
}

func TestCalculate_RejectionStaysEditing(t *testing.T) {
	s := fill(t, New(model.Metric, bmi.Evaluator{}), "height", "4", "weight", "70")

	next, err := s.Calculate(at)
	if !errors.Is(err, validate.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if next.State() != Editing {
		t.Errorf("expected editing, got %s", next.State())
	}
	if next.History().Len() != 0 {
		t.Errorf("expected empty history, got %d", next.History().Len())
	}
	if next.Input().Height != "4" {
		t.Errorf("expected input kept, got %q", next.Input().Height)
	}
}

func TestReset_KeepsHistory(t *testing.T) {
	s := fill(t, New(model.Metric, bmi.Evaluator{}), "height", "175", "weight", "70")
	s, _ = s.Calculate(at)

	s = s.Reset()
	if s.State() != Editing {
		t.Errorf("expected editing, got %s", s.State())
	}
	if _, ok := s.Result(); ok {
		t.Error("expected result cleared")
	}
	if s.Input() != (units.Measurement{System: model.Metric}) {
		t.Errorf("expected cleared fields, got %+v", s.Input())
	}
	if s.History().Len() != 1 {
		t.Errorf("expected history kept, got %d", s.History().Len())
	}
}

func TestResetThenRecalculate_IsDeterministic(t *testing.T) {
	s := fill(t, New(model.Metric, bmi.Evaluator{}), "height", "168", "weight", "61,2")
	s, _ = s.Calculate(at)
	first, _ := s.Result()
	firstEntry, _ := s.History().Newest()

	s = fill(t, s.Reset(), "height", "168", "weight", "61,2")
	s, err := s.Calculate(at)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	second, _ := s.Result()
	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}

	entries := s.History().Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1] != firstEntry {
		t.Errorf("earlier entry changed: %+v -> %+v", firstEntry, entries[1])
	}
	if entries[0].ID <= entries[1].ID {
		t.Errorf("expected increasing ids, got %d then %d", entries[1].ID, entries[0].ID)
	}
}

func TestSwitchUnits(t *testing.T) {
	s := fill(t, New(model.Metric, bmi.Evaluator{}), "height", "175")

	same := s.SwitchUnits(model.Metric)
	if same.Input().Height != "175" {
		t.Errorf("switching to the same system should keep fields, got %+v", same.Input())
	}

	s = s.SwitchUnits(model.Imperial)
	if s.UnitSystem() != model.Imperial || s.Input().Height != "" {
		t.Errorf("expected cleared imperial input, got %+v", s.Input())
	}
	if s.State() != Editing {
		t.Errorf("expected editing, got %s", s.State())
	}
}

func TestSwitchUnits_FromCalculatedReturnsToEditing(t *testing.T) {
	s := fill(t, New(model.Imperial, bmi.Evaluator{}), "feet", "5", "inches", "10", "pounds", "160")
	s, err := s.Calculate(at)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	s = s.SwitchUnits(model.Metric)
	if s.State() != Editing {
		t.Errorf("expected editing, got %s", s.State())
	}
	if _, ok := s.Result(); ok {
		t.Error("expected result cleared")
	}
	if s.History().Len() != 1 {
		t.Errorf("expected history kept, got %d", s.History().Len())
	}
	if _, err := s.SetField(units.FieldHeight, "180"); err != nil {
		t.Errorf("expected inputs unlocked, got %v", err)
	}
}

func TestPress_TogglesCalculateAndReset(t *testing.T) {
	s := fill(t, New(model.Metric, bmi.Evaluator{}), "height", "175", "weight", "70")

	s, err := s.Press(at)
	if err != nil || s.State() != Calculated {
		t.Fatalf("first press: state %s, err %v", s.State(), err)
	}
	s, err = s.Press(at)
	if err != nil || s.State() != Editing {
		t.Fatalf("second press: state %s, err %v", s.State(), err)
	}
	if s.Input().Height != "" {
		t.Errorf("expected cleared fields after reset press, got %q", s.Input().Height)
	}
}

func TestHistory_BoundedAcrossCalculations(t *testing.T) {
	s := New(model.Metric, bmi.Evaluator{})
	for i := 0; i < 12; i++ {
		s = fill(t, s, "height", "175", "weight", "70")
		var err error
		if s, err = s.Press(at); err != nil {
			t.Fatalf("calc %d: %v", i, err)
		}
		s, _ = s.Press(at)
	}
	es := s.History().Entries()
	if len(es) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(es))
	}
	if es[0].ID != 12 || es[9].ID != 3 {
		t.Errorf("expected ids 12..3, got %d..%d", es[0].ID, es[9].ID)
	}
}

func TestNew_DefaultsToMetric(t *testing.T) {
	s := New("", bmi.Evaluator{})
	if s.UnitSystem() != model.Metric {
		t.Errorf("expected metric, got %s", s.UnitSystem())
	}
}
