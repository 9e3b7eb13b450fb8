package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/bmicalc/internal/bmi"
	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/session"
	"github.com/rcliao/bmicalc/internal/store"
)

func newTestRepl(t *testing.T, format string) (*repl, *bytes.Buffer) {
	t.Helper()
	s, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	out := &bytes.Buffer{}
	return &repl{
		sess:   session.New(model.Metric, bmi.Evaluator{}),
		log:    s,
		out:    out,
		format: format,
		now:    func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) },
	}, out
}

func runScript(t *testing.T, r *repl, lines ...string) {
	t.Helper()
	if err := r.run(context.Background(), strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRepl_MetricCalculation(t *testing.T) {
	r, out := newTestRepl(t, "text")
	runScript(t, r, "set height 175", "set weight 70", "calc")

	got := out.String()
	for _, want := range []string{"Your BMI: 22.9", "Category: Normal Weight (GREEN)", "Input: 175 cm / 70 kg"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if r.sess.State() != session.Calculated {
		t.Errorf("expected calculated, got %s", r.sess.State())
	}
}

func TestRepl_RejectionKeepsEditing(t *testing.T) {
	r, out := newTestRepl(t, "text")
	runScript(t, r, "set height 4", "set weight 70", "calc")

	if !strings.Contains(out.String(), "error: Height must be between 5 cm and 300 cm (got 4 cm).") {
		t.Errorf("expected range error, got:\n%s", out.String())
	}
	if r.sess.State() != session.Editing {
		t.Errorf("expected editing, got %s", r.sess.State())
	}
}

func TestRepl_LockedUntilReset(t *testing.T) {
	r, out := newTestRepl(t, "text")
	runScript(t, r, "set height 175", "set weight 70", "calc", "set weight 80")

	if !strings.Contains(out.String(), "error: "+session.ErrLocked.Error()) {
		t.Errorf("expected locked error, got:\n%s", out.String())
	}

	runScript(t, r, "press", "set weight 80", "set height 175", "press")
	if r.sess.History().Len() != 2 {
		t.Errorf("expected 2 history entries, got %d", r.sess.History().Len())
	}
}

func TestRepl_ImperialWithDecimalComma(t *testing.T) {
	r, out := newTestRepl(t, "text")
	runScript(t, r, "units imperial", "set feet 5", "set in 8,9", "set lbs 154,32", "calc")

	if !strings.Contains(out.String(), "Your BMI: 22.9") {
		t.Errorf("expected BMI 22.9, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `Input: 5'8.9" / 154.32 lbs`) {
		t.Errorf("expected imperial source, got:\n%s", out.String())
	}
}

func TestRepl_HistoryStatsExport(t *testing.T) {
	r, out := newTestRepl(t, "json")
	runScript(t, r,
		"set height 180", "set weight 50", "press", "press",
		"set height 180", "set weight 110", "press", "press",
	)
	out.Reset()

	runScript(t, r, "export")
	var rows []store.Row
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("decode export: %v\n%s", err, out.String())
	}
	if len(rows) != 2 || rows[0].Category != model.Underweight || rows[1].Category != model.Obese {
		t.Errorf("unexpected export %+v", rows)
	}
	out.Reset()

	runScript(t, r, "stats")
	var st store.Stats
	if err := json.Unmarshal(out.Bytes(), &st); err != nil {
		t.Fatalf("decode stats: %v\n%s", err, out.String())
	}
	if st.Total != 2 {
		t.Errorf("expected 2 calculations, got %d", st.Total)
	}
	out.Reset()

	runScript(t, r, "history")
	var entries []model.HistoryEntry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out.String())
	}
	if len(entries) != 2 || entries[0].Category != model.Obese {
		t.Errorf("expected newest-first history, got %+v", entries)
	}
}

type failingStore struct {
	store.Store
}

func (failingStore) Record(ctx context.Context, e model.HistoryEntry) (*store.Row, error) {
	return nil, errors.New("disk I/O error")
}

func TestRepl_RecordFailureIsReported(t *testing.T) {
	r, out := newTestRepl(t, "text")
	r.log = failingStore{}
	runScript(t, r, "set height 175", "set weight 70", "calc")

	got := out.String()
	if !strings.Contains(got, "Your BMI: 22.9") {
		t.Errorf("expected result despite store failure, got:\n%s", got)
	}
	if !strings.Contains(got, "warning: calculation 1 not added to session stats: disk I/O error") {
		t.Errorf("expected store failure warning, got:\n%s", got)
	}
	if r.sess.History().Len() != 1 {
		t.Errorf("expected history entry kept, got %d", r.sess.History().Len())
	}
}

func TestRepl_QuitStopsReading(t *testing.T) {
	r, _ := newTestRepl(t, "text")
	runScript(t, r, "quit", "set height 175")

	if r.sess.Input().Height != "" {
		t.Errorf("expected commands after quit to be ignored, got %q", r.sess.Input().Height)
	}
}

func TestRepl_UnknownCommand(t *testing.T) {
	r, out := newTestRepl(t, "text")
	runScript(t, r, "jump")

	if !strings.Contains(out.String(), `unknown command "jump"`) {
		t.Errorf("expected unknown command error, got:\n%s", out.String())
	}
}

func TestRenderHistory_Text(t *testing.T) {
	r, out := newTestRepl(t, "text")
	runScript(t, r, "history")
	if !strings.Contains(out.String(), "No history yet.") {
		t.Errorf("expected empty history message, got:\n%s", out.String())
	}
	out.Reset()

	runScript(t, r, "set height 175", "set weight 70", "calc")
	out.Reset()
	runScript(t, r, "history")
	if !strings.Contains(out.String(), "Recent BMI History (1 of 10)") {
		t.Errorf("expected history header, got:\n%s", out.String())
	}
}
