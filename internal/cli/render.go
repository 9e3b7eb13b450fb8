package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rcliao/bmicalc/internal/bmi"
	"github.com/rcliao/bmicalc/internal/ledger"
	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/store"
)

type calcOutput struct {
	Result model.Result       `json:"result"`
	Entry  model.HistoryEntry `json:"entry"`
}

func printJSON(w io.Writer, v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func renderResult(w io.Writer, format string, r model.Result, e model.HistoryEntry) {
	if format == "json" {
		printJSON(w, calcOutput{Result: r, Entry: e})
		return
	}
	fmt.Fprintf(w, "Your BMI: %s\n", bmi.Format(r.Value))
	fmt.Fprintf(w, "Category: %s (%s)\n", r.Category, r.Color.Token)
	fmt.Fprintf(w, "Health Tip: %s\n", r.Tip)
	fmt.Fprintf(w, "Input: %s\n", e.Source)
}

func renderHistory(w io.Writer, format string, l ledger.Ledger) {
	entries := l.Entries()
	if format == "json" {
		printJSON(w, entries)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return
	}
	fmt.Fprintf(w, "Recent BMI History (%d of %d)\n", len(entries), ledger.Capacity)
	for _, e := range entries {
		fmt.Fprintf(w, "  #%-3d %5s  %-13s  %s (%s)  %s\n",
			e.ID, bmi.Format(e.BMI), e.Category, e.Date, e.UnitSystem, e.Source)
	}
}

func renderReference(w io.Writer, format string) {
	bands := bmi.Reference()
	if format == "json" {
		printJSON(w, bands)
		return
	}
	fmt.Fprintln(w, "BMI Categories")
	for _, b := range bands {
		fmt.Fprintf(w, "  • %s: %s (%s)\n", b.Label, b.Category, b.Color.Token)
	}
}

func renderStats(w io.Writer, format string, st *store.Stats) {
	if format == "json" {
		printJSON(w, st)
		return
	}
	fmt.Fprintf(w, "Calculations: %d\n", st.Total)
	if st.Total == 0 {
		return
	}
	fmt.Fprintf(w, "BMI mean %s, min %s, max %s\n", bmi.Format(st.MeanBMI), bmi.Format(st.MinBMI), bmi.Format(st.MaxBMI))
	for _, c := range st.Categories {
		fmt.Fprintf(w, "  %-13s %d\n", c.Category, c.Count)
	}
	for _, s := range st.Systems {
		fmt.Fprintf(w, "  %-13s %d\n", s.System, s.Count)
	}
}
