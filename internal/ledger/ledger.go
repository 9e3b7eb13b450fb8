// Package ledger keeps the bounded, newest-first history of BMI results.
package ledger

import (
	"time"

	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/units"
)

// Capacity is the maximum number of entries a Ledger holds.
const Capacity = 10

// Ledger is an immutable newest-first sequence of at most Capacity entries.
// The zero value is an empty ledger.
type Ledger struct {
	entries []model.HistoryEntry
}

// Record returns a new ledger with e prepended and the oldest entries beyond
// Capacity dropped. l is not modified.
func Record(l Ledger, e model.HistoryEntry) Ledger {
	n := len(l.entries) + 1
	if n > Capacity {
		n = Capacity
	}
	entries := make([]model.HistoryEntry, 0, n)
	entries = append(entries, e)
	entries = append(entries, l.entries[:n-1]...)
	return Ledger{entries: entries}
}

// Entries returns a copy of the entries, newest first.
func (l Ledger) Entries() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len is the number of entries.
func (l Ledger) Len() int { return len(l.entries) }

// Newest returns the most recent entry.
func (l Ledger) Newest() (model.HistoryEntry, bool) {
	if len(l.entries) == 0 {
		return model.HistoryEntry{}, false
	}
	return l.entries[0], true
}

// Sequence hands out strictly increasing entry ids starting at 1.
// The zero value is ready to use.
type Sequence struct {
	last uint64
}

// Next returns the next id and the advanced sequence.
func (s Sequence) Next() (uint64, Sequence) {
	s.last++
	return s.last, s
}

// Last is the most recently issued id, or 0.
func (s Sequence) Last() uint64 { return s.last }

// NewEntry builds the history entry for a result computed from q at time at.
func NewEntry(id uint64, r model.Result, q units.Quantities, at time.Time) model.HistoryEntry {
	return model.HistoryEntry{
		ID:         id,
		BMI:        r.Value,
		Category:   r.Category,
		Date:       at.Format(model.DateLayout),
		UnitSystem: q.System,
		Source:     units.Describe(q),
	}
}
