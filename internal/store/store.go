// Package store provides the session calculation log and its SQLite implementation.
package store

import (
	"context"
	"time"

	"github.com/rcliao/bmicalc/internal/model"
)

// Row is one logged calculation.
type Row struct {
	ID        string           `json:"id"`
	Seq       uint64           `json:"seq"`
	BMI       float64          `json:"bmi"`
	Category  model.Category   `json:"category"`
	System    model.UnitSystem `json:"unit_system"`
	Source    string           `json:"source"`
	Date      string           `json:"date"`
	CreatedAt time.Time        `json:"created_at"`
}

// ListParams holds parameters for listing rows.
type ListParams struct {
	Category model.Category
	System   model.UnitSystem
	Limit    int
}

// Store defines the calculation log interface.
type Store interface {
	// Record logs one history entry. Returns the stored row.
	Record(ctx context.Context, e model.HistoryEntry) (*Row, error)

	// List lists rows matching the given filters, newest first.
	List(ctx context.Context, p ListParams) ([]Row, error)

	// Stats summarizes all logged rows.
	Stats(ctx context.Context) (*Stats, error)

	// ExportAll returns every row, oldest first.
	ExportAll(ctx context.Context) ([]Row, error)

	// Close closes the store and discards its contents.
	Close() error
}
