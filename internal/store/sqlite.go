package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/bmicalc/internal/model"
)

// SQLiteStore implements Store on an in-memory SQLite database. Nothing is
// written to disk; the log lives as long as the store.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
	now     func() time.Time
}

// NewSQLiteStore opens a fresh in-memory database.
func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id          TEXT PRIMARY KEY,
		seq         INTEGER NOT NULL UNIQUE,
		bmi         REAL NOT NULL,
		category    TEXT NOT NULL,
		unit_system TEXT NOT NULL,
		source      TEXT NOT NULL,
		date        TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_calculations_category ON calculations(category);
	CREATE INDEX IF NOT EXISTS idx_calculations_system ON calculations(unit_system);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Record(ctx context.Context, e model.HistoryEntry) (*Row, error) {
	now := s.now().UTC()
	row := &Row{
		ID:        s.newID(),
		Seq:       e.ID,
		BMI:       e.BMI,
		Category:  e.Category,
		System:    e.UnitSystem,
		Source:    e.Source,
		Date:      e.Date,
		CreatedAt: now.Truncate(time.Millisecond),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calculations (id, seq, bmi, category, unit_system, source, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, int64(row.Seq), row.BMI, string(row.Category), string(row.System),
		row.Source, row.Date, row.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert calculation: %w", err)
	}
	return row, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]Row, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}

	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(p.Category))
	}
	if p.System != "" {
		where = append(where, "unit_system = ?")
		args = append(args, string(p.System))
	}

	query := fmt.Sprintf(`
		SELECT id, seq, bmi, category, unit_system, source, date, created_at
		FROM calculations
		WHERE %s
		ORDER BY seq DESC
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

func (s *SQLiteStore) ExportAll(ctx context.Context) ([]Row, error) {
	return s.query(ctx, `
		SELECT id, seq, bmi, category, unit_system, source, date, created_at
		FROM calculations ORDER BY seq`)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(row scanner) (Row, error) {
	var r Row
	var seq int64
	var category, system, createdAt string

	err := row.Scan(&r.ID, &seq, &r.BMI, &category, &system, &r.Source, &r.Date, &createdAt)
	if err != nil {
		return r, err
	}
	r.Seq = uint64(seq)
	r.Category = model.Category(category)
	r.System = model.UnitSystem(system)
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return r, nil
}
