/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists workplaces, shift entries and holidays for the server. The pay
  configuration of a workplace is stored as the factory JSON document, so
  the column survives new pay options without a migration.

KEY TABLES:
  workplaces: One row per workplace, pay config in pay_json
  shifts:     One row per shift entry, cascades with its workplace
  holidays:   Dated and recurring holidays

INDEXES:
  - idx_shifts_workplace_date: Range queries per workplace (hot path)
  - idx_holidays_date: Holiday lookups

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./njob.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for testing
  - factory: Pay configuration encoding
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/njob-manager/factory"
	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/store"
	"github.com/warp/njob-manager/wage"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workplaces (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		salary_type TEXT NOT NULL DEFAULT '',
		income_type TEXT NOT NULL DEFAULT '',
		pay_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		workplace_id TEXT NOT NULL REFERENCES workplaces(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		memo TEXT NOT NULL DEFAULT '',
		is_holiday INTEGER,
		source TEXT NOT NULL DEFAULT 'manual',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_workplace_date
		ON shifts(workplace_id, date, start_time);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKPLACE STORE
// =============================================================================

// SaveWorkplace inserts or updates a workplace. CreatedAt is kept on update.
func (s *Store) SaveWorkplace(ctx context.Context, w schedule.Workplace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pay, err := factory.EncodePay(w.Pay)
	if err != nil {
		return fmt.Errorf("encode pay config: %w", err)
	}

	query := `
		INSERT INTO workplaces (id, name, color, salary_type, income_type, pay_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			salary_type = excluded.salary_type,
			income_type = excluded.income_type,
			pay_json = excluded.pay_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err = s.db.ExecContext(ctx, query,
		w.ID, w.Name, w.Color, string(w.SalaryType), string(w.IncomeType), pay,
		createdAt.UTC().Format(time.RFC3339), now.Format(time.RFC3339),
	)
	return err
}

const workplaceColumns = "id, name, color, salary_type, income_type, pay_json, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkplace(row scanner) (schedule.Workplace, error) {
	var w schedule.Workplace
	var salaryType, incomeType, pay, createdAt, updatedAt string
	if err := row.Scan(&w.ID, &w.Name, &w.Color, &salaryType, &incomeType, &pay, &createdAt, &updatedAt); err != nil {
		return w, err
	}
	cfg, err := factory.DecodePay(pay)
	if err != nil {
		return w, fmt.Errorf("workplace %s: %w", w.ID, err)
	}
	w.SalaryType = schedule.SalaryType(salaryType)
	w.IncomeType = schedule.IncomeType(incomeType)
	w.Pay = cfg
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	w.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return w, nil
}

// GetWorkplace retrieves a workplace by ID.
func (s *Store) GetWorkplace(ctx context.Context, id string) (*schedule.Workplace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, err := scanWorkplace(s.db.QueryRowContext(ctx,
		"SELECT "+workplaceColumns+" FROM workplaces WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkplaces returns all workplaces in creation order.
func (s *Store) ListWorkplaces(ctx context.Context) ([]schedule.Workplace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+workplaceColumns+" FROM workplaces ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workplaces []schedule.Workplace
	for rows.Next() {
		w, err := scanWorkplace(rows)
		if err != nil {
			return nil, err
		}
		workplaces = append(workplaces, w)
	}
	return workplaces, rows.Err()
}

// DeleteWorkplace removes a workplace and, through the foreign key, its shifts.
func (s *Store) DeleteWorkplace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteByID(ctx, s.db, "workplaces", "workplace", id)
}

func deleteByID(ctx context.Context, db *sql.DB, table, kind, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

// SaveEntry inserts or updates a shift entry.
func (s *Store) SaveEntry(ctx context.Context, e schedule.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveEntry(ctx, s.db, e)
}

// SaveEntries saves every entry in one transaction. On error nothing is saved.
func (s *Store) SaveEntries(ctx context.Context, entries []schedule.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := saveEntry(ctx, tx, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func saveEntry(ctx context.Context, db execer, e schedule.Entry) error {
	var exists int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workplaces WHERE id = ?", e.WorkplaceID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("workplace %s: %w", e.WorkplaceID, store.ErrNotFound)
	}

	query := `
		INSERT INTO shifts (id, workplace_id, date, start_time, end_time, memo, is_holiday, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			workplace_id = excluded.workplace_id,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			memo = excluded.memo,
			is_holiday = excluded.is_holiday,
			source = excluded.source
	`

	var isHoliday sql.NullBool
	if e.Shift.IsHoliday != nil {
		isHoliday = sql.NullBool{Bool: *e.Shift.IsHoliday, Valid: true}
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	source := e.Source
	if source == "" {
		source = schedule.SourceManual
	}

	_, err := db.ExecContext(ctx, query,
		e.ID, e.WorkplaceID,
		wage.DateOf(e.Shift.Date).Format(wage.DateLayout),
		e.Shift.Start.String(), e.Shift.End.String(),
		e.Shift.Memo, isHoliday, string(source),
		createdAt.UTC().Format(time.RFC3339),
	)
	return err
}

const entryColumns = "id, workplace_id, date, start_time, end_time, memo, is_holiday, source, created_at"

func scanEntry(row scanner) (schedule.Entry, error) {
	var e schedule.Entry
	var date, start, end, source, createdAt string
	var isHoliday sql.NullBool
	if err := row.Scan(&e.ID, &e.WorkplaceID, &date, &start, &end, &e.Shift.Memo, &isHoliday, &source, &createdAt); err != nil {
		return e, err
	}

	memo := e.Shift.Memo
	shift, err := wage.NewShift(date, start, end)
	if err != nil {
		return e, fmt.Errorf("shift %s: %w", e.ID, err)
	}
	shift.Memo = memo
	if isHoliday.Valid {
		shift = shift.WithHoliday(isHoliday.Bool)
	}
	e.Shift = shift
	e.Source = schedule.Source(source)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// GetEntry retrieves a shift entry by ID.
func (s *Store) GetEntry(ctx context.Context, id string) (*schedule.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := scanEntry(s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM shifts WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries returns the entries matching f by date, then start time.
func (s *Store) ListEntries(ctx context.Context, f schedule.Filter) ([]schedule.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if f.WorkplaceID != "" {
		where = append(where, "workplace_id = ?")
		args = append(args, f.WorkplaceID)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, wage.DateOf(f.From).Format(wage.DateLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, wage.DateOf(f.To).Format(wage.DateLayout))
	}

	query := "SELECT " + entryColumns + " FROM shifts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date ASC, start_time ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []schedule.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteEntry removes a shift entry.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteByID(ctx, s.db, "shifts", "shift", id)
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday to the database.
func (s *Store) SaveHoliday(ctx context.Context, h holiday.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		wage.DateOf(h.Date).Format(wage.DateLayout),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteByID(ctx, s.db, "holidays", "holiday", id)
}

// ListHolidays returns all holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]holiday.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, date, name, recurring FROM holidays ORDER BY date ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date, _ = time.Parse(wage.DateLayout, dateStr)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// IsHoliday checks whether date matches a dated or recurring holiday.
func (s *Store) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (recurring = FALSE AND date = ?)
		   OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
	`

	day := wage.DateOf(date)
	var count int
	err := s.db.QueryRowContext(ctx, query, day.Format(wage.DateLayout), day.Format("01-02")).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"shifts", "workplaces", "holidays"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
