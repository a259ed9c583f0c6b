/*
Package store defines persistence for workplaces, shifts and holidays.

PURPOSE:
  Defines the interface between the HTTP layer and the database. The wage
  engine never sees a Store; callers load records, then hand plain values
  to wage.Calculate.

KEY INTERFACES:
  Store: Workplace, shift entry and holiday persistence

CONTRACT:
  - Get* returns (nil, nil) when the record does not exist
  - Delete* returns ErrNotFound when the record does not exist
  - SaveEntry returns ErrNotFound when the workplace does not exist
  - SaveEntries is all-or-nothing
  - DeleteWorkplace also deletes the workplace's entries
  - ListWorkplaces returns workplaces in creation order
  - ListEntries returns entries by date, then start time
  - Store satisfies holiday.Calendar

IMPLEMENTATIONS:
  - store/sqlite: SQLite, used by cmd/server
  - store/memory: In-memory for testing

SEE ALSO:
  - store/storetest: Shared behavior tests every implementation runs
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/schedule"
)

// ErrNotFound is returned when an update or delete targets a missing record.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Store persists everything a user records.
type Store interface {
	// Workplaces
	SaveWorkplace(ctx context.Context, w schedule.Workplace) error
	GetWorkplace(ctx context.Context, id string) (*schedule.Workplace, error)
	ListWorkplaces(ctx context.Context) ([]schedule.Workplace, error)
	DeleteWorkplace(ctx context.Context, id string) error

	// Shift entries
	SaveEntry(ctx context.Context, e schedule.Entry) error
	// SaveEntries saves all entries or, on error, none of them.
	SaveEntries(ctx context.Context, entries []schedule.Entry) error
	GetEntry(ctx context.Context, id string) (*schedule.Entry, error)
	ListEntries(ctx context.Context, f schedule.Filter) ([]schedule.Entry, error)
	DeleteEntry(ctx context.Context, id string) error

	// Holidays
	SaveHoliday(ctx context.Context, h holiday.Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context) ([]holiday.Holiday, error)
	IsHoliday(ctx context.Context, date time.Time) (bool, error)

	// Reset clears all data (for demo scenarios and tests).
	Reset(ctx context.Context) error
}

var _ holiday.Calendar = Store(nil)
