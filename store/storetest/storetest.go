// Package storetest holds behavior tests shared by every store.Store.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/factory"
	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/store"
	"github.com/warp/njob-manager/wage"
)

// Run exercises the store.Store contract. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("WorkplaceCRUD", func(t *testing.T) { testWorkplaceCRUD(t, newStore(t)) })
	t.Run("WorkplaceKeepsDisabledInsurance", func(t *testing.T) { testDisabledInsurance(t, newStore(t)) })
	t.Run("WorkplaceOrder", func(t *testing.T) { testWorkplaceOrder(t, newStore(t)) })
	t.Run("EntryCRUD", func(t *testing.T) { testEntryCRUD(t, newStore(t)) })
	t.Run("SaveEntriesAllOrNothing", func(t *testing.T) { testSaveEntries(t, newStore(t)) })
	t.Run("EntryFilter", func(t *testing.T) { testEntryFilter(t, newStore(t)) })
	t.Run("DeleteWorkplaceCascades", func(t *testing.T) { testCascade(t, newStore(t)) })
	t.Run("Holidays", func(t *testing.T) { testHolidays(t, newStore(t)) })
	t.Run("Reset", func(t *testing.T) { testReset(t, newStore(t)) })
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func workplace(id, name string) schedule.Workplace {
	w := schedule.NewWorkplace(name, wage.PayConfig{
		HourlyWage: 10030,
		Break:      wage.BreakPolicy{Type: wage.BreakCustom, EveryHours: 4, MinutesPerBlock: 30},
		Deduction:  wage.DeductionFourInsurance,
		Insurance:  factory.FourInsurancePreset(),
		Allowances: wage.AllowancePolicy{WeeklyRest: wage.SelectionYes, Night: wage.SelectionNo},
	})
	w.ID = id
	return w
}

func entry(t *testing.T, id, workplaceID, day, start, end string) schedule.Entry {
	t.Helper()
	s, err := wage.NewShift(day, start, end)
	require.NoError(t, err)
	e := schedule.NewEntry(workplaceID, s, schedule.SourceManual)
	e.ID = id
	return e
}

func testWorkplaceCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()

	// GIVEN: a workplace with a full pay configuration
	w := workplace("wp-1", "Cafe")
	require.NoError(t, s.SaveWorkplace(ctx, w))

	// WHEN: reading it back
	got, err := s.GetWorkplace(ctx, "wp-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// THEN: every pay field survives
	assert.Equal(t, "Cafe", got.Name)
	assert.Equal(t, w.Color, got.Color)
	assert.Equal(t, w.SalaryType, got.SalaryType)
	assert.Equal(t, w.Pay.HourlyWage, got.Pay.HourlyWage)
	assert.Equal(t, w.Pay.Break, got.Pay.Break)
	assert.Equal(t, w.Pay.Deduction, got.Pay.Deduction)
	assert.Equal(t, wage.SelectionYes, got.Pay.Allowances.WeeklyRest)
	assert.Equal(t, wage.SelectionNo, got.Pay.Allowances.Night)
	assert.True(t, got.Pay.Allowances.Holiday.IsUnknown())
	assert.True(t, got.Pay.Insurance.Health.Rate.Equal(w.Pay.Insurance.Health.Rate))
	assert.False(t, got.CreatedAt.IsZero())

	// Update keeps creation time
	created := got.CreatedAt
	w.Name = "Cafe (weekends)"
	require.NoError(t, s.SaveWorkplace(ctx, w))
	got, err = s.GetWorkplace(ctx, "wp-1")
	require.NoError(t, err)
	assert.Equal(t, "Cafe (weekends)", got.Name)
	assert.Equal(t, created, got.CreatedAt)

	// Missing
	missing, err := s.GetWorkplace(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.DeleteWorkplace(ctx, "wp-1"))
	err = s.DeleteWorkplace(ctx, "wp-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, store.IsNotFound(err))
}

func testDisabledInsurance(t *testing.T, s store.Store) {
	ctx := context.Background()

	// GIVEN: a withholding workplace whose insurance rates are set but off
	w := workplace("wp-1", "Cafe")
	w.Pay.Deduction = wage.DeductionWithholding
	w.Pay.Break = wage.BreakPolicy{Type: wage.BreakNone, EveryHours: 4, MinutesPerBlock: 30}
	w.Pay.Insurance.Pension.Enabled = false
	w.Pay.Insurance.Health.Enabled = false
	w.Pay.Insurance.LongTermCare.Enabled = false
	w.Pay.Insurance.Employment.Enabled = false
	require.NoError(t, s.SaveWorkplace(ctx, w))

	// WHEN
	got, err := s.GetWorkplace(ctx, "wp-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// THEN: the rates and the unused break values are still there
	assert.True(t, got.Pay.Insurance.Pension.Rate.Equal(w.Pay.Insurance.Pension.Rate), got.Pay.Insurance.Pension.Rate.String())
	assert.True(t, got.Pay.Insurance.Employment.Rate.Equal(w.Pay.Insurance.Employment.Rate))
	assert.False(t, got.Pay.Insurance.AnyEnabled())
	assert.Equal(t, w.Pay.Break, got.Pay.Break)
}

func testWorkplaceOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.SaveWorkplace(ctx, workplace(id, "Workplace "+id)))
	}
	// re-saving does not move it
	require.NoError(t, s.SaveWorkplace(ctx, workplace("c", "renamed")))

	list, err := s.ListWorkplaces(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func testEntryCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveWorkplace(ctx, workplace("wp-1", "Cafe")))

	e := entry(t, "e-1", "wp-1", "2025-03-10", "21:00", "06:00")
	e.Shift.Memo = "closing"
	e.Shift = e.Shift.WithHoliday(true)
	require.NoError(t, s.SaveEntry(ctx, e))

	got, err := s.GetEntry(ctx, "e-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "wp-1", got.WorkplaceID)
	assert.Equal(t, date(2025, time.March, 10), got.Shift.Date)
	assert.Equal(t, "21:00", got.Shift.Start.String())
	assert.Equal(t, "06:00", got.Shift.End.String())
	assert.Equal(t, "closing", got.Shift.Memo)
	require.NotNil(t, got.Shift.IsHoliday)
	assert.True(t, *got.Shift.IsHoliday)
	assert.Equal(t, schedule.SourceManual, got.Source)

	// unknown holiday fact stays unknown
	plain := entry(t, "e-2", "wp-1", "2025-03-11", "09:00", "18:00")
	require.NoError(t, s.SaveEntry(ctx, plain))
	got, err = s.GetEntry(ctx, "e-2")
	require.NoError(t, err)
	assert.Nil(t, got.Shift.IsHoliday)

	// entries need a workplace
	orphan := entry(t, "e-3", "wp-missing", "2025-03-11", "09:00", "18:00")
	assert.ErrorIs(t, s.SaveEntry(ctx, orphan), store.ErrNotFound)

	require.NoError(t, s.DeleteEntry(ctx, "e-1"))
	assert.ErrorIs(t, s.DeleteEntry(ctx, "e-1"), store.ErrNotFound)
	missing, err := s.GetEntry(ctx, "e-1")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func testSaveEntries(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveWorkplace(ctx, workplace("wp-1", "Cafe")))

	// GIVEN: a batch whose last entry has no workplace
	bad := []schedule.Entry{
		entry(t, "e-1", "wp-1", "2025-03-10", "09:00", "18:00"),
		entry(t, "e-2", "wp-1", "2025-03-11", "09:00", "18:00"),
		entry(t, "e-3", "wp-missing", "2025-03-12", "09:00", "18:00"),
	}

	// WHEN
	err := s.SaveEntries(ctx, bad)

	// THEN: nothing is saved
	assert.ErrorIs(t, err, store.ErrNotFound)
	list, err := s.ListEntries(ctx, schedule.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// a valid batch is saved whole
	require.NoError(t, s.SaveEntries(ctx, bad[:2]))
	list, err = s.ListEntries(ctx, schedule.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func testEntryFilter(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveWorkplace(ctx, workplace("wp-1", "Cafe")))
	require.NoError(t, s.SaveWorkplace(ctx, workplace("wp-2", "Store")))

	for _, e := range []schedule.Entry{
		entry(t, "e-4", "wp-1", "2025-03-12", "09:00", "12:00"),
		entry(t, "e-2", "wp-1", "2025-03-10", "13:00", "18:00"),
		entry(t, "e-1", "wp-1", "2025-03-10", "08:00", "12:00"),
		entry(t, "e-3", "wp-2", "2025-03-11", "09:00", "18:00"),
		entry(t, "e-5", "wp-1", "2025-04-01", "09:00", "18:00"),
	} {
		require.NoError(t, s.SaveEntry(ctx, e))
	}

	ids := func(f schedule.Filter) []string {
		t.Helper()
		list, err := s.ListEntries(ctx, f)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, e := range list {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{"e-1", "e-2", "e-3", "e-4", "e-5"}, ids(schedule.Filter{}))
	assert.Equal(t, []string{"e-1", "e-2", "e-4", "e-5"}, ids(schedule.Filter{WorkplaceID: "wp-1"}))
	assert.Equal(t, []string{"e-1", "e-2", "e-4"}, ids(schedule.Filter{
		WorkplaceID: "wp-1", From: date(2025, time.March, 1), To: date(2025, time.March, 31),
	}))
	assert.Equal(t, []string{"e-4", "e-5"}, ids(schedule.Filter{WorkplaceID: "wp-1", From: date(2025, time.March, 12)}))
	assert.Empty(t, ids(schedule.Filter{WorkplaceID: "wp-3"}))
}

func testCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveWorkplace(ctx, workplace("wp-1", "Cafe")))
	require.NoError(t, s.SaveWorkplace(ctx, workplace("wp-2", "Store")))
	require.NoError(t, s.SaveEntry(ctx, entry(t, "e-1", "wp-1", "2025-03-10", "09:00", "18:00")))
	require.NoError(t, s.SaveEntry(ctx, entry(t, "e-2", "wp-2", "2025-03-10", "19:00", "22:00")))

	require.NoError(t, s.DeleteWorkplace(ctx, "wp-1"))

	list, err := s.ListEntries(ctx, schedule.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "e-2", list[0].ID)
}

func testHolidays(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveHoliday(ctx, holiday.Holiday{ID: "h-2", Date: date(2025, time.May, 6), Name: "Substitute Holiday"}))
	require.NoError(t, s.SaveHoliday(ctx, holiday.Holiday{ID: "h-1", Date: date(2000, time.March, 1), Name: "Independence Movement Day", Recurring: true}))

	list, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "h-1", list[0].ID)
	assert.True(t, list[0].Recurring)
	assert.Equal(t, date(2025, time.May, 6), list[1].Date)

	for _, tc := range []struct {
		day  time.Time
		want bool
	}{
		{date(2025, time.March, 1), true},
		{date(2030, time.March, 1), true},
		{date(2025, time.May, 6), true},
		{date(2026, time.May, 6), false},
		{date(2025, time.March, 16), false},
	} {
		got, err := s.IsHoliday(ctx, tc.day)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.day.Format(wage.DateLayout))
	}

	require.NoError(t, s.DeleteHoliday(ctx, "h-2"))
	assert.ErrorIs(t, s.DeleteHoliday(ctx, "h-2"), store.ErrNotFound)
	got, err := s.IsHoliday(ctx, date(2025, time.May, 6))
	require.NoError(t, err)
	assert.False(t, got)
}

func testReset(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveWorkplace(ctx, workplace("wp-1", "Cafe")))
	require.NoError(t, s.SaveEntry(ctx, entry(t, "e-1", "wp-1", "2025-03-10", "09:00", "18:00")))
	require.NoError(t, s.SaveHoliday(ctx, holiday.Holiday{ID: "h-1", Date: date(2025, time.March, 1)}))

	require.NoError(t, s.Reset(ctx))

	wps, err := s.ListWorkplaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, wps)
	entries, err := s.ListEntries(ctx, schedule.Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	hs, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, hs)
}
