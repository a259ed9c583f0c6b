package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/store"
	"github.com/warp/njob-manager/store/sqlite"
	"github.com/warp/njob-manager/store/storetest"
	"github.com/warp/njob-manager/wage"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	// GIVEN: a file-backed store with one workplace and one shift
	path := filepath.Join(t.TempDir(), "njob.db")
	ctx := context.Background()

	s, err := sqlite.New(path)
	require.NoError(t, err)
	w := schedule.NewWorkplace("Cafe", wage.PayConfig{HourlyWage: 10030, Deduction: wage.DeductionWithholding})
	require.NoError(t, s.SaveWorkplace(ctx, w))
	shift, err := wage.NewShift("2025-03-10", "09:00", "18:00")
	require.NoError(t, err)
	require.NoError(t, s.SaveEntry(ctx, schedule.NewEntry(w.ID, shift, schedule.SourceCalendar)))
	require.NoError(t, s.Close())

	// WHEN: reopening (migrations run again)
	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()

	// THEN
	got, err := s.GetWorkplace(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, wage.DeductionWithholding, got.Pay.Deduction)

	entries, err := s.ListEntries(ctx, schedule.Filter{WorkplaceID: w.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, schedule.SourceCalendar, entries[0].Source)
}
