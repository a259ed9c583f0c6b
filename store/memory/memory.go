// Package memory provides an in-memory store.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/store"
	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	workplaces map[string]schedule.Workplace
	order      []string // workplace IDs in creation order
	entries    map[string]schedule.Entry
	holidays   map[string]holiday.Holiday

	now func() time.Time
}

func New() *Memory {
	m := &Memory{now: func() time.Time { return time.Now().UTC() }}
	m.clear()
	return m
}

var _ store.Store = (*Memory)(nil)

func (m *Memory) clear() {
	m.workplaces = make(map[string]schedule.Workplace)
	m.order = nil
	m.entries = make(map[string]schedule.Entry)
	m.holidays = make(map[string]holiday.Holiday)
}

// =============================================================================
// WORKPLACES
// =============================================================================

func (m *Memory) SaveWorkplace(_ context.Context, w schedule.Workplace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if prev, ok := m.workplaces[w.ID]; ok {
		w.CreatedAt = prev.CreatedAt
	} else {
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		m.order = append(m.order, w.ID)
	}
	w.UpdatedAt = now
	m.workplaces[w.ID] = w
	return nil
}

func (m *Memory) GetWorkplace(_ context.Context, id string) (*schedule.Workplace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.workplaces[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (m *Memory) ListWorkplaces(_ context.Context) ([]schedule.Workplace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]schedule.Workplace, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.workplaces[id])
	}
	return out, nil
}

func (m *Memory) DeleteWorkplace(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workplaces[id]; !ok {
		return fmt.Errorf("workplace %s: %w", id, store.ErrNotFound)
	}
	delete(m.workplaces, id)
	for i, wid := range m.order {
		if wid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	for eid, e := range m.entries {
		if e.WorkplaceID == id {
			delete(m.entries, eid)
		}
	}
	return nil
}

// =============================================================================
// ENTRIES
// =============================================================================

func (m *Memory) SaveEntry(_ context.Context, e schedule.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workplaces[e.WorkplaceID]; !ok {
		return fmt.Errorf("workplace %s: %w", e.WorkplaceID, store.ErrNotFound)
	}
	m.putEntry(e)
	return nil
}

// SaveEntries checks every entry before saving any.
func (m *Memory) SaveEntries(_ context.Context, entries []schedule.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if _, ok := m.workplaces[e.WorkplaceID]; !ok {
			return fmt.Errorf("workplace %s: %w", e.WorkplaceID, store.ErrNotFound)
		}
	}
	for _, e := range entries {
		m.putEntry(e)
	}
	return nil
}

func (m *Memory) putEntry(e schedule.Entry) {
	if prev, ok := m.entries[e.ID]; ok {
		e.CreatedAt = prev.CreatedAt
	} else if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	m.entries[e.ID] = e
}

func (m *Memory) GetEntry(_ context.Context, id string) (*schedule.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) ListEntries(_ context.Context, f schedule.Filter) ([]schedule.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schedule.Entry
	for _, e := range m.entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Shift.Date.Equal(b.Shift.Date) {
			return a.Shift.Date.Before(b.Shift.Date)
		}
		if a.Shift.Start != b.Shift.Start {
			return a.Shift.Start.SinceMidnight() < b.Shift.Start.SinceMidnight()
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (m *Memory) DeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("shift %s: %w", id, store.ErrNotFound)
	}
	delete(m.entries, id)
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h holiday.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h.Date = wage.DateOf(h.Date)
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.holidays[id]; !ok {
		return fmt.Errorf("holiday %s: %w", id, store.ErrNotFound)
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]holiday.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]holiday.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.holidays {
		if h.Matches(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clear()
	return nil
}
