package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/wage"
)

const modelReply = "Here is the schedule I found:\n```json\n" + `{
  "schedules": [
    {"date": "2025-03-10", "startTime": "9:00", "endTime": "18:00", "memo": "open", "uncertain": false},
    {"date": "2025-03-11", "startTime": "22:00", "endTime": "06:00", "uncertain": true}
  ],
  "notes": "second row was blurry"
}` + "\n```\nLet me know if anything is off."

func TestParseExtraction_EmbeddedJSON(t *testing.T) {
	x, err := schedule.ParseExtraction(modelReply)
	require.NoError(t, err)

	require.Len(t, x.Schedules, 2)
	assert.Equal(t, "second row was blurry", x.Notes)
	assert.Equal(t, "9:00", x.Schedules[0].StartTime)
	require.NotNil(t, x.Schedules[0].Memo)
	assert.Equal(t, "open", *x.Schedules[0].Memo)
	assert.Nil(t, x.Schedules[1].Memo)
	assert.True(t, x.Schedules[1].Uncertain)
}

func TestParseExtraction_NoObject(t *testing.T) {
	for _, text := range []string{"", "no schedule here", "} backwards {", "{not json}"} {
		_, err := schedule.ParseExtraction(text)
		assert.ErrorIs(t, err, schedule.ErrNoExtraction, text)
	}
}

func TestCandidate_Confirm(t *testing.T) {
	// GIVEN: a reviewed overnight candidate with a memo
	memo := "closing"
	c := schedule.Candidate{Date: "2025-03-11", StartTime: "22:00", EndTime: "6:00", Memo: &memo}

	// WHEN
	e, err := c.Confirm("wp-1")

	// THEN
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceImage, e.Source)
	assert.Equal(t, "wp-1", e.WorkplaceID)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), e.Shift.Date)
	assert.Equal(t, "closing", e.Shift.Memo)
	assert.Equal(t, 480, e.Shift.WorkMinutes())
	assert.Nil(t, e.Shift.IsHoliday)
}

func TestCandidate_ConfirmRejects(t *testing.T) {
	_, err := schedule.Candidate{Date: "2025-03-11", StartTime: "09:00"}.Confirm("wp-1")
	assert.ErrorIs(t, err, schedule.ErrIncompleteCandidate)

	_, err = schedule.Candidate{Date: "2025-03-11", StartTime: "25:00", EndTime: "10:00"}.Confirm("wp-1")
	assert.ErrorIs(t, err, wage.ErrInvalidClock)

	_, err = schedule.Candidate{Date: "03/11/2025", StartTime: "09:00", EndTime: "10:00"}.Confirm("wp-1")
	assert.ErrorIs(t, err, wage.ErrInvalidDate)
}

func TestConfirmAll_StopsAtFirstFailure(t *testing.T) {
	candidates := []schedule.Candidate{
		{Date: "2025-03-10", StartTime: "09:00", EndTime: "18:00"},
		{Date: "2025-03-11", StartTime: "09:00"},
	}

	entries, err := schedule.ConfirmAll("wp-1", candidates)
	assert.Nil(t, entries)
	assert.ErrorIs(t, err, schedule.ErrIncompleteCandidate)
	assert.Contains(t, err.Error(), "candidate 1")

	entries, err = schedule.ConfirmAll("wp-1", candidates[:1])
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
