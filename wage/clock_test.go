package wage_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// CLOCK PARSING
// =============================================================================

func TestParseClock_Valid(t *testing.T) {
	cases := map[string]string{
		"9:00":  "09:00",
		"09:05": "09:05",
		"0:00":  "00:00",
		"23:59": "23:59",
		"21:30": "21:30",
	}
	for in, want := range cases {
		c, err := wage.ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, c.String(), in)
	}
}

func TestParseClock_Rejects(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "12:60", "123:00", "12:5", "12:5a", "-1:00", "ab:cd", "12.30", " 9:00"} {
		_, err := wage.ParseClock(in)
		require.Error(t, err, "%q should be rejected", in)

		var clockErr *wage.ClockError
		assert.ErrorAs(t, err, &clockErr, in)
		assert.True(t, errors.Is(err, wage.ErrInvalidClock), in)
		assert.True(t, wage.IsValidationError(err), in)
	}
}

func TestClock_TextRoundTrip(t *testing.T) {
	var c wage.Clock
	require.NoError(t, c.UnmarshalText([]byte("7:45")))
	assert.Equal(t, 7, c.Hour())
	assert.Equal(t, 45, c.Minute())

	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "07:45", string(text))

	assert.Error(t, c.UnmarshalText([]byte("7:4")))
}

func TestNewClock_Range(t *testing.T) {
	_, err := wage.NewClock(24, 0)
	assert.ErrorIs(t, err, wage.ErrInvalidClock)
	_, err = wage.NewClock(0, 60)
	assert.ErrorIs(t, err, wage.ErrInvalidClock)

	c, err := wage.NewClock(22, 0)
	require.NoError(t, err)
	assert.Equal(t, 22*60, c.SinceMidnight())
}

func TestParseClock_RangeErrorKeepsInput(t *testing.T) {
	// WHEN: the digits are well formed but out of range
	_, err := wage.ParseClock("24:00")

	// THEN: the error names the text that was parsed
	var clockErr *wage.ClockError
	require.ErrorAs(t, err, &clockErr)
	assert.Equal(t, "24:00", clockErr.Input)
	assert.Equal(t, "hour out of range", clockErr.Reason)

	_, err = wage.ParseClock("9:75")
	require.ErrorAs(t, err, &clockErr)
	assert.Equal(t, "9:75", clockErr.Input)
	assert.Equal(t, "minute out of range", clockErr.Reason)
}

// =============================================================================
// WORK AND NIGHT MINUTES
// =============================================================================

func TestWorkMinutes(t *testing.T) {
	// GIVEN: same-day, overnight and zero-length shifts
	assert.Equal(t, 480, wage.WorkMinutes(wage.MustClock("09:00"), wage.MustClock("17:00")))
	assert.Equal(t, 540, wage.WorkMinutes(wage.MustClock("21:00"), wage.MustClock("06:00")))
	assert.Equal(t, 0, wage.WorkMinutes(wage.MustClock("10:00"), wage.MustClock("10:00")))

	// THEN: overnight equals end + 1440 - start
	start, end := wage.MustClock("23:15"), wage.MustClock("01:40")
	assert.Equal(t, 1*60+40+1440-(23*60+15), wage.WorkMinutes(start, end))
}

func TestWorkMinutesBetween_InvalidInput(t *testing.T) {
	_, err := wage.WorkMinutesBetween("25:00", "10:00")
	assert.ErrorIs(t, err, wage.ErrInvalidClock)

	m, err := wage.WorkMinutesBetween("9:00", "18:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)
}

func TestNightMinutes_Examples(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"21:00", "06:00", 480},
		{"09:00", "18:00", 0},
		{"22:00", "22:00", 0},
		{"20:00", "23:00", 60},
		{"05:00", "07:00", 60},
		{"00:00", "23:59", 360 + 119},
		{"23:00", "22:00", 420}, // 23:00-06:00; the second night starts at the end
		{"04:00", "03:00", 120 + 300},
	}
	for _, tc := range cases {
		got := wage.NightMinutes(wage.MustClock(tc.start), wage.MustClock(tc.end))
		assert.Equal(t, tc.want, got, "%s-%s", tc.start, tc.end)
	}
}

// nightByScan counts night minutes one minute at a time.
func nightByScan(start, end wage.Clock) int {
	n := 0
	total := wage.WorkMinutes(start, end)
	for i := 0; i < total; i++ {
		h := ((start.SinceMidnight() + i) % 1440) / 60
		if h >= 22 || h < 6 {
			n++
		}
	}
	return n
}

func TestNightMinutes_MatchesMinuteScan(t *testing.T) {
	for s := 0; s < 1440; s += 15 {
		for e := 0; e < 1440; e += 15 {
			start, _ := wage.NewClock(s/60, s%60)
			end, _ := wage.NewClock(e/60, e%60)

			got := wage.NightMinutes(start, end)
			require.Equal(t, nightByScan(start, end), got, "%s-%s", start, end)
			require.LessOrEqual(t, got, wage.WorkMinutes(start, end))
		}
	}
}

// =============================================================================
// BREAKS
// =============================================================================

func TestBreakMinutes_Standard(t *testing.T) {
	std := wage.BreakPolicy{Type: wage.BreakStandard}

	assert.Equal(t, 0, wage.BreakMinutes(239, std), "3:59 has no complete block")
	assert.Equal(t, 30, wage.BreakMinutes(240, std), "4:00 completes one block")
	assert.Equal(t, 30, wage.BreakMinutes(479, std))
	assert.Equal(t, 60, wage.BreakMinutes(480, std), "8:00 completes two blocks")
	assert.Equal(t, 0, wage.BreakMinutes(0, std))
}

func TestBreakMinutes_CustomAndNone(t *testing.T) {
	assert.Equal(t, 0, wage.BreakMinutes(600, wage.BreakPolicy{Type: wage.BreakNone}))
	assert.Equal(t, 0, wage.BreakMinutes(600, wage.BreakPolicy{}))

	custom := wage.BreakPolicy{Type: wage.BreakCustom, EveryHours: 3, MinutesPerBlock: 15}
	assert.Equal(t, 0, wage.BreakMinutes(179, custom))
	assert.Equal(t, 45, wage.BreakMinutes(540, custom))

	assert.Equal(t, 0, wage.BreakMinutes(600, wage.BreakPolicy{Type: wage.BreakCustom, EveryHours: 0, MinutesPerBlock: 30}))
	assert.Equal(t, 0, wage.BreakMinutes(600, wage.BreakPolicy{Type: wage.BreakCustom, EveryHours: 4}))

	// capped at total
	greedy := wage.BreakPolicy{Type: wage.BreakCustom, EveryHours: 1, MinutesPerBlock: 90}
	assert.Equal(t, 120, wage.BreakMinutes(120, greedy))
}

func TestAdjustForBreak(t *testing.T) {
	assert.Equal(t, 480, wage.AdjustForBreak(480, 540, 0), "no break keeps target")
	assert.Equal(t, 480, wage.AdjustForBreak(480, 0, 30), "zero total keeps target")
	assert.Equal(t, 427, wage.AdjustForBreak(480, 540, 60), "480*480/540 = 426.67")
	assert.Equal(t, 45, wage.AdjustForBreak(60, 120, 30), "60*90/120 = 45")
	assert.Equal(t, 0, wage.AdjustForBreak(60, 120, 120))
	assert.Equal(t, 0, wage.AdjustForBreak(60, 120, 500), "never negative")
	assert.Equal(t, 0, wage.AdjustForBreak(-5, 120, 30))
}
