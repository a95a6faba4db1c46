package attendance

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tsPtr(hour, min int) *time.Time {
	t := time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
	return &t
}

func inSession(id string, st SessionType, hour, min int) Session {
	return Session{ID: id, SessionType: st, ClockIn: tsPtr(hour, min)}
}

func outSession(id string, st SessionType, hour, min int) Session {
	return Session{ID: id, SessionType: st, ClockOut: tsPtr(hour, min)}
}

func fullDay() []Session {
	return []Session{
		inSession("s1", SessionMorningIn, 8, 0),
		outSession("s2", SessionMorningOut, 12, 0),
		inSession("s3", SessionAfternoonIn, 13, 0),
		outSession("s4", SessionAfternoonOut, 17, 0),
	}
}

func TestCalculateDay_FullDay(t *testing.T) {
	t.Parallel()

	totals := CalculateDay(fullDay())

	assert.InDelta(t, 8.0, totals.TotalHours, 0.0001)
	assert.InDelta(t, 8.0, totals.RegularHours, 0.0001)
	assert.InDelta(t, 0.0, totals.OvertimeHours, 0.0001)
	assert.InDelta(t, 0.0, totals.LateHours, 0.0001)
	assert.Equal(t, StatusPresent, totals.Status)
}

func TestCalculateDay_CorrectionShortensAfternoon(t *testing.T) {
	t.Parallel()

	// Afternoon clock-out corrected from 17:00 to 15:00.
	sessions := fullDay()
	sessions[3] = outSession("s4", SessionAfternoonOut, 15, 0)

	totals := CalculateDay(sessions)

	assert.InDelta(t, 6.0, totals.TotalHours, 0.0001)
	assert.InDelta(t, 2.0, totals.LateHours, 0.0001)
	assert.Equal(t, StatusLate, totals.Status)
}

func TestCalculateDay_StatusThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		outMin  int
		status  DayStatus
		total   float64
	}{
		{"3.9h is partial", 54, StatusPartial, 3.9},
		{"4.0h is late", 60, StatusLate, 4.0},
		{"7.9h is late", 54, StatusLate, 7.9},
		{"8.0h is present", 60, StatusPresent, 8.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var sessions []Session
			if tc.total < partialThresholdHours+0.5 {
				// single morning block 08:00 - 11:54 / 12:00
				sessions = []Session{
					inSession("s1", SessionMorningIn, 8, 0),
					outSession("s2", SessionMorningOut, 11, tc.outMin),
				}
			} else {
				// 08:00-12:00 plus 13:00-16:54 / 17:00
				sessions = []Session{
					inSession("s1", SessionMorningIn, 8, 0),
					outSession("s2", SessionMorningOut, 12, 0),
					inSession("s3", SessionAfternoonIn, 13, 0),
					outSession("s4", SessionAfternoonOut, 16, tc.outMin),
				}
			}
			totals := CalculateDay(sessions)
			assert.InDelta(t, tc.total, totals.TotalHours, 0.0001)
			assert.Equal(t, tc.status, totals.Status)
		})
	}
}

func TestCalculateDay_ClockOutBeforeClockIn_ClampedToZero(t *testing.T) {
	t.Parallel()

	sessions := []Session{
		inSession("s1", SessionMorningIn, 12, 0),
		outSession("s2", SessionMorningOut, 8, 0),
	}

	totals := CalculateDay(sessions)

	assert.InDelta(t, 0.0, totals.TotalHours, 0.0001)
	assert.Equal(t, StatusPartial, totals.Status)
}

func TestCalculateDay_UnmatchedHalfContributesZero(t *testing.T) {
	t.Parallel()

	// Morning in without out, full afternoon.
	sessions := []Session{
		inSession("s1", SessionMorningIn, 8, 0),
		inSession("s3", SessionAfternoonIn, 13, 0),
		outSession("s4", SessionAfternoonOut, 17, 0),
	}

	totals := CalculateDay(sessions)

	assert.InDelta(t, 4.0, totals.TotalHours, 0.0001)
	assert.Equal(t, StatusLate, totals.Status)

	hours := SessionHours(sessions)
	assert.InDelta(t, 0.0, hours["s1"], 0.0001)
	assert.InDelta(t, 4.0, hours["s4"], 0.0001)
}

func TestCalculateDay_OvertimeCountsSeparately(t *testing.T) {
	t.Parallel()

	ot := Session{ID: "ot1", SessionType: SessionOvertime, ClockIn: tsPtr(18, 0), ClockOut: tsPtr(20, 0)}
	sessions := append(fullDay(), ot)

	totals := CalculateDay(sessions)

	assert.InDelta(t, 8.0, totals.RegularHours, 0.0001)
	assert.InDelta(t, 2.0, totals.OvertimeHours, 0.0001)
	assert.InDelta(t, 10.0, totals.TotalHours, 0.0001)
	assert.Equal(t, StatusPresent, totals.Status)

	hours := SessionHours(sessions)
	assert.InDelta(t, 2.0, hours["ot1"], 0.0001)
}

func TestCalculateDay_OvertimeWithoutWindowContributesZero(t *testing.T) {
	t.Parallel()

	sessions := []Session{{ID: "ot1", SessionType: SessionOvertime, ClockIn: tsPtr(18, 0)}}

	totals := CalculateDay(sessions)

	assert.InDelta(t, 0.0, totals.OvertimeHours, 0.0001)
	assert.Equal(t, StatusPartial, totals.Status)
}

func TestCalculateDay_OvertimeCannotEraseLateness(t *testing.T) {
	t.Parallel()

	sessions := []Session{
		inSession("s1", SessionMorningIn, 8, 0),
		outSession("s2", SessionMorningOut, 12, 0),
		{ID: "ot1", SessionType: SessionOvertime, ClockIn: tsPtr(18, 0), ClockOut: tsPtr(22, 0)},
	}

	totals := CalculateDay(sessions)

	// 4 regular + 4 overtime: total crosses the present threshold but the
	// regular shortfall still shows up as late hours.
	assert.InDelta(t, 8.0, totals.TotalHours, 0.0001)
	assert.InDelta(t, 4.0, totals.LateHours, 0.0001)
	assert.Equal(t, StatusPresent, totals.Status)
}

func TestCalculateDay_NoSessions(t *testing.T) {
	t.Parallel()

	totals := CalculateDay(nil)

	assert.InDelta(t, 0.0, totals.TotalHours, 0.0001)
	assert.Equal(t, StatusPartial, totals.Status)
}

func TestCalculateDay_OrderIndependent(t *testing.T) {
	t.Parallel()

	sessions := append(fullDay(), Session{ID: "ot1", SessionType: SessionOvertime, ClockIn: tsPtr(18, 0), ClockOut: tsPtr(19, 30)})
	want := CalculateDay(sessions)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]Session, len(sessions))
		copy(shuffled, sessions)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, CalculateDay(shuffled))
	}
}
