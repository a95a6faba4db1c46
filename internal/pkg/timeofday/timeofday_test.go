package timeofday

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tod, err := Parse("09:30:15")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour)
	assert.Equal(t, 30, tod.Minute)
	assert.Equal(t, 15, tod.Second)

	tod, err = Parse("17:45")
	require.NoError(t, err)
	assert.Equal(t, "17:45:00", tod.String())

	_, err = Parse("25:00:00")
	assert.Error(t, err)

	_, err = Parse("09:60:00")
	assert.Error(t, err)

	_, err = Parse("morning")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestSub(t *testing.T) {
	t.Parallel()

	start := MustParse("09:00:00")
	end := MustParse("11:30:00")

	assert.InDelta(t, 2.5, end.Sub(start), 0.0001)
	assert.InDelta(t, -2.5, start.Sub(end), 0.0001)
	assert.True(t, start.Before(end))
	assert.False(t, end.Before(start))
}

func TestOverlaps_HalfOpen(t *testing.T) {
	t.Parallel()

	// [09:00,11:00) vs [10:00,12:00) intersect
	assert.True(t, Overlaps(
		MustParse("09:00:00"), MustParse("11:00:00"),
		MustParse("10:00:00"), MustParse("12:00:00"),
	))

	// Touching boundary is not overlap
	assert.False(t, Overlaps(
		MustParse("09:00:00"), MustParse("11:00:00"),
		MustParse("11:00:00"), MustParse("13:00:00"),
	))

	// Containment
	assert.True(t, Overlaps(
		MustParse("08:00:00"), MustParse("17:00:00"),
		MustParse("10:00:00"), MustParse("11:00:00"),
	))

	// Disjoint
	assert.False(t, Overlaps(
		MustParse("08:00:00"), MustParse("09:00:00"),
		MustParse("10:00:00"), MustParse("11:00:00"),
	))
}

func TestOn(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	at := MustParse("08:15:00").On(date, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 10, 8, 15, 0, 0, time.UTC), at)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct {
		Start TimeOfDay `json:"start"`
	}

	raw, err := json.Marshal(payload{Start: MustParse("09:00:00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:00:00"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"13:45:30"}`), &decoded))
	assert.Equal(t, MustParse("13:45:30"), decoded.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"later"}`), &decoded))
}

func TestScan(t *testing.T) {
	t.Parallel()

	var tod TimeOfDay
	require.NoError(t, tod.Scan("06:30:00"))
	assert.Equal(t, MustParse("06:30:00"), tod)

	require.NoError(t, tod.Scan([]byte("07:00:00")))
	assert.Equal(t, MustParse("07:00:00"), tod)

	require.NoError(t, tod.Scan(time.Date(2025, 1, 1, 22, 5, 9, 0, time.UTC)))
	assert.Equal(t, MustParse("22:05:09"), tod)

	assert.Error(t, tod.Scan(42))
}
