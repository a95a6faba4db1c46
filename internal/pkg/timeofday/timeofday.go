// Package timeofday carries clock times as zone-naive values.
//
// Overtime and correction times travel through the system as "HH:MM:SS"
// strings. Parsing them into a full time.Time invites timezone
// double-conversion, so this type keeps only hours/minutes/seconds and
// attaches a date and location at the single point where arithmetic on
// absolute time is needed (On).
package timeofday

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Parse accepts "HH:MM:SS" or "HH:MM".
func Parse(s string) (TimeOfDay, error) {
	var t TimeOfDay
	switch len(s) {
	case 8:
		if _, err := fmt.Sscanf(s, "%02d:%02d:%02d", &t.Hour, &t.Minute, &t.Second); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
	case 5:
		if _, err := fmt.Sscanf(s, "%02d:%02d", &t.Hour, &t.Minute); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
	default:
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM:SS", s)
	}

	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

// MustParse is for tests and constants.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// SecondsOfDay returns seconds since midnight.
func (t TimeOfDay) SecondsOfDay() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.SecondsOfDay() < other.SecondsOfDay()
}

// Sub returns t-other in hours. Callers clamp negatives where required.
func (t TimeOfDay) Sub(other TimeOfDay) float64 {
	return float64(t.SecondsOfDay()-other.SecondsOfDay()) / 3600.0
}

// On anchors the time of day to a calendar day in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, t.Second, 0, loc)
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Half-open: windows that merely touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the string form in a Postgres TIME column.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = TimeOfDay{Hour: v.Hour(), Minute: v.Minute(), Second: v.Second()}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}
