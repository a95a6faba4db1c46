package attendance

// The hours calculator is a pure function of a day's session set. It must
// stay free of hidden reads so that recomputing after any session mutation
// (a time correction, an appended overtime block) is idempotent.

const (
	// StandardDayHours is the full working day used for status thresholds
	// and late-hour shortfall.
	StandardDayHours = 8.0

	partialThresholdHours = 4.0
)

type DayTotals struct {
	TotalHours    float64
	RegularHours  float64
	OvertimeHours float64
	LateHours     float64
	Status        DayStatus
}

// CalculateDay derives the day's totals and status from its sessions.
// Pairing is by session type: morning_in/morning_out and
// afternoon_in/afternoon_out form the regular halves, overtime rows carry
// their own window. An unmatched half contributes exactly 0 hours; the day
// still gets a status from whatever did match.
func CalculateDay(sessions []Session) DayTotals {
	var totals DayTotals

	totals.RegularHours += pairHours(sessions, SessionMorningIn, SessionMorningOut)
	totals.RegularHours += pairHours(sessions, SessionAfternoonIn, SessionAfternoonOut)

	for _, s := range sessions {
		if s.SessionType == SessionOvertime {
			totals.OvertimeHours += windowHours(s)
		}
	}

	totals.TotalHours = totals.RegularHours + totals.OvertimeHours
	totals.LateHours = StandardDayHours - totals.RegularHours
	if totals.LateHours < 0 {
		totals.LateHours = 0
	}
	totals.Status = statusFor(totals.TotalHours)

	return totals
}

// SessionHours returns the per-session calculated hours keyed by session ID.
// Hours land on the out-half of each regular pair and on overtime rows;
// in-halves and unmatched halves get 0.
func SessionHours(sessions []Session) map[string]float64 {
	hours := make(map[string]float64, len(sessions))
	for _, s := range sessions {
		hours[s.ID] = 0
	}

	assignPair := func(inType, outType SessionType) {
		in, out := findHalf(sessions, inType), findHalf(sessions, outType)
		if in == nil || out == nil {
			return
		}
		hours[out.ID] = clampHours(in, out)
	}

	assignPair(SessionMorningIn, SessionMorningOut)
	assignPair(SessionAfternoonIn, SessionAfternoonOut)

	for _, s := range sessions {
		if s.SessionType == SessionOvertime {
			hours[s.ID] = windowHours(s)
		}
	}

	return hours
}

func statusFor(totalHours float64) DayStatus {
	switch {
	case totalHours < partialThresholdHours:
		return StatusPartial
	case totalHours < StandardDayHours:
		return StatusLate
	default:
		return StatusPresent
	}
}

func pairHours(sessions []Session, inType, outType SessionType) float64 {
	in, out := findHalf(sessions, inType), findHalf(sessions, outType)
	if in == nil || out == nil {
		// Lenient degrade: an unpaired half is worth nothing rather than
		// an error, so a missed punch never blocks payroll.
		return 0
	}
	return clampHours(in, out)
}

func clampHours(in, out *Session) float64 {
	if in.ClockIn == nil || out.ClockOut == nil {
		return 0
	}
	h := out.ClockOut.Sub(*in.ClockIn).Hours()
	if h < 0 {
		return 0
	}
	return h
}

func windowHours(s Session) float64 {
	if s.ClockIn == nil || s.ClockOut == nil {
		return 0
	}
	h := s.ClockOut.Sub(*s.ClockIn).Hours()
	if h < 0 {
		return 0
	}
	return h
}

func findHalf(sessions []Session, t SessionType) *Session {
	for i := range sessions {
		if sessions[i].SessionType == t {
			return &sessions[i]
		}
	}
	return nil
}
