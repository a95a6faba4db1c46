package attendance

import "context"

// TimelineService owns the per-day timeline: lazily created day records,
// appended sessions and the derived status/hour totals read by payroll.
type TimelineService interface {
	ClockEvent(ctx context.Context, req ClockEventRequest) (DayResponse, error)
	GetDay(ctx context.Context, employeeID string, date string) (DayResponse, error)
	ClockState(ctx context.Context, employeeID string, date string) (ClockStateResponse, error)
	History(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
	Summary(ctx context.Context, employeeID string, startDate, endDate string) (SummaryResponse, error)
}
