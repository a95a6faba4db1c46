package overtime

import "errors"

var (
	ErrRequestNotFound       = errors.New("overtime request not found")
	ErrPastDateNotAllowed    = errors.New("overtime cannot be requested for a past date")
	ErrInvalidTimeRange      = errors.New("start time must be before end time")
	ErrHoursMismatch         = errors.New("requested hours do not match the time range")
	ErrNonPositiveHours      = errors.New("requested hours must be greater than zero")
	ErrOverlappingRequest    = errors.New("a pending overtime request overlaps this time range")
	ErrAlreadyProcessed      = errors.New("overtime request has already been approved or rejected")
	ErrCannotDeleteProcessed = errors.New("only pending overtime requests can be deleted")
)
