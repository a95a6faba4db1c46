package timecorrection

import "errors"

var (
	ErrRequestNotFound         = errors.New("time correction request not found")
	ErrFutureDateNotAllowed    = errors.New("time corrections cannot target a future date")
	ErrDuplicatePendingRequest = errors.New("a pending correction already exists for this session")
	ErrAlreadyProcessed        = errors.New("time correction request has already been approved or rejected")
	ErrCannotDeleteProcessed   = errors.New("only pending time correction requests can be deleted")
)
