package attendance

import "errors"

var (
	ErrRecordNotFound     = errors.New("attendance record not found")
	ErrSessionNotFound    = errors.New("attendance session not found")
	ErrDuplicateRecord    = errors.New("attendance record already exists for this day")
	ErrDuplicateSession   = errors.New("session slot already recorded for this day")
	ErrInvalidSessionType = errors.New("invalid session type")
)
