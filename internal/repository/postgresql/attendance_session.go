package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceSessionRepository struct {
	db *database.DB
}

const sessionColumns = `
	id, record_id, session_type, clock_in, clock_out,
	selfie_path, qr_code_hash, calculated_hours, created_at
`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.RecordID, &s.SessionType, &s.ClockIn, &s.ClockOut,
		&s.SelfiePath, &s.QRCodeHash, &s.CalculatedHours, &s.CreatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository.
func (r *attendanceSessionRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			record_id, session_type, clock_in, clock_out,
			selfie_path, qr_code_hash, calculated_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		s.RecordID, s.SessionType, s.ClockIn, s.ClockOut,
		s.SelfiePath, s.QRCodeHash, s.CalculatedHours,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Session{}, attendance.ErrDuplicateSession
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return s, nil
}

// GetByID implements attendance.SessionRepository.
func (r *attendanceSessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session by ID: %w", err)
	}

	return s, nil
}

// ListByRecord implements attendance.SessionRepository. Sessions are
// ordered by their clock timestamps, not insertion sequence.
func (r *attendanceSessionRepository) ListByRecord(ctx context.Context, recordID string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE record_id = $1
		ORDER BY COALESCE(clock_in, clock_out) ASC NULLS LAST, created_at ASC
	`

	rows, err := q.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// GetBySlot implements attendance.SessionRepository.
func (r *attendanceSessionRepository) GetBySlot(ctx context.Context, recordID string, sessionType attendance.SessionType) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE record_id = $1 AND session_type = $2
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, recordID, sessionType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get session by slot: %w", err)
	}

	return s, nil
}

// UpdateTimes implements attendance.SessionRepository. Nil arguments leave
// the corresponding column untouched.
func (r *attendanceSessionRepository) UpdateTimes(ctx context.Context, id string, clockIn, clockOut *time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET clock_in = COALESCE($2, clock_in),
			clock_out = COALESCE($3, clock_out)
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, clockIn, clockOut).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrSessionNotFound
		}
		return fmt.Errorf("failed to update session times: %w", err)
	}

	return nil
}

// UpdateCalculatedHours implements attendance.SessionRepository.
func (r *attendanceSessionRepository) UpdateCalculatedHours(ctx context.Context, id string, hours float64) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE attendance_sessions SET calculated_hours = $2 WHERE id = $1 RETURNING id`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, hours).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrSessionNotFound
		}
		return fmt.Errorf("failed to update session calculated hours: %w", err)
	}

	return nil
}

// LatestForDay implements attendance.SessionRepository.
func (r *attendanceSessionRepository) LatestForDay(ctx context.Context, employeeID string, date time.Time) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.record_id, s.session_type, s.clock_in, s.clock_out,
			   s.selfie_path, s.qr_code_hash, s.calculated_hours, s.created_at
		FROM attendance_sessions s
		JOIN attendance_records r ON r.id = s.record_id
		WHERE r.employee_id = $1 AND r.date = $2
		ORDER BY COALESCE(s.clock_in, s.clock_out) DESC NULLS LAST, s.created_at DESC
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get latest session for day: %w", err)
	}

	return s, nil
}

func NewAttendanceSessionRepository(db *database.DB) attendance.SessionRepository {
	return &attendanceSessionRepository{db: db}
}
