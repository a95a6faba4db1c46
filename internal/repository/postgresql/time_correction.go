package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/timecorrection"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/timeofday"
	"github.com/jackc/pgx/v5"
)

type timeCorrectionRepository struct {
	db *database.DB
}

const timeCorrectionColumns = `
	id, employee_id, request_date, session_type, requested_time,
	reason, status, approved_by, approved_at, comments,
	created_at, updated_at
`

func scanTimeCorrectionRequest(row pgx.Row, withEmployee bool) (timecorrection.Request, error) {
	var req timecorrection.Request
	var requestedTime string

	dest := []interface{}{
		&req.ID, &req.EmployeeID, &req.RequestDate, &req.SessionType, &requestedTime,
		&req.Reason, &req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.Comments,
		&req.CreatedAt, &req.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &req.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return timecorrection.Request{}, err
	}

	var err error
	if req.RequestedTime, err = timeofday.Parse(requestedTime); err != nil {
		return timecorrection.Request{}, fmt.Errorf("failed to parse requested time: %w", err)
	}

	return req, nil
}

// Create implements timecorrection.RequestRepository.
func (r *timeCorrectionRepository) Create(ctx context.Context, req timecorrection.Request) (timecorrection.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_correction_requests (
			employee_id, request_date, session_type, requested_time, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.RequestDate, req.SessionType, req.RequestedTime.String(),
		req.Reason, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return timecorrection.Request{}, fmt.Errorf("failed to create time correction request: %w", err)
	}

	return req, nil
}

// GetByID implements timecorrection.RequestRepository.
func (r *timeCorrectionRepository) GetByID(ctx context.Context, id string) (timecorrection.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.employee_id, t.request_date, t.session_type, t.requested_time,
			   t.reason, t.status, t.approved_by, t.approved_at, t.comments,
			   t.created_at, t.updated_at,
			   e.full_name AS employee_name
		FROM time_correction_requests t
		LEFT JOIN employees e ON e.id = t.employee_id
		WHERE t.id = $1
	`

	req, err := scanTimeCorrectionRequest(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timecorrection.Request{}, timecorrection.ErrRequestNotFound
		}
		return timecorrection.Request{}, fmt.Errorf("failed to get time correction request by ID: %w", err)
	}

	return req, nil
}

// HasPending implements timecorrection.RequestRepository.
func (r *timeCorrectionRepository) HasPending(ctx context.Context, employeeID string, date time.Time, sessionType attendance.SessionType) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_correction_requests
			WHERE employee_id = $1 AND request_date = $2 AND session_type = $3 AND status = 'pending'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date, sessionType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending time correction requests: %w", err)
	}

	return exists, nil
}

// List implements timecorrection.RequestRepository.
func (r *timeCorrectionRepository) List(ctx context.Context, filter timecorrection.ListFilter) ([]timecorrection.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND t.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND t.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM time_correction_requests t WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time correction requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT t.id, t.employee_id, t.request_date, t.session_type, t.requested_time,
			   t.reason, t.status, t.approved_by, t.approved_at, t.comments,
			   t.created_at, t.updated_at,
			   e.full_name AS employee_name
		FROM time_correction_requests t
		LEFT JOIN employees e ON e.id = t.employee_id
		WHERE %s
		ORDER BY t.request_date DESC, t.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query time correction requests: %w", err)
	}
	defer rows.Close()

	requests := make([]timecorrection.Request, 0)
	for rows.Next() {
		req, err := scanTimeCorrectionRequest(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time correction request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, nil
}

// UpdateStatus implements timecorrection.RequestRepository. Only a pending
// row can transition, so concurrent approvals cannot double-apply.
func (r *timeCorrectionRepository) UpdateStatus(ctx context.Context, id string, status timecorrection.Status, approverID string, approvedAt time.Time, comments *string) (timecorrection.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_correction_requests
		SET status = $2, approved_by = $3, approved_at = $4, comments = $5, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + timeCorrectionColumns

	req, err := scanTimeCorrectionRequest(q.QueryRow(ctx, query, id, status, approverID, approvedAt, comments), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return timecorrection.Request{}, getErr
			}
			return timecorrection.Request{}, timecorrection.ErrAlreadyProcessed
		}
		return timecorrection.Request{}, fmt.Errorf("failed to update time correction request status: %w", err)
	}

	return req, nil
}

// Delete implements timecorrection.RequestRepository.
func (r *timeCorrectionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM time_correction_requests WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time correction request: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return timecorrection.ErrCannotDeleteProcessed
	}

	return nil
}

func NewTimeCorrectionRepository(db *database.DB) timecorrection.RequestRepository {
	return &timeCorrectionRepository{db: db}
}
