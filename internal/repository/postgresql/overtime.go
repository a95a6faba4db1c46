package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/timeofday"
	"github.com/jackc/pgx/v5"
)

type overtimeRepository struct {
	db *database.DB
}

// Times of day are stored as "HH:MM:SS" text, matching the zone-naive
// convention the requests travel with.
func scanOvertimeRequest(row pgx.Row, withEmployee bool) (overtime.Request, error) {
	var req overtime.Request
	var start, end string

	dest := []interface{}{
		&req.ID, &req.EmployeeID, &req.RequestDate, &start, &end,
		&req.RequestedHours, &req.Reason, &req.Status,
		&req.ApprovedBy, &req.ApprovedAt, &req.Comments,
		&req.CreatedAt, &req.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &req.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return overtime.Request{}, err
	}

	var err error
	if req.StartTime, err = timeofday.Parse(start); err != nil {
		return overtime.Request{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	if req.EndTime, err = timeofday.Parse(end); err != nil {
		return overtime.Request{}, fmt.Errorf("failed to parse end time: %w", err)
	}

	return req, nil
}

const overtimeColumns = `
	id, employee_id, request_date, start_time, end_time,
	requested_hours, reason, status, approved_by, approved_at, comments,
	created_at, updated_at
`

// Create implements overtime.RequestRepository.
func (r *overtimeRepository) Create(ctx context.Context, req overtime.Request) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_requests (
			employee_id, request_date, start_time, end_time,
			requested_hours, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.RequestDate, req.StartTime.String(), req.EndTime.String(),
		req.RequestedHours, req.Reason, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return overtime.Request{}, fmt.Errorf("failed to create overtime request: %w", err)
	}

	return req, nil
}

// GetByID implements overtime.RequestRepository.
func (r *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT o.id, o.employee_id, o.request_date, o.start_time, o.end_time,
			   o.requested_hours, o.reason, o.status,
			   o.approved_by, o.approved_at, o.comments,
			   o.created_at, o.updated_at,
			   e.full_name AS employee_name
		FROM overtime_requests o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE o.id = $1
	`

	req, err := scanOvertimeRequest(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Request{}, overtime.ErrRequestNotFound
		}
		return overtime.Request{}, fmt.Errorf("failed to get overtime request by ID: %w", err)
	}

	return req, nil
}

// ListPendingByEmployeeAndDate implements overtime.RequestRepository.
func (r *overtimeRepository) ListPendingByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_requests
		WHERE employee_id = $1 AND request_date = $2 AND status = 'pending'
		ORDER BY start_time
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending overtime requests: %w", err)
	}
	defer rows.Close()

	requests := make([]overtime.Request, 0)
	for rows.Next() {
		req, err := scanOvertimeRequest(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// List implements overtime.RequestRepository.
func (r *overtimeRepository) List(ctx context.Context, filter overtime.ListFilter) ([]overtime.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND o.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND o.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND o.request_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND o.request_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM overtime_requests o WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT o.id, o.employee_id, o.request_date, o.start_time, o.end_time,
			   o.requested_hours, o.reason, o.status,
			   o.approved_by, o.approved_at, o.comments,
			   o.created_at, o.updated_at,
			   e.full_name AS employee_name
		FROM overtime_requests o
		LEFT JOIN employees e ON e.id = o.employee_id
		WHERE %s
		ORDER BY o.request_date DESC, o.start_time
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
		return nil, 0, fmt.Errorf("failed to query overtime requests: %w", err)
	}
	defer rows.Close()

	requests := make([]overtime.Request, 0)
	for rows.Next() {
		req, err := scanOvertimeRequest(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, nil
}

// UpdateStatus implements overtime.RequestRepository. The WHERE clause
// asserts the prior status so only one of two concurrent approvals wins.
func (r *overtimeRepository) UpdateStatus(ctx context.Context, id string, status overtime.Status, approverID string, approvedAt time.Time, comments *string) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests
		SET status = $2, approved_by = $3, approved_at = $4, comments = $5, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + overtimeColumns

	req, err := scanOvertimeRequest(q.QueryRow(ctx, query, id, status, approverID, approvedAt, comments), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the request is gone or it lost the race.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return overtime.Request{}, getErr
			}
			return overtime.Request{}, overtime.ErrAlreadyProcessed
		}
		return overtime.Request{}, fmt.Errorf("failed to update overtime request status: %w", err)
	}

	return req, nil
}

// Delete implements overtime.RequestRepository.
func (r *overtimeRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM overtime_requests WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete overtime request: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return overtime.ErrCannotDeleteProcessed
	}

	return nil
}

func NewOvertimeRepository(db *database.DB) overtime.RequestRepository {
	return &overtimeRepository{db: db}
}
