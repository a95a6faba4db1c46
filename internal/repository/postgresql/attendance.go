package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRecordRepository struct {
	db *database.DB
}

// Create implements attendance.RecordRepository.
func (r *attendanceRecordRepository) Create(ctx context.Context, employeeID string, date time.Time, status attendance.DayStatus) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (employee_id, date, overall_status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	rec := attendance.Record{
		EmployeeID:    employeeID,
		Date:          date,
		OverallStatus: status,
	}
	err := q.QueryRow(ctx, query, employeeID, date, status).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.RecordRepository.
func (r *attendanceRecordRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT r.id, r.employee_id, r.date, r.overall_status, r.created_at, r.updated_at,
			   e.full_name AS employee_name
		FROM attendance_records r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.OverallStatus, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.RecordRepository.
func (r *attendanceRecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, overall_status, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.OverallStatus, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	return rec, nil
}

// Lock implements attendance.RecordRepository.
func (r *attendanceRecordRepository) Lock(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var lockedID string
	err := q.QueryRow(ctx, `SELECT id FROM attendance_records WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to lock attendance record: %w", err)
	}

	return nil
}

// UpdateStatus implements attendance.RecordRepository.
func (r *attendanceRecordRepository) UpdateStatus(ctx context.Context, id string, status attendance.DayStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET overall_status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, status).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record status: %w", err)
	}

	return nil
}

// ListByEmployeeAndRange implements attendance.RecordRepository.
func (r *attendanceRecordRepository) ListByEmployeeAndRange(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "r.employee_id = $1"
	args := []interface{}{filter.EmployeeID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND r.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND r.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND r.overall_status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records r WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT r.id, r.employee_id, r.date, r.overall_status, r.created_at, r.updated_at,
			   e.full_name AS employee_name
		FROM attendance_records r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.date %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, sortOrder, argIdx, argIdx+1)

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
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Date, &rec.OverallStatus, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// Summarize implements attendance.RecordRepository.
func (r *attendanceRecordRepository) Summarize(ctx context.Context, employeeID string, from, to time.Time) (attendance.Summary, error) {
	q := GetQuerier(ctx, r.db)

	statusQuery := `
		SELECT
			COUNT(*) FILTER (WHERE overall_status = 'present'),
			COUNT(*) FILTER (WHERE overall_status = 'late'),
			COUNT(*) FILTER (WHERE overall_status = 'partial')
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var summary attendance.Summary
	if err := q.QueryRow(ctx, statusQuery, employeeID, from, to).Scan(
		&summary.PresentDays, &summary.LateDays, &summary.PartialDays,
	); err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to count day statuses: %w", err)
	}

	hoursQuery := `
		SELECT COALESCE(SUM(s.calculated_hours), 0)
		FROM attendance_sessions s
		JOIN attendance_records r ON r.id = s.record_id
		WHERE r.employee_id = $1 AND r.date BETWEEN $2 AND $3
	`

	if err := q.QueryRow(ctx, hoursQuery, employeeID, from, to).Scan(&summary.TotalHours); err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to sum attendance hours: %w", err)
	}

	return summary, nil
}

func NewAttendanceRecordRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRecordRepository{db: db}
}
