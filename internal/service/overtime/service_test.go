package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/leave"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== in-memory fakes ====================

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOvertimeRepo struct {
	requests map[string]overtime.Request
	nextID   int
}

func newFakeOvertimeRepo() *fakeOvertimeRepo {
	return &fakeOvertimeRepo{requests: make(map[string]overtime.Request)}
}

func (r *fakeOvertimeRepo) Create(ctx context.Context, req overtime.Request) (overtime.Request, error) {
	r.nextID++
	req.ID = fmt.Sprintf("ot-%d", r.nextID)
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeOvertimeRepo) GetByID(ctx context.Context, id string) (overtime.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return overtime.Request{}, overtime.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeOvertimeRepo) ListPendingByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]overtime.Request, error) {
	var out []overtime.Request
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.RequestDate.Equal(date) && req.Status == overtime.StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeOvertimeRepo) List(ctx context.Context, filter overtime.ListFilter) ([]overtime.Request, int64, error) {
	var out []overtime.Request
	for _, req := range r.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOvertimeRepo) UpdateStatus(ctx context.Context, id string, status overtime.Status, approverID string, approvedAt time.Time, comments *string) (overtime.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return overtime.Request{}, overtime.ErrRequestNotFound
	}
	if req.Status != overtime.StatusPending {
		return overtime.Request{}, overtime.ErrAlreadyProcessed
	}
	req.Status = status
	req.ApprovedBy = &approverID
	req.ApprovedAt = &approvedAt
	req.Comments = comments
	r.requests[id] = req
	return req, nil
}

func (r *fakeOvertimeRepo) Delete(ctx context.Context, id string) error {
	req, ok := r.requests[id]
	if !ok {
		return overtime.ErrRequestNotFound
	}
	if req.Status != overtime.StatusPending {
		return overtime.ErrCannotDeleteProcessed
	}
	delete(r.requests, id)
	return nil
}

type fakeRecordRepo struct {
	records map[string]attendance.Record
	nextID  int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]attendance.Record)}
}

func (r *fakeRecordRepo) Create(ctx context.Context, employeeID string, date time.Time, status attendance.DayStatus) (attendance.Record, error) {
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
	}
	r.nextID++
	rec := attendance.Record{
		ID:            fmt.Sprintf("rec-%d", r.nextID),
		EmployeeID:    employeeID,
		Date:          date,
		OverallStatus: status,
	}
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakeRecordRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (r *fakeRecordRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (r *fakeRecordRepo) Lock(ctx context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	return nil
}

func (r *fakeRecordRepo) UpdateStatus(ctx context.Context, id string, status attendance.DayStatus) error {
	rec, ok := r.records[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	rec.OverallStatus = status
	r.records[id] = rec
	return nil
}

func (r *fakeRecordRepo) ListByEmployeeAndRange(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (r *fakeRecordRepo) Summarize(ctx context.Context, employeeID string, from, to time.Time) (attendance.Summary, error) {
	return attendance.Summary{}, nil
}

type fakeSessionRepo struct {
	sessions map[string]attendance.Session
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]attendance.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	if s.SessionType != attendance.SessionOvertime {
		for _, existing := range r.sessions {
			if existing.RecordID == s.RecordID && existing.SessionType == s.SessionType {
				return attendance.Session{}, attendance.ErrDuplicateSession
			}
		}
	}
	r.nextID++
	s.ID = fmt.Sprintf("sess-%d", r.nextID)
	r.sessions[s.ID] = s
	return s, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) ListByRecord(ctx context.Context, recordID string) ([]attendance.Session, error) {
	var out []attendance.Session
	for _, s := range r.sessions {
		if s.RecordID == recordID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetBySlot(ctx context.Context, recordID string, sessionType attendance.SessionType) (attendance.Session, error) {
	for _, s := range r.sessions {
		if s.RecordID == recordID && s.SessionType == sessionType {
			return s, nil
		}
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

func (r *fakeSessionRepo) UpdateTimes(ctx context.Context, id string, clockIn, clockOut *time.Time) error {
	s, ok := r.sessions[id]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	if clockIn != nil {
		s.ClockIn = clockIn
	}
	if clockOut != nil {
		s.ClockOut = clockOut
	}
	r.sessions[id] = s
	return nil
}

func (r *fakeSessionRepo) UpdateCalculatedHours(ctx context.Context, id string, hours float64) error {
	s, ok := r.sessions[id]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	s.CalculatedHours = hours
	r.sessions[id] = s
	return nil
}

func (r *fakeSessionRepo) LatestForDay(ctx context.Context, employeeID string, date time.Time) (attendance.Session, error) {
	return attendance.Session{}, attendance.ErrSessionNotFound
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range emps {
		r.employees[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeLeaveRepo struct {
	balances map[string]decimal.Decimal // employeeID|type
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{balances: make(map[string]decimal.Decimal)}
}

func leaveKey(employeeID string, leaveType leave.Type) string {
	return employeeID + "|" + string(leaveType)
}

func (r *fakeLeaveRepo) AddDays(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, error) {
	key := leaveKey(employeeID, leaveType)
	r.balances[key] = r.balances[key].Add(days)
	return leave.Balance{EmployeeID: employeeID, LeaveType: leaveType, Balance: r.balances[key]}, nil
}

func (r *fakeLeaveRepo) ConsumeDays(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, bool, error) {
	key := leaveKey(employeeID, leaveType)
	current := r.balances[key]
	if current.LessThan(days) {
		return leave.Balance{EmployeeID: employeeID, LeaveType: leaveType, Balance: current}, false, nil
	}
	r.balances[key] = current.Sub(days)
	return leave.Balance{EmployeeID: employeeID, LeaveType: leaveType, Balance: r.balances[key]}, true, nil
}

func (r *fakeLeaveRepo) Get(ctx context.Context, employeeID string, leaveType leave.Type) (leave.Balance, error) {
	key := leaveKey(employeeID, leaveType)
	bal, ok := r.balances[key]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return leave.Balance{EmployeeID: employeeID, LeaveType: leaveType, Balance: bal}, nil
}

func (r *fakeLeaveRepo) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	return nil, nil
}

func (r *fakeLeaveRepo) Set(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, error) {
	r.balances[leaveKey(employeeID, leaveType)] = days
	return leave.Balance{EmployeeID: employeeID, LeaveType: leaveType, Balance: days}, nil
}

type fakeSettingsRepo struct {
	values map[string]string
}

func (r *fakeSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	if r.values == nil {
		return "", settings.ErrSettingNotFound
	}
	v, ok := r.values[key]
	if !ok {
		return "", settings.ErrSettingNotFound
	}
	return v, nil
}

// ==================== fixtures ====================

type overtimeFixture struct {
	service   overtime.RequestService
	requests  *fakeOvertimeRepo
	records   *fakeRecordRepo
	sessions  *fakeSessionRepo
	leaveRepo *fakeLeaveRepo
}

func newOvertimeFixture(t *testing.T, accrualEnabled bool, settingsValues map[string]string) overtimeFixture {
	t.Helper()

	requests := newFakeOvertimeRepo()
	records := newFakeRecordRepo()
	sessions := newFakeSessionRepo()
	leaveRepo := newFakeLeaveRepo()

	salary := decimal.NewFromInt(5000)
	employees := newFakeEmployeeRepo(
		employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Ada Wong", Status: employee.StatusActive, BaseSalary: &salary},
		employee.Employee{ID: "emp-2", EmployeeCode: "E002", FullName: "Leon Scott", Status: employee.StatusInactive},
	)

	svc := NewRequestService(
		fakeTxRunner{}, requests, records, sessions, employees,
		leaveRepo, &fakeSettingsRepo{values: settingsValues},
		accrualEnabled, slog.New(slog.DiscardHandler),
	)

	return overtimeFixture{service: svc, requests: requests, records: records, sessions: sessions, leaveRepo: leaveRepo}
}

func tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
}

func validCreateRequest() overtime.CreateRequest {
	return overtime.CreateRequest{
		EmployeeID:     "emp-1",
		RequestDate:    tomorrow(),
		StartTime:      "18:00:00",
		EndTime:        "20:00:00",
		RequestedHours: 2,
		Reason:         "release deployment support",
	}
}

// ==================== tests ====================

func TestOvertimeService_Create_Success(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)

	resp, err := fx.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "18:00:00", resp.StartTime)
	assert.Equal(t, "20:00:00", resp.EndTime)
	assert.Equal(t, 2.0, resp.RequestedHours)
}

func TestOvertimeService_Create_PastDate(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)

	req := validCreateRequest()
	req.RequestDate = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, overtime.ErrPastDateNotAllowed)
}

func TestOvertimeService_Create_InactiveEmployee(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)

	req := validCreateRequest()
	req.EmployeeID = "emp-2"

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestOvertimeService_Create_InvalidTimeRange(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)

	req := validCreateRequest()
	req.StartTime = "20:00:00"
	req.EndTime = "18:00:00"

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, overtime.ErrInvalidTimeRange)
}

func TestOvertimeService_Create_HoursMismatch(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)

	req := validCreateRequest()
	req.RequestedHours = 3 // window is 2h

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, overtime.ErrHoursMismatch)
}

func TestOvertimeService_Create_NonPositiveHours(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)

	// A window short enough to sit inside the tolerance, so the zero
	// requested hours are rejected on their own.
	req := validCreateRequest()
	req.StartTime = "18:00:00"
	req.EndTime = "18:03:00"
	req.RequestedHours = 0

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, overtime.ErrNonPositiveHours)
}

func TestOvertimeService_Create_OverlappingPending(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	overlapping := validCreateRequest()
	overlapping.StartTime = "19:00:00"
	overlapping.EndTime = "21:00:00"

	_, err = fx.service.Create(ctx, overlapping)
	assert.ErrorIs(t, err, overtime.ErrOverlappingRequest)
}

func TestOvertimeService_Create_TouchingWindowsAllowed(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	// [20:00,21:00) only touches [18:00,20:00); half-open windows don't
	// overlap at the shared endpoint.
	adjacent := validCreateRequest()
	adjacent.StartTime = "20:00:00"
	adjacent.EndTime = "21:00:00"
	adjacent.RequestedHours = 1

	_, err = fx.service.Create(ctx, adjacent)
	assert.NoError(t, err)
}

func TestOvertimeService_Approve_AppendsTimelineBlock(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	resp, err := fx.service.Approve(ctx, overtime.ApproveRequest{
		ID:         created.ID,
		ApproverID: "mgr-1",
		Approved:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, "mgr-1", *resp.ApprovedBy)

	// The approved window must land on the day's timeline.
	date, _ := time.Parse("2006-01-02", created.RequestDate)
	record, err := fx.records.GetByEmployeeAndDate(ctx, "emp-1", date)
	require.NoError(t, err)

	sessions, err := fx.sessions.ListByRecord(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, attendance.SessionOvertime, sessions[0].SessionType)
	assert.Equal(t, 2.0, sessions[0].CalculatedHours)
	require.NotNil(t, sessions[0].ClockIn)
	require.NotNil(t, sessions[0].ClockOut)
	assert.Equal(t, 2.0, sessions[0].ClockOut.Sub(*sessions[0].ClockIn).Hours())
}

func TestOvertimeService_Approve_Reject_LeavesTimelineAlone(t *testing.T) {
	fx := newOvertimeFixture(t, true, nil)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	comments := "not needed"
	resp, err := fx.service.Approve(ctx, overtime.ApproveRequest{
		ID:         created.ID,
		ApproverID: "mgr-1",
		Approved:   false,
		Comments:   &comments,
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)

	date, _ := time.Parse("2006-01-02", created.RequestDate)
	_, err = fx.records.GetByEmployeeAndDate(ctx, "emp-1", date)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	_, err = fx.leaveRepo.Get(ctx, "emp-1", leave.TypeVacation)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestOvertimeService_Approve_AlreadyProcessed(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, overtime.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	// Second resolution must lose: the flip is one-shot.
	_, err = fx.service.Approve(ctx, overtime.ApproveRequest{ID: created.ID, ApproverID: "mgr-2", Approved: false})
	assert.ErrorIs(t, err, overtime.ErrAlreadyProcessed)
}

func TestOvertimeService_Approve_AccruesLeaveAtDefaultRatio(t *testing.T) {
	fx := newOvertimeFixture(t, true, nil)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, overtime.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	// 2 hours at the default 0.125 ratio credit a quarter day.
	bal, err := fx.leaveRepo.Get(ctx, "emp-1", leave.TypeVacation)
	require.NoError(t, err)
	assert.True(t, bal.Balance.Equal(decimal.RequireFromString("0.25")), "got %s", bal.Balance)
}

func TestOvertimeService_Approve_AccruesLeaveAtConfiguredRatio(t *testing.T) {
	fx := newOvertimeFixture(t, true, map[string]string{
		settings.KeyOvertimeToLeaveRatio: "0.5",
	})
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, overtime.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	bal, err := fx.leaveRepo.Get(ctx, "emp-1", leave.TypeVacation)
	require.NoError(t, err)
	assert.True(t, bal.Balance.Equal(decimal.NewFromInt(1)), "got %s", bal.Balance)
}

func TestOvertimeService_Approve_AccrualDisabled(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, overtime.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	_, err = fx.leaveRepo.Get(ctx, "emp-1", leave.TypeVacation)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestOvertimeService_Delete_PendingOnly(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, overtime.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	err = fx.service.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, overtime.ErrCannotDeleteProcessed)
}

func TestOvertimeService_List_Pagination(t *testing.T) {
	fx := newOvertimeFixture(t, false, nil)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	resp, err := fx.service.List(ctx, overtime.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Len(t, resp.Requests, 1)
}
