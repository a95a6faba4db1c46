package timecorrection

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/timecorrection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== in-memory fakes ====================

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCorrectionRepo struct {
	requests map[string]timecorrection.Request
	nextID   int
}

func newFakeCorrectionRepo() *fakeCorrectionRepo {
	return &fakeCorrectionRepo{requests: make(map[string]timecorrection.Request)}
}

func (r *fakeCorrectionRepo) Create(ctx context.Context, req timecorrection.Request) (timecorrection.Request, error) {
	r.nextID++
	req.ID = fmt.Sprintf("tc-%d", r.nextID)
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeCorrectionRepo) GetByID(ctx context.Context, id string) (timecorrection.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return timecorrection.Request{}, timecorrection.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeCorrectionRepo) HasPending(ctx context.Context, employeeID string, date time.Time, sessionType attendance.SessionType) (bool, error) {
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.RequestDate.Equal(date) &&
			req.SessionType == sessionType && req.Status == timecorrection.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCorrectionRepo) List(ctx context.Context, filter timecorrection.ListFilter) ([]timecorrection.Request, int64, error) {
	var out []timecorrection.Request
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

func (r *fakeCorrectionRepo) UpdateStatus(ctx context.Context, id string, status timecorrection.Status, approverID string, approvedAt time.Time, comments *string) (timecorrection.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return timecorrection.Request{}, timecorrection.ErrRequestNotFound
	}
	if req.Status != timecorrection.StatusPending {
		return timecorrection.Request{}, timecorrection.ErrAlreadyProcessed
	}
	req.Status = status
	req.ApprovedBy = &approverID
	req.ApprovedAt = &approvedAt
	req.Comments = comments
	r.requests[id] = req
	return req, nil
}

func (r *fakeCorrectionRepo) Delete(ctx context.Context, id string) error {
	req, ok := r.requests[id]
	if !ok {
		return timecorrection.ErrRequestNotFound
	}
	if req.Status != timecorrection.StatusPending {
		return timecorrection.ErrCannotDeleteProcessed
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

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

// ==================== fixtures ====================

type correctionFixture struct {
	service  timecorrection.RequestService
	requests *fakeCorrectionRepo
	records  *fakeRecordRepo
	sessions *fakeSessionRepo
}

func newCorrectionFixture(t *testing.T) correctionFixture {
	t.Helper()

	requests := newFakeCorrectionRepo()
	records := newFakeRecordRepo()
	sessions := newFakeSessionRepo()
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", EmployeeCode: "E001", FullName: "Mira Chen", Status: employee.StatusActive},
		"emp-2": {ID: "emp-2", EmployeeCode: "E002", FullName: "Jon Reyes", Status: employee.StatusInactive},
	}}

	svc := NewRequestService(fakeTxRunner{}, requests, records, sessions, employees)
	return correctionFixture{service: svc, requests: requests, records: records, sessions: sessions}
}

func yesterday() string {
	return time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
}

func validCorrection() timecorrection.CreateRequest {
	return timecorrection.CreateRequest{
		EmployeeID:    "emp-1",
		RequestDate:   yesterday(),
		SessionType:   "morning_out",
		RequestedTime: "12:00:00",
		Reason:        "forgot to punch out before lunch",
	}
}

// ==================== tests ====================

func TestCorrectionService_Create_Success(t *testing.T) {
	fx := newCorrectionFixture(t)

	resp, err := fx.service.Create(context.Background(), validCorrection())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "morning_out", resp.SessionType)
	assert.Equal(t, "12:00:00", resp.RequestedTime)
}

func TestCorrectionService_Create_FutureDate(t *testing.T) {
	fx := newCorrectionFixture(t)

	req := validCorrection()
	req.RequestDate = time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, timecorrection.ErrFutureDateNotAllowed)
}

func TestCorrectionService_Create_TodayAllowed(t *testing.T) {
	fx := newCorrectionFixture(t)

	req := validCorrection()
	req.RequestDate = time.Now().UTC().Format("2006-01-02")

	_, err := fx.service.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCorrectionService_Create_DuplicatePending(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)

	_, err = fx.service.Create(ctx, validCorrection())
	assert.ErrorIs(t, err, timecorrection.ErrDuplicatePendingRequest)
}

func TestCorrectionService_Create_DifferentSlotNotDuplicate(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)

	other := validCorrection()
	other.SessionType = "afternoon_in"
	other.RequestedTime = "13:00:00"

	_, err = fx.service.Create(ctx, other)
	assert.NoError(t, err)
}

func TestCorrectionService_Create_OvertimeSlotRejected(t *testing.T) {
	fx := newCorrectionFixture(t)

	req := validCorrection()
	req.SessionType = "overtime"

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrInvalidSessionType)
}

func TestCorrectionService_Create_InactiveEmployee(t *testing.T) {
	fx := newCorrectionFixture(t)

	req := validCorrection()
	req.EmployeeID = "emp-2"

	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestCorrectionService_Approve_UpdatesExistingSlot(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	date, _ := time.Parse("2006-01-02", yesterday())
	record, err := fx.records.Create(ctx, "emp-1", date, attendance.StatusPartial)
	require.NoError(t, err)

	in := date.Add(8 * time.Hour)
	out := date.Add(10 * time.Hour) // punched out early by mistake
	_, err = fx.sessions.Create(ctx, attendance.Session{RecordID: record.ID, SessionType: attendance.SessionMorningIn, ClockIn: &in})
	require.NoError(t, err)
	existing, err := fx.sessions.Create(ctx, attendance.Session{RecordID: record.ID, SessionType: attendance.SessionMorningOut, ClockOut: &out})
	require.NoError(t, err)

	created, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)

	resp, err := fx.service.Approve(ctx, timecorrection.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	// The out-half must now carry the corrected 12:00 punch and 4 hours.
	updated, err := fx.sessions.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ClockOut)
	assert.Equal(t, 12, updated.ClockOut.Hour())
	assert.Equal(t, 4.0, updated.CalculatedHours)
}

func TestCorrectionService_Approve_CreatesMissingSlot(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	// No record at all: the day was never punched.
	created, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, timecorrection.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	date, _ := time.Parse("2006-01-02", yesterday())
	record, err := fx.records.GetByEmployeeAndDate(ctx, "emp-1", date)
	require.NoError(t, err)

	session, err := fx.sessions.GetBySlot(ctx, record.ID, attendance.SessionMorningOut)
	require.NoError(t, err)
	require.NotNil(t, session.ClockOut)
	assert.Nil(t, session.ClockIn)
	// An out-half with no matching in-half is worth zero hours.
	assert.Equal(t, 0.0, session.CalculatedHours)
	assert.Equal(t, attendance.StatusPartial, record.OverallStatus)
}

func TestCorrectionService_Approve_RecomputesDayStatus(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	date, _ := time.Parse("2006-01-02", yesterday())
	record, err := fx.records.Create(ctx, "emp-1", date, attendance.StatusPartial)
	require.NoError(t, err)

	morningIn := date.Add(8 * time.Hour)
	afternoonIn := date.Add(13 * time.Hour)
	afternoonOut := date.Add(17 * time.Hour)
	for _, s := range []attendance.Session{
		{RecordID: record.ID, SessionType: attendance.SessionMorningIn, ClockIn: &morningIn},
		{RecordID: record.ID, SessionType: attendance.SessionAfternoonIn, ClockIn: &afternoonIn},
		{RecordID: record.ID, SessionType: attendance.SessionAfternoonOut, ClockOut: &afternoonOut, CalculatedHours: 4},
	} {
		_, err := fx.sessions.Create(ctx, s)
		require.NoError(t, err)
	}

	// Correcting the missing morning_out to 12:00 completes an 8h day.
	created, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)
	_, err = fx.service.Approve(ctx, timecorrection.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	refreshed, err := fx.records.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, refreshed.OverallStatus)
}

func TestCorrectionService_Approve_RejectLeavesTimelineAlone(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)

	resp, err := fx.service.Approve(ctx, timecorrection.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: false})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)

	date, _ := time.Parse("2006-01-02", yesterday())
	_, err = fx.records.GetByEmployeeAndDate(ctx, "emp-1", date)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestCorrectionService_Approve_AlreadyProcessed(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, timecorrection.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, timecorrection.ApproveRequest{ID: created.ID, ApproverID: "mgr-2", Approved: true})
	assert.ErrorIs(t, err, timecorrection.ErrAlreadyProcessed)
}

func TestCorrectionService_Delete_PendingOnly(t *testing.T) {
	fx := newCorrectionFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, validCorrection())
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, timecorrection.ApproveRequest{ID: created.ID, ApproverID: "mgr-1", Approved: true})
	require.NoError(t, err)

	err = fx.service.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, timecorrection.ErrCannotDeleteProcessed)
}
