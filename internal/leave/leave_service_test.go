package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-ems/internal/domain"
	"go-ems/internal/events"
	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn                 func(tx *sql.Tx) leave.Repository
	createFn                 func(ctx context.Context, l *leave.Leave) error
	findAllFn                func(ctx context.Context) ([]leave.Leave, error)
	findByEmployeeFn         func(ctx context.Context, employeeID string) ([]leave.Leave, error)
	findByIDFn               func(ctx context.Context, id string) (*leave.Leave, error)
	updateFn                 func(ctx context.Context, l *leave.Leave) error
	deleteFn                 func(ctx context.Context, id string) error
	hasOverlappingPeriodFn   func(ctx context.Context, employeeID string, fromDate, toDate time.Time, excludeID *string) (bool, error)
	listStatusesFn           func(ctx context.Context) ([]string, error)
	listStatusesByEmployeeFn func(ctx context.Context, employeeID string) ([]string, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, fromDate, toDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, fromDate, toDate, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) ListStatuses(ctx context.Context) ([]string, error) {
	if f.listStatusesFn != nil {
		return f.listStatusesFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) ListStatusesByEmployee(ctx context.Context, employeeID string) ([]string, error) {
	if f.listStatusesByEmployeeFn != nil {
		return f.listStatusesByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListDue(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkPublished(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewService(db, repo, outbox, nil)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	req := leave.CreateLeaveRequest{
		LeaveType:   "sick",
		FromDate:    "2026-09-01",
		ToDate:      "2026-09-03",
		Description: "Flu",
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *leave.Leave
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			created = l
			return nil
		}

		resp, err := deps.service.Create(ctx, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, domain.LeaveStatusPending, resp.Status)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, "2026-09-01", resp.FromDate)
		assert.Nil(t, resp.ApprovedBy)
		assert.NotNil(t, created)
		assert.Equal(t, domain.LeaveStatusPending, created.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative from date after to date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		bad := req
		bad.FromDate = "2026-09-05"
		bad.ToDate = "2026-09-03"

		_, err := deps.service.Create(ctx, employeeID, bad)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		bad := req
		bad.FromDate = "01-09-2026"

		_, err := deps.service.Create(ctx, employeeID, bad)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, from, to time.Time, excludeID *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, employeeID, req)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("negative malformed employee id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, "not-a-uuid", req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	pendingLeave := func() *leave.Leave {
		return &leave.Leave{
			ID:          uuid.New(),
			EmployeeID:  uuid.New(),
			LeaveType:   "casual",
			FromDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			ToDate:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			AppliedDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			Status:      domain.LeaveStatusPending,
		}
	}

	t.Run("success approve queues outbox event", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			assert.Equal(t, l.ID.String(), id)
			return l, nil
		}

		var queued *kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			queued = &event
			return nil
		}

		resp, err := deps.service.Decide(ctx, actorID, l.ID.String(), domain.LeaveStatusApproved)

		assert.NoError(t, err)
		assert.Equal(t, domain.LeaveStatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovedDate)

		assert.NotNil(t, queued)
		assert.Equal(t, events.LeaveDecidedTopic, queued.Topic)
		assert.Equal(t, l.EmployeeID.String(), queued.PartitionKey)
		assert.Equal(t, kafka.OutboxPending, queued.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave()
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return l, nil
		}

		resp, err := deps.service.Decide(ctx, actorID, l.ID.String(), domain.LeaveStatusRejected)

		assert.NoError(t, err)
		assert.Equal(t, domain.LeaveStatusRejected, resp.Status)
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave()
		l.Status = domain.LeaveStatusApproved
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return l, nil
		}

		_, err := deps.service.Decide(ctx, actorID, l.ID.String(), domain.LeaveStatusRejected)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("negative target pending is not a decision", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave()
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return l, nil
		}

		_, err := deps.service.Decide(ctx, actorID, l.ID.String(), domain.LeaveStatusPending)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Decide(ctx, actorID, uuid.NewString(), domain.LeaveStatusApproved)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Withdraw(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	ownLeave := func(status string) *leave.Leave {
		return &leave.Leave{
			ID:         uuid.New(),
			EmployeeID: ownerID,
			Status:     status,
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := ownLeave(domain.LeaveStatusPending)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return l, nil
		}

		deleted := ""
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = id
			return nil
		}

		err := deps.service.Withdraw(ctx, ownerID.String(), l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, l.ID.String(), deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative someone else's request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := ownLeave(domain.LeaveStatusPending)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return l, nil
		}

		err := deps.service.Withdraw(ctx, uuid.NewString(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
	})

	t.Run("negative approved request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := ownLeave(domain.LeaveStatusApproved)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return l, nil
		}

		err := deps.service.Withdraw(ctx, ownerID.String(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingWithdrawable)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := deps.service.Withdraw(ctx, ownerID.String(), uuid.NewString())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
