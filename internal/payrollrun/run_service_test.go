package payrollrun_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/approvallog"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/messaging/kafka"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"
	runerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRunRepository struct {
	withTxFn            func(tx *sql.Tx) payrollrun.Repository
	createFn            func(ctx context.Context, run *payrollrun.PayrollRun) error
	findAllFn           func(ctx context.Context) ([]payrollrun.PayrollRun, error)
	findByRunIDFn       func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
	runIDExistsFn       func(ctx context.Context, runID string) (bool, error)
	updateWhereStatusFn func(ctx context.Context, runID string, fromStatuses []string, updates map[string]any) (bool, error)
}

func (f *fakeRunRepository) WithTx(tx *sql.Tx) payrollrun.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRunRepository) Create(ctx context.Context, run *payrollrun.PayrollRun) error {
	if f.createFn != nil {
		return f.createFn(ctx, run)
	}
	return nil
}

func (f *fakeRunRepository) FindAll(ctx context.Context) ([]payrollrun.PayrollRun, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRunRepository) FindByRunID(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
	if f.findByRunIDFn != nil {
		return f.findByRunIDFn(ctx, runID)
	}
	return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusDraft}, nil
}

func (f *fakeRunRepository) RunIDExists(ctx context.Context, runID string) (bool, error) {
	if f.runIDExistsFn != nil {
		return f.runIDExistsFn(ctx, runID)
	}
	return false, nil
}

func (f *fakeRunRepository) UpdateWhereStatus(ctx context.Context, runID string, fromStatuses []string, updates map[string]any) (bool, error) {
	if f.updateWhereStatusFn != nil {
		return f.updateWhereStatusFn(ctx, runID, fromStatuses, updates)
	}
	return true, nil
}

type fakeApprovalLogRepository struct {
	recordFn func(ctx context.Context, action *approvallog.ApprovalAction) error
	recorded []approvallog.ApprovalAction
}

func (f *fakeApprovalLogRepository) WithTx(tx *sql.Tx) approvallog.Repository {
	return f
}

func (f *fakeApprovalLogRepository) Record(ctx context.Context, action *approvallog.ApprovalAction) error {
	f.recorded = append(f.recorded, *action)
	if f.recordFn != nil {
		return f.recordFn(ctx, action)
	}
	return nil
}

func (f *fakeApprovalLogRepository) ListByTarget(ctx context.Context, targetID, targetType string) ([]approvallog.ApprovalAction, error) {
	return nil, nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, entity, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, entity, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, entity, counterType)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type runServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service payrollrun.Service
	repo    *fakeRunRepository
	logRepo *fakeApprovalLogRepository
	counter *fakeCounterRepository
	outbox  *fakeOutboxRepository
}

func setupRunServiceTest(t *testing.T, cfg payrollrun.Config) *runServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRunRepository{}
	logRepo := &fakeApprovalLogRepository{}
	counterRepo := &fakeCounterRepository{}
	outbox := &fakeOutboxRepository{}
	svc := payrollrun.NewServiceWithOutbox(db, repo, logRepo, counterRepo, outbox, cfg)

	return &runServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		logRepo: logRepo,
		counter: counterRepo,
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

func TestRunService_Create(t *testing.T) {
	ctx := context.Background()
	specialistID := uuid.New().String()
	managerID := uuid.New().String()

	t.Run("success with full date period", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *payrollrun.PayrollRun
		deps.repo.createFn = func(ctx context.Context, run *payrollrun.PayrollRun) error {
			created = run
			return nil
		}

		resp, err := deps.service.Create(ctx, "actor-1", payrollrun.CreateRunRequest{
			RunID:               "RUN-CAIRO-0001",
			PayrollPeriod:       "2026-08-01",
			Entity:              "Cairo",
			PayrollSpecialistID: specialistID,
			PayrollManagerID:    managerID,
		})

		assert.NoError(t, err)
		assert.Equal(t, payrollrun.StatusDraft, resp.Status)
		assert.Equal(t, payrollrun.PaymentPending, resp.PaymentStatus)
		assert.Equal(t, payrollrun.AggregateSourceDraft, resp.AggregateSource)
		assert.Equal(t, "RUN-CAIRO-0001", created.RunID)
	})

	t.Run("success with month-only period", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, "actor-1", payrollrun.CreateRunRequest{
			RunID:               "RUN-CAIRO-0002",
			PayrollPeriod:       "2026-08",
			Entity:              "Cairo",
			PayrollSpecialistID: specialistID,
			PayrollManagerID:    managerID,
		})

		assert.NoError(t, err)
		assert.Equal(t, "2026-08-01", resp.PayrollPeriod)
	})

	t.Run("duplicate run id", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.runIDExistsFn = func(ctx context.Context, runID string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, "actor-1", payrollrun.CreateRunRequest{
			RunID:               "RUN-CAIRO-0001",
			PayrollPeriod:       "2026-08-01",
			Entity:              "Cairo",
			PayrollSpecialistID: specialistID,
			PayrollManagerID:    managerID,
		})

		assert.ErrorIs(t, err, runerrors.ErrRunIDExists)
	})

	t.Run("invalid period format", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, "actor-1", payrollrun.CreateRunRequest{
			RunID:               "RUN-CAIRO-0001",
			PayrollPeriod:       "August 2026",
			Entity:              "Cairo",
			PayrollSpecialistID: specialistID,
			PayrollManagerID:    managerID,
		})

		assert.ErrorIs(t, err, runerrors.ErrInvalidPeriodFormat)
	})
}

func TestRunService_SubmitForReview(t *testing.T) {
	ctx := context.Background()

	t.Run("success from draft", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			assert.ElementsMatch(t, []string{payrollrun.StatusDraft, payrollrun.StatusUnlocked}, from)
			assert.Equal(t, payrollrun.StatusUnderReview, updates["status"])
			return true, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusUnderReview}, nil
		}

		resp, err := deps.service.SubmitForReview(ctx, "actor-1", "Payroll Specialist", "RUN-1")
		assert.NoError(t, err)
		assert.Equal(t, payrollrun.StatusUnderReview, resp.Status)

		assert.Len(t, deps.logRepo.recorded, 1)
		assert.Equal(t, approvallog.ActionPublish, deps.logRepo.recorded[0].ActionType)
		assert.Equal(t, approvallog.TargetTypeRun, deps.logRepo.recorded[0].TargetType)
	})

	t.Run("guard miss on existing run is an invalid transition", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			return false, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusApproved}, nil
		}

		_, err := deps.service.SubmitForReview(ctx, "actor-1", "Payroll Specialist", "RUN-1")
		assert.ErrorIs(t, err, runerrors.ErrInvalidTransition)
		assert.Empty(t, deps.logRepo.recorded)
	})

	t.Run("guard miss on missing run is not found", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			return false, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.SubmitForReview(ctx, "actor-1", "Payroll Specialist", "RUN-404")
		assert.ErrorIs(t, err, runerrors.ErrRunNotFound)
	})
}

func TestRunService_ManagerApprove(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New().String()

	t.Run("moves under review to pending finance approval", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			assert.Equal(t, []string{payrollrun.StatusUnderReview}, from)
			assert.Equal(t, payrollrun.StatusPendingFinanceApproval, updates["status"])
			assert.NotNil(t, updates["manager_approval_date"])
			parsed, _ := uuid.Parse(managerID)
			assert.Equal(t, parsed, updates["payroll_manager_id"])
			return true, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusPendingFinanceApproval}, nil
		}

		resp, err := deps.service.ManagerApprove(ctx, "Payroll Manager", "RUN-1", payrollrun.ManagerApproveRequest{
			ManagerID: managerID,
		})

		assert.NoError(t, err)
		assert.Equal(t, payrollrun.StatusPendingFinanceApproval, resp.Status)

		assert.Len(t, deps.logRepo.recorded, 1)
		assert.Equal(t, approvallog.ActionManagerApprove, deps.logRepo.recorded[0].ActionType)
		assert.Equal(t, managerID, deps.logRepo.recorded[0].ActorID)
	})

	t.Run("guard miss on approved run", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			return false, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusApproved}, nil
		}

		_, err := deps.service.ManagerApprove(ctx, "Payroll Manager", "RUN-1", payrollrun.ManagerApproveRequest{
			ManagerID: managerID,
		})
		assert.ErrorIs(t, err, runerrors.ErrInvalidTransition)
		assert.Empty(t, deps.logRepo.recorded)
	})

	t.Run("invalid manager id", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		_, err := deps.service.ManagerApprove(ctx, "Payroll Manager", "RUN-1", payrollrun.ManagerApproveRequest{
			ManagerID: "not-a-uuid",
		})
		assert.ErrorIs(t, err, runerrors.ErrInvalidManagerID)
	})
}

func TestRunService_FinanceApprove(t *testing.T) {
	ctx := context.Background()
	financeStaffID := uuid.New().String()

	t.Run("marks paid and queues the approved event", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			assert.Equal(t, []string{payrollrun.StatusPendingFinanceApproval}, from)
			assert.Equal(t, payrollrun.StatusApproved, updates["status"])
			assert.Equal(t, payrollrun.PaymentPaid, updates["payment_status"])
			return true, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{
				RunID:         runID,
				Status:        payrollrun.StatusApproved,
				PaymentStatus: payrollrun.PaymentPaid,
			}, nil
		}

		resp, err := deps.service.FinanceApprove(ctx, "Finance Staff", "RUN-1", payrollrun.FinanceApproveRequest{
			FinanceStaffID: financeStaffID,
		})

		assert.NoError(t, err)
		assert.Equal(t, payrollrun.PaymentPaid, resp.PaymentStatus)

		assert.Len(t, deps.logRepo.recorded, 1)
		assert.Equal(t, approvallog.ActionFinanceApprove, deps.logRepo.recorded[0].ActionType)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "payroll.run.approved", deps.outbox.created[0].EventType)
		assert.Equal(t, "RUN-1", deps.outbox.created[0].AggregateID)
	})

	t.Run("invalid finance staff id", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		_, err := deps.service.FinanceApprove(ctx, "Finance Staff", "RUN-1", payrollrun.FinanceApproveRequest{
			FinanceStaffID: "not-a-uuid",
		})
		assert.ErrorIs(t, err, runerrors.ErrInvalidFinanceStaffID)
	})
}

func TestRunService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("under review rejects as manager", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusUnderReview}, nil
		}

		_, err := deps.service.Reject(ctx, "actor-1", "Payroll Manager", "RUN-1", "numbers look off")
		assert.NoError(t, err)
		assert.Len(t, deps.logRepo.recorded, 1)
		assert.Equal(t, approvallog.ActionManagerReject, deps.logRepo.recorded[0].ActionType)
		assert.Equal(t, "numbers look off", *deps.logRepo.recorded[0].Reason)
	})

	t.Run("pending finance rejects as finance", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusPendingFinanceApproval}, nil
		}

		_, err := deps.service.Reject(ctx, "actor-1", "Finance Staff", "RUN-1", "budget exceeded")
		assert.NoError(t, err)
		assert.Equal(t, approvallog.ActionFinanceReject, deps.logRepo.recorded[0].ActionType)
	})

	t.Run("blank reason", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		_, err := deps.service.Reject(ctx, "actor-1", "Payroll Manager", "RUN-1", "   ")
		assert.ErrorIs(t, err, runerrors.ErrReasonRequired)
	})

	t.Run("not rejectable from draft", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusDraft}, nil
		}

		_, err := deps.service.Reject(ctx, "actor-1", "Payroll Manager", "RUN-1", "too early")
		assert.ErrorIs(t, err, runerrors.ErrInvalidTransition)
	})
}

func TestRunService_LockUnlock(t *testing.T) {
	ctx := context.Background()

	t.Run("lock requires approved by default", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			assert.Equal(t, []string{payrollrun.StatusApproved}, from)
			return true, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusLocked}, nil
		}

		resp, err := deps.service.Lock(ctx, "actor-1", "Payroll Manager", "RUN-1")
		assert.NoError(t, err)
		assert.Equal(t, payrollrun.StatusLocked, resp.Status)
		assert.Equal(t, approvallog.ActionLock, deps.logRepo.recorded[0].ActionType)
	})

	t.Run("lock from any state when configured", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{LockFromAnyState: true})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			assert.Contains(t, from, payrollrun.StatusDraft)
			assert.NotContains(t, from, payrollrun.StatusLocked)
			return true, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusLocked}, nil
		}

		_, err := deps.service.Lock(ctx, "actor-1", "Payroll Manager", "RUN-1")
		assert.NoError(t, err)
	})

	t.Run("unlock requires reason", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		_, err := deps.service.Unlock(ctx, "actor-1", "Payroll Manager", "RUN-1", "")
		assert.ErrorIs(t, err, runerrors.ErrReasonRequired)
	})

	t.Run("unlock from locked", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.updateWhereStatusFn = func(ctx context.Context, runID string, from []string, updates map[string]any) (bool, error) {
			assert.Equal(t, []string{payrollrun.StatusLocked}, from)
			assert.Equal(t, payrollrun.StatusUnlocked, updates["status"])
			return true, nil
		}
		deps.repo.findByRunIDFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusUnlocked}, nil
		}

		_, err := deps.service.Unlock(ctx, "actor-1", "Payroll Manager", "RUN-1", "late correction")
		assert.NoError(t, err)
		assert.Equal(t, approvallog.ActionUnfreeze, deps.logRepo.recorded[0].ActionType)
	})
}

func TestRunService_NextRunID(t *testing.T) {
	ctx := context.Background()

	t.Run("formats entity and sequence", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		deps.counter.getNextValueFn = func(ctx context.Context, entity, counterType string) (int64, error) {
			assert.Equal(t, "Cairo Office", entity)
			return 42, nil
		}

		resp, err := deps.service.NextRunID(ctx, "Cairo Office")
		assert.NoError(t, err)
		assert.Equal(t, "RUN-CAIRO-OFFICE-0042", resp.RunID)
	})

	t.Run("blank entity", func(t *testing.T) {
		deps := setupRunServiceTest(t, payrollrun.Config{})
		defer deps.db.Close()

		_, err := deps.service.NextRunID(ctx, "  ")
		assert.Error(t, err)
	})
}
