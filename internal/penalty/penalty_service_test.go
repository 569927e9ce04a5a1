package penalty_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"
	runerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun/errors"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/penalty"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePenaltyRepository struct {
	createFn    func(ctx context.Context, entry *penalty.PenaltyEntry) error
	listByRunFn func(ctx context.Context, runID string) ([]penalty.PenaltyEntry, error)
}

func (f *fakePenaltyRepository) WithTx(tx *sql.Tx) penalty.Repository {
	return f
}

func (f *fakePenaltyRepository) Create(ctx context.Context, entry *penalty.PenaltyEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakePenaltyRepository) ListByRun(ctx context.Context, runID string) ([]penalty.PenaltyEntry, error) {
	if f.listByRunFn != nil {
		return f.listByRunFn(ctx, runID)
	}
	return nil, nil
}

func (f *fakePenaltyRepository) SumByEmployeeForRun(ctx context.Context, runID string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type fakeRunRepository struct {
	findByRunIDFn func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
}

func (f *fakeRunRepository) WithTx(tx *sql.Tx) payrollrun.Repository {
	return f
}

func (f *fakeRunRepository) Create(ctx context.Context, run *payrollrun.PayrollRun) error {
	return nil
}

func (f *fakeRunRepository) FindAll(ctx context.Context) ([]payrollrun.PayrollRun, error) {
	return nil, nil
}

func (f *fakeRunRepository) FindByRunID(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
	if f.findByRunIDFn != nil {
		return f.findByRunIDFn(ctx, runID)
	}
	return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusDraft}, nil
}

func (f *fakeRunRepository) RunIDExists(ctx context.Context, runID string) (bool, error) {
	return true, nil
}

func (f *fakeRunRepository) UpdateWhereStatus(ctx context.Context, runID string, fromStatuses []string, updates map[string]any) (bool, error) {
	return true, nil
}

func i64(v int64) *int64 {
	return &v
}

func TestPenaltyService_Create(t *testing.T) {
	ctx := context.Background()
	const runID = "RUN-HQ-0001"
	actorID := uuid.New().String()

	t.Run("records the entry", func(t *testing.T) {
		repo := &fakePenaltyRepository{}
		var created *penalty.PenaltyEntry
		repo.createFn = func(ctx context.Context, entry *penalty.PenaltyEntry) error {
			created = entry
			return nil
		}
		svc := penalty.NewService(repo, &fakeRunRepository{})

		resp, err := svc.Create(ctx, actorID, runID, penalty.CreatePenaltyRequest{
			EmployeeID: "  E1  ",
			Amount:     i64(500),
			Reason:     "late arrival",
		})

		assert.NoError(t, err)
		assert.Equal(t, "E1", created.EmployeeID)
		assert.Equal(t, actorID, created.RecordedBy)
		assert.Equal(t, int64(500), resp.Amount)
	})

	t.Run("blank reason", func(t *testing.T) {
		svc := penalty.NewService(&fakePenaltyRepository{}, &fakeRunRepository{})

		_, err := svc.Create(ctx, actorID, runID, penalty.CreatePenaltyRequest{
			EmployeeID: "E1",
			Amount:     i64(500),
			Reason:     "  ",
		})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	})

	t.Run("negative amount", func(t *testing.T) {
		svc := penalty.NewService(&fakePenaltyRepository{}, &fakeRunRepository{})

		_, err := svc.Create(ctx, actorID, runID, penalty.CreatePenaltyRequest{
			EmployeeID: "E1",
			Amount:     i64(-10),
			Reason:     "late arrival",
		})
		assert.Error(t, err)
	})

	t.Run("unknown run", func(t *testing.T) {
		runRepo := &fakeRunRepository{
			findByRunIDFn: func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := penalty.NewService(&fakePenaltyRepository{}, runRepo)

		_, err := svc.Create(ctx, actorID, "RUN-HQ-9999", penalty.CreatePenaltyRequest{
			EmployeeID: "E1",
			Amount:     i64(500),
			Reason:     "late arrival",
		})
		assert.ErrorIs(t, err, runerrors.ErrRunNotFound)
	})
}

func TestPenaltyService_ListByRun(t *testing.T) {
	ctx := context.Background()

	repo := &fakePenaltyRepository{
		listByRunFn: func(ctx context.Context, runID string) ([]penalty.PenaltyEntry, error) {
			return []penalty.PenaltyEntry{
				{ID: uuid.New(), RunID: runID, EmployeeID: "E1", Amount: 500, Reason: "late arrival"},
			}, nil
		},
	}
	svc := penalty.NewService(repo, &fakeRunRepository{})

	resp, err := svc.ListByRun(ctx, "RUN-HQ-0001")
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, int64(500), resp[0].Amount)
}
