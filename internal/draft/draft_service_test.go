package draft_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/draft"
	drafterrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/draft/errors"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"
	runerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDraftRepository struct {
	withTxFn           func(tx *sql.Tx) draft.Repository
	findRunFn          func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
	findRunForUpdateFn func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error)
	insertItemsFn      func(ctx context.Context, items []draft.PayrollItem) error
	swapGenerationFn   func(ctx context.Context, runID string, generation int64, employeeCount int, totalNetPay int64, exceptionCount int) error
	reapFn             func(ctx context.Context, runID string, liveGeneration int64) error
	listItemsFn        func(ctx context.Context, runID string, generation int64) ([]draft.PayrollItem, error)
	listExceptionsFn   func(ctx context.Context, runID string, generation int64) ([]draft.PayrollItem, error)
}

func (f *fakeDraftRepository) WithTx(tx *sql.Tx) draft.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeDraftRepository) FindRun(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
	if f.findRunFn != nil {
		return f.findRunFn(ctx, runID)
	}
	return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusDraft}, nil
}

func (f *fakeDraftRepository) FindRunForUpdate(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
	if f.findRunForUpdateFn != nil {
		return f.findRunForUpdateFn(ctx, runID)
	}
	return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusDraft}, nil
}

func (f *fakeDraftRepository) InsertItems(ctx context.Context, items []draft.PayrollItem) error {
	if f.insertItemsFn != nil {
		return f.insertItemsFn(ctx, items)
	}
	return nil
}

func (f *fakeDraftRepository) SwapGeneration(ctx context.Context, runID string, generation int64, employeeCount int, totalNetPay int64, exceptionCount int) error {
	if f.swapGenerationFn != nil {
		return f.swapGenerationFn(ctx, runID, generation, employeeCount, totalNetPay, exceptionCount)
	}
	return nil
}

func (f *fakeDraftRepository) ReapOldGenerations(ctx context.Context, runID string, liveGeneration int64) error {
	if f.reapFn != nil {
		return f.reapFn(ctx, runID, liveGeneration)
	}
	return nil
}

func (f *fakeDraftRepository) ListItems(ctx context.Context, runID string, generation int64) ([]draft.PayrollItem, error) {
	if f.listItemsFn != nil {
		return f.listItemsFn(ctx, runID, generation)
	}
	return nil, nil
}

func (f *fakeDraftRepository) ListExceptions(ctx context.Context, runID string, generation int64) ([]draft.PayrollItem, error) {
	if f.listExceptionsFn != nil {
		return f.listExceptionsFn(ctx, runID, generation)
	}
	return nil, nil
}

type draftServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service draft.Service
	repo    *fakeDraftRepository
}

func setupDraftServiceTest(t *testing.T) *draftServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeDraftRepository{}
	svc := draft.NewService(db, repo)

	return &draftServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
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

func i64(v int64) *int64 {
	return &v
}

func TestDraftService_GenerateDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("computes net pay for a clean employee", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var inserted []draft.PayrollItem
		deps.repo.findRunForUpdateFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusDraft, CurrentGeneration: 1}, nil
		}
		deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
			inserted = items
			return nil
		}

		resp, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{
					EmployeeID:          "E1",
					BaseSalary:          i64(5000),
					TaxAmount:           750,
					InsuranceAmount:     550,
					HasActiveContract:   true,
					HasValidBankAccount: true,
				},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.EmployeeCount)
		assert.Equal(t, int64(3700), resp.TotalNetPay)
		assert.Equal(t, 0, resp.ExceptionCount)
		assert.Equal(t, int64(2), resp.Generation)

		assert.Len(t, inserted, 1)
		assert.Equal(t, int64(5000), inserted[0].Gross)
		assert.Equal(t, int64(1300), inserted[0].Deductions)
		assert.Equal(t, int64(3700), inserted[0].NetPay)
		assert.Empty(t, inserted[0].Exceptions)
		assert.Equal(t, int64(2), inserted[0].Generation)
	})

	t.Run("flags missing bank details without touching net pay", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var inserted []draft.PayrollItem
		deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
			inserted = items
			return nil
		}

		resp, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{
					EmployeeID:          "E1",
					BaseSalary:          i64(5000),
					TaxAmount:           750,
					InsuranceAmount:     550,
					HasActiveContract:   true,
					HasValidBankAccount: false,
				},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(3700), resp.TotalNetPay)
		assert.Equal(t, 1, resp.ExceptionCount)
		assert.Equal(t, draft.ExceptionMissingBank, inserted[0].Exceptions)
		assert.Equal(t, int64(3700), inserted[0].NetPay)
	})

	t.Run("clamps negative net pay to zero and flags it", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var inserted []draft.PayrollItem
		deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
			inserted = items
			return nil
		}

		resp, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{
					EmployeeID:          "E1",
					BaseSalary:          i64(1000),
					TaxAmount:           800,
					InsuranceAmount:     400,
					HasActiveContract:   true,
					HasValidBankAccount: true,
				},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), resp.TotalNetPay)
		assert.Equal(t, 1, resp.ExceptionCount)
		assert.Equal(t, int64(0), inserted[0].NetPay)
		assert.Equal(t, int64(1200), inserted[0].Deductions)
		assert.Contains(t, inserted[0].Exceptions, draft.ExceptionNegativeNetPay)
	})

	t.Run("inactive contract short-circuits the computation", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var inserted []draft.PayrollItem
		deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
			inserted = items
			return nil
		}

		resp, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{
					EmployeeID:          "E1",
					BaseSalary:          i64(5000),
					TaxAmount:           750,
					HasActiveContract:   false,
					HasValidBankAccount: false,
				},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.EmployeeCount)
		assert.Equal(t, int64(0), resp.TotalNetPay)
		assert.Equal(t, 1, resp.ExceptionCount)

		// Bank details are not checked once the contract flag fired.
		assert.Equal(t, draft.ExceptionContractInactive, inserted[0].Exceptions)
		assert.Equal(t, int64(0), inserted[0].NetPay)
		assert.Equal(t, int64(0), inserted[0].Deductions)
		assert.Equal(t, int64(0), inserted[0].Gross)
	})

	t.Run("identical input yields identical items regardless of order", func(t *testing.T) {
		run := func(order []draft.EmployeeInput) []draft.PayrollItem {
			deps := setupDraftServiceTest(t)
			defer deps.db.Close()

			expectTx(t, deps.sqlMock, true)

			var inserted []draft.PayrollItem
			deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
				inserted = items
				return nil
			}

			_, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{Employees: order})
			assert.NoError(t, err)
			return inserted
		}

		a := draft.EmployeeInput{EmployeeID: "E1", BaseSalary: i64(5000), TaxAmount: 500, HasActiveContract: true, HasValidBankAccount: true}
		b := draft.EmployeeInput{EmployeeID: "E2", BaseSalary: i64(3000), Bonus: 200, HasActiveContract: true, HasValidBankAccount: true}

		first := run([]draft.EmployeeInput{a, b})
		second := run([]draft.EmployeeInput{b, a})

		assert.Len(t, first, 2)
		assert.Len(t, second, 2)
		for i := range first {
			assert.Equal(t, first[i].EmployeeID, second[i].EmployeeID)
			assert.Equal(t, first[i].NetPay, second[i].NetPay)
			assert.Equal(t, first[i].Exceptions, second[i].Exceptions)
		}
	})

	t.Run("locked run is blocked and nothing is written", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findRunForUpdateFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, Status: payrollrun.StatusLocked}, nil
		}
		deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
			t.Fatal("insert must not be called on a blocked run")
			return nil
		}

		_, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{EmployeeID: "E1", BaseSalary: i64(1000), HasActiveContract: true},
			},
		})

		assert.ErrorIs(t, err, drafterrors.ErrRunBlocked)
	})

	t.Run("paid run is blocked", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findRunForUpdateFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{
				RunID:         runID,
				Status:        payrollrun.StatusApproved,
				PaymentStatus: payrollrun.PaymentPaid,
			}, nil
		}

		_, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{EmployeeID: "E1", BaseSalary: i64(1000), HasActiveContract: true},
			},
		})

		assert.ErrorIs(t, err, drafterrors.ErrRunBlocked)
	})

	t.Run("unknown run", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findRunForUpdateFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GenerateDraft(ctx, "RUN-404", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{EmployeeID: "E1", BaseSalary: i64(1000), HasActiveContract: true},
			},
		})

		assert.ErrorIs(t, err, runerrors.ErrRunNotFound)
	})

	t.Run("empty batch", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{})
		assert.ErrorIs(t, err, drafterrors.ErrEmptyBatch)
	})

	t.Run("missing base salary", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{{EmployeeID: "E1"}},
		})
		assert.ErrorIs(t, err, drafterrors.ErrMissingBaseSalary)
	})

	t.Run("duplicate employee id", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{EmployeeID: "E1", BaseSalary: i64(1000)},
				{EmployeeID: "E1", BaseSalary: i64(2000)},
			},
		})
		assert.ErrorIs(t, err, drafterrors.ErrDuplicateEmployee)
	})

	t.Run("summary matches sum of stored items", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var inserted []draft.PayrollItem
		deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
			inserted = items
			return nil
		}

		resp, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{EmployeeID: "E1", BaseSalary: i64(5000), TaxAmount: 500, HasActiveContract: true, HasValidBankAccount: true},
				{EmployeeID: "E2", BaseSalary: i64(1000), TaxAmount: 1500, HasActiveContract: true, HasValidBankAccount: true},
				{EmployeeID: "E3", BaseSalary: i64(2000), HasActiveContract: false},
			},
		})

		assert.NoError(t, err)

		var total int64
		for _, item := range inserted {
			total += item.NetPay
		}
		assert.Equal(t, total, resp.TotalNetPay)
		assert.Equal(t, len(inserted), resp.EmployeeCount)
		assert.Equal(t, 2, resp.ExceptionCount)
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.insertItemsFn = func(ctx context.Context, items []draft.PayrollItem) error {
			return errors.New("disk full")
		}

		_, err := deps.service.GenerateDraft(ctx, "RUN-1", draft.GenerateDraftRequest{
			Employees: []draft.EmployeeInput{
				{EmployeeID: "E1", BaseSalary: i64(1000), HasActiveContract: true},
			},
		})

		assert.Error(t, err)
	})
}

func TestDraftService_GetExceptions(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only flagged items of the current generation", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		deps.repo.findRunFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return &payrollrun.PayrollRun{RunID: runID, CurrentGeneration: 3}, nil
		}
		deps.repo.listExceptionsFn = func(ctx context.Context, runID string, generation int64) ([]draft.PayrollItem, error) {
			assert.Equal(t, int64(3), generation)
			return []draft.PayrollItem{
				{EmployeeID: "E2", Exceptions: draft.ExceptionMissingBank},
			}, nil
		}

		resp, err := deps.service.GetExceptions(ctx, "RUN-1")
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, []string{draft.ExceptionMissingBank}, resp[0].Exceptions)
	})

	t.Run("unknown run", func(t *testing.T) {
		deps := setupDraftServiceTest(t)
		defer deps.db.Close()

		deps.repo.findRunFn = func(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetExceptions(ctx, "RUN-404")
		assert.ErrorIs(t, err, runerrors.ErrRunNotFound)
	})
}
