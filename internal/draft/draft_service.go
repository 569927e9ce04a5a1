package draft

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	drafterrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/draft/errors"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"
	runerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=draft_service.go -destination=mock/draft_service_mock.go -package=mock
type Service interface {
	GenerateDraft(ctx context.Context, runID string, req GenerateDraftRequest) (DraftSummaryResponse, error)
	GetItems(ctx context.Context, runID string) ([]ItemResponse, error)
	GetExceptions(ctx context.Context, runID string) ([]ItemResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("draft.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("draft.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// GenerateDraft computes the per-employee batch and replaces the run's draft
// wholesale. The new batch is written under the next generation and the run's
// generation pointer swapped in the same transaction, so a reader either sees
// the full old draft or the full new one, never a mix.
func (s *service) GenerateDraft(ctx context.Context, runID string, req GenerateDraftRequest) (DraftSummaryResponse, error) {
	if err := validateBatch(req.Employees); err != nil {
		return DraftSummaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DraftSummaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunForUpdate(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DraftSummaryResponse{}, runerrors.ErrRunNotFound
		}
		return DraftSummaryResponse{}, err
	}

	if run.Status == payrollrun.StatusLocked || run.PaymentStatus == payrollrun.PaymentPaid {
		return DraftSummaryResponse{}, drafterrors.ErrRunBlocked
	}

	generation := run.CurrentGeneration + 1
	items, summary := computeBatch(runID, generation, req.Employees)

	if err := qtx.InsertItems(ctx, items); err != nil {
		s.logger.Error("insert draft items failed", zap.String("run_id", runID), zap.Error(err))
		return DraftSummaryResponse{}, err
	}

	if err := qtx.SwapGeneration(ctx, runID, generation,
		summary.EmployeeCount, summary.TotalNetPay, summary.ExceptionCount); err != nil {
		return DraftSummaryResponse{}, err
	}

	if err := qtx.ReapOldGenerations(ctx, runID, generation); err != nil {
		return DraftSummaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DraftSummaryResponse{}, err
	}

	s.logger.Info("draft generated",
		zap.String("run_id", runID),
		zap.Int64("generation", generation),
		zap.Int("employee_count", summary.EmployeeCount),
		zap.Int64("total_net_pay", summary.TotalNetPay),
		zap.Int("exception_count", summary.ExceptionCount),
	)

	return summary, nil
}

func (s *service) GetItems(ctx context.Context, runID string) ([]ItemResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, runID, run.CurrentGeneration)
	if err != nil {
		return nil, err
	}
	return mapItemsToResponse(items), nil
}

func (s *service) GetExceptions(ctx context.Context, runID string) ([]ItemResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListExceptions(ctx, runID, run.CurrentGeneration)
	if err != nil {
		return nil, err
	}
	return mapItemsToResponse(items), nil
}

func (s *service) findRun(ctx context.Context, runID string) (*payrollrun.PayrollRun, error) {
	run, err := s.repo.FindRun(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, runerrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func validateBatch(employees []EmployeeInput) error {
	if len(employees) == 0 {
		return drafterrors.ErrEmptyBatch
	}

	seen := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		id := strings.TrimSpace(e.EmployeeID)
		if id == "" {
			return drafterrors.ErrMissingEmployeeID
		}
		if e.BaseSalary == nil {
			return drafterrors.ErrMissingBaseSalary
		}
		if *e.BaseSalary < 0 || e.Allowances < 0 || e.Bonus < 0 || e.Benefit < 0 ||
			e.Refunds < 0 || e.TaxAmount < 0 || e.InsuranceAmount < 0 ||
			e.UnpaidLeaveAmount < 0 || e.PenaltiesAmount < 0 {
			return drafterrors.ErrNegativeAmount
		}
		if _, dup := seen[id]; dup {
			return drafterrors.ErrDuplicateEmployee
		}
		seen[id] = struct{}{}
	}
	return nil
}

// computeBatch is deterministic: items are emitted in employee-id order and
// each line depends only on its own input, so identical batches produce
// identical drafts regardless of request ordering.
func computeBatch(runID string, generation int64, employees []EmployeeInput) ([]PayrollItem, DraftSummaryResponse) {
	sorted := make([]EmployeeInput, len(employees))
	copy(sorted, employees)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EmployeeID < sorted[j].EmployeeID
	})

	items := make([]PayrollItem, 0, len(sorted))
	summary := DraftSummaryResponse{RunID: runID, Generation: generation}

	for _, e := range sorted {
		item := computeItem(runID, generation, e)
		items = append(items, item)

		summary.EmployeeCount++
		summary.TotalNetPay += item.NetPay
		if item.Exceptions != "" {
			summary.ExceptionCount++
		}
	}

	return items, summary
}

func computeItem(runID string, generation int64, e EmployeeInput) PayrollItem {
	item := PayrollItem{
		ID:                  uuid.New(),
		RunID:               runID,
		Generation:          generation,
		EmployeeID:          strings.TrimSpace(e.EmployeeID),
		BaseSalary:          *e.BaseSalary,
		Allowances:          e.Allowances,
		Bonus:               e.Bonus,
		Benefit:             e.Benefit,
		Refunds:             e.Refunds,
		TaxAmount:           e.TaxAmount,
		InsuranceAmount:     e.InsuranceAmount,
		UnpaidLeaveAmount:   e.UnpaidLeaveAmount,
		PenaltiesAmount:     e.PenaltiesAmount,
		HasValidBankAccount: e.HasValidBankAccount,
	}

	// An inactive contract short-circuits the computation: nothing is owed,
	// nothing is deducted, and the line is flagged for review.
	if !e.HasActiveContract {
		item.Exceptions = ExceptionContractInactive
		return item
	}

	item.Gross = item.BaseSalary + item.Allowances + item.Bonus + item.Benefit + item.Refunds
	item.Deductions = item.TaxAmount + item.InsuranceAmount + item.UnpaidLeaveAmount + item.PenaltiesAmount
	item.NetPay = item.Gross - item.Deductions

	var flags []string
	if !e.HasValidBankAccount {
		flags = append(flags, ExceptionMissingBank)
	}
	if item.NetPay < 0 {
		// Negative pay is flagged and clamped, never disbursed and never an
		// error: the clamped value is what gets stored and aggregated.
		flags = append(flags, ExceptionNegativeNetPay)
		item.NetPay = 0
	}
	item.Exceptions = strings.Join(flags, ExceptionSeparator)

	return item
}
