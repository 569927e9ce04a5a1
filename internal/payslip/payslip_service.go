package payslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/draft"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/events"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/messaging/kafka"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"
	runerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun/errors"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/penalty"
	payslperrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payslip/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	GeneratePayslips(ctx context.Context, runID string) (FinalizeSummaryResponse, error)
	ListByRun(ctx context.Context, runID string) ([]PayslipResponse, error)
	GetByEmployee(ctx context.Context, runID, employeeID string) (PayslipResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	penaltyRepo penalty.Repository
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, penaltyRepo penalty.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	return &service{db: db, repo: repo, penaltyRepo: penaltyRepo, logger: l}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	penaltyRepo penalty.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	svc := NewService(db, repo, penaltyRepo, logger...).(*service)
	svc.outbox = outbox
	return svc
}

// GeneratePayslips finalizes the run's current draft. Penalty totals are
// summed fresh from the ledger rather than trusted from the draft snapshot,
// since penalties may have been recorded after the draft was reviewed; the
// resulting drift is reported in the summary instead of silently absorbed.
func (s *service) GeneratePayslips(ctx context.Context, runID string) (FinalizeSummaryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FinalizeSummaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunForUpdate(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FinalizeSummaryResponse{}, runerrors.ErrRunNotFound
		}
		return FinalizeSummaryResponse{}, err
	}

	// Payslips are the post-approval statement, so an approved (and therefore
	// paid-marked) run must still finalize; only a locked run is frozen.
	if run.Status == payrollrun.StatusLocked {
		return FinalizeSummaryResponse{}, payslperrors.ErrRunBlocked
	}

	items, err := qtx.ListDraftItems(ctx, runID, run.CurrentGeneration)
	if err != nil {
		return FinalizeSummaryResponse{}, err
	}
	if len(items) == 0 {
		return FinalizeSummaryResponse{}, payslperrors.ErrNoDraft
	}

	penaltyTotals, err := s.penaltyRepo.WithTx(tx).SumByEmployeeForRun(ctx, runID)
	if err != nil {
		return FinalizeSummaryResponse{}, err
	}

	slips, summary := buildPayslips(runID, run.CurrentGeneration, items, penaltyTotals)

	if err := qtx.ReplaceForRun(ctx, runID, slips); err != nil {
		s.logger.Error("replace payslips failed", zap.String("run_id", runID), zap.Error(err))
		return FinalizeSummaryResponse{}, err
	}

	if err := qtx.UpdateRunAggregates(ctx, runID,
		summary.EmployeeCount, summary.TotalNetPay, summary.ExceptionCount); err != nil {
		return FinalizeSummaryResponse{}, err
	}

	if err := s.queueRunFinalizedEvent(ctx, tx, runID, summary); err != nil {
		return FinalizeSummaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return FinalizeSummaryResponse{}, err
	}

	s.logger.Info("payslips generated",
		zap.String("run_id", runID),
		zap.Int64("generation", summary.Generation),
		zap.Int("employee_count", summary.EmployeeCount),
		zap.Int64("total_net_pay", summary.TotalNetPay),
		zap.Int64("net_pay_drift", summary.NetPayDrift),
	)

	return summary, nil
}

func (s *service) ListByRun(ctx context.Context, runID string) ([]PayslipResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	slips, err := s.repo.ListByRun(ctx, runID, run.CurrentGeneration)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(slips), nil
}

func (s *service) GetByEmployee(ctx context.Context, runID, employeeID string) (PayslipResponse, error) {
	run, err := s.findRun(ctx, runID)
	if err != nil {
		return PayslipResponse{}, err
	}

	slip, err := s.repo.FindByRunAndEmployee(ctx, runID, run.CurrentGeneration, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payslperrors.ErrPayslipNotFound
		}
		return PayslipResponse{}, err
	}
	return mapToResponse(*slip), nil
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

func buildPayslips(
	runID string,
	generation int64,
	items []draft.PayrollItem,
	penaltyTotals map[string]int64,
) ([]Payslip, FinalizeSummaryResponse) {
	slips := make([]Payslip, 0, len(items))
	summary := FinalizeSummaryResponse{RunID: runID, Generation: generation}

	for _, item := range items {
		slip := buildPayslip(runID, generation, item, penaltyTotals[item.EmployeeID])
		slips = append(slips, slip)

		summary.EmployeeCount++
		summary.TotalNetPay += slip.NetPay
		if slip.Exceptions != "" {
			summary.ExceptionCount++
		}

		// Drift compares the drafted net pay against what the fresh penalty
		// total would yield under the same clamp rule.
		recomputed := slip.Gross - slip.TotalDeductions
		if recomputed < 0 {
			recomputed = 0
		}
		summary.NetPayDrift += slip.NetPay - recomputed
	}

	return slips, summary
}

func buildPayslip(runID string, generation int64, item draft.PayrollItem, penaltyTotal int64) Payslip {
	slip := Payslip{
		ID:            uuid.New(),
		RunID:         runID,
		Generation:    generation,
		EmployeeID:    item.EmployeeID,
		Exceptions:    item.Exceptions,
		PaymentStatus: PaymentPending,
	}

	// An inactive contract stays short-circuited at finalization too: nothing
	// is owed, so fresh penalties are not applied against a zero line.
	if strings.Contains(item.Exceptions, draft.ExceptionContractInactive) {
		return slip
	}

	slip.Gross = item.BaseSalary + item.Allowances + item.Bonus + item.Benefit + item.Refunds
	slip.PenaltyTotal = penaltyTotal
	slip.TotalDeductions = item.TaxAmount + item.InsuranceAmount + item.UnpaidLeaveAmount + penaltyTotal
	// The drafted net pay is what reviewers saw and approved, so it is kept
	// as the disbursed figure; penalty movement shows up as drift.
	slip.NetPay = item.NetPay

	return slip
}

func (s *service) queueRunFinalizedEvent(ctx context.Context, tx *sql.Tx, runID string, summary FinalizeSummaryResponse) error {
	if s.outbox == nil {
		return nil
	}

	event := events.RunFinalizedEvent{
		EventType:     "payroll.run.finalized",
		RunID:         runID,
		EmployeeCount: summary.EmployeeCount,
		TotalNetPay:   summary.TotalNetPay,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "payroll_run",
		AggregateID:   runID,
		EventType:     event.EventType,
		Topic:         events.RunFinalizedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
