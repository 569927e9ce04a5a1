package payrollrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/approvallog"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/events"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/messaging/kafka"
	runerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun/errors"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const counterTypeRun = "payroll_run"

// Config controls the lifecycle guard behavior. LockFromAnyState restores the
// administrative override where a run may be locked regardless of its current
// state; the default requires APPROVED first.
type Config struct {
	LockFromAnyState bool
}

//go:generate mockgen -source=run_service.go -destination=mock/run_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateRunRequest) (RunResponse, error)
	GetAll(ctx context.Context) ([]RunResponse, error)
	GetByRunID(ctx context.Context, runID string) (RunResponse, error)
	NextRunID(ctx context.Context, entity string) (NextRunIDResponse, error)
	SubmitForReview(ctx context.Context, actorID, actorRole, runID string) (RunResponse, error)
	ManagerApprove(ctx context.Context, actorRole, runID string, req ManagerApproveRequest) (RunResponse, error)
	FinanceApprove(ctx context.Context, actorRole, runID string, req FinanceApproveRequest) (RunResponse, error)
	Reject(ctx context.Context, actorID, actorRole, runID, reason string) (RunResponse, error)
	Lock(ctx context.Context, actorID, actorRole, runID string) (RunResponse, error)
	Unlock(ctx context.Context, actorID, actorRole, runID, reason string) (RunResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	logRepo approvallog.Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	cfg     Config
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	logRepo approvallog.Repository,
	counterRepo counter.Repository,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("run.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("run.service")
	}
	return &service{db: db, repo: repo, logRepo: logRepo, counter: counterRepo, cfg: cfg, logger: l}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	logRepo approvallog.Repository,
	counterRepo counter.Repository,
	outbox kafka.OutboxRepository,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	svc := NewService(db, repo, logRepo, counterRepo, cfg, logger...).(*service)
	svc.outbox = outbox
	return svc
}

func (s *service) Create(ctx context.Context, actorID string, req CreateRunRequest) (RunResponse, error) {
	period, err := parsePeriod(req.PayrollPeriod)
	if err != nil {
		return RunResponse{}, err
	}

	specialistID, err := uuid.Parse(req.PayrollSpecialistID)
	if err != nil {
		return RunResponse{}, runerrors.ErrInvalidSpecialistID
	}
	managerID, err := uuid.Parse(req.PayrollManagerID)
	if err != nil {
		return RunResponse{}, runerrors.ErrInvalidManagerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.RunIDExists(ctx, req.RunID)
	if err != nil {
		return RunResponse{}, err
	}
	if exists {
		return RunResponse{}, runerrors.ErrRunIDExists
	}

	run := &PayrollRun{
		ID:                  uuid.New(),
		RunID:               req.RunID,
		PayrollPeriod:       period,
		Entity:              req.Entity,
		Status:              StatusDraft,
		PaymentStatus:       PaymentPending,
		AggregateSource:     AggregateSourceDraft,
		PayrollSpecialistID: specialistID,
		PayrollManagerID:    managerID,
	}

	if err := qtx.Create(ctx, run); err != nil {
		s.logger.Error("create run persist failed", zap.String("run_id", req.RunID), zap.Error(err))
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run created",
		zap.String("run_id", run.RunID),
		zap.String("entity", run.Entity),
		zap.String("created_by", actorID),
	)

	return mapToResponse(*run), nil
}

func (s *service) GetAll(ctx context.Context) ([]RunResponse, error) {
	runs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(runs), nil
}

func (s *service) GetByRunID(ctx context.Context, runID string) (RunResponse, error) {
	run, err := s.repo.FindByRunID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, runerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}
	return mapToResponse(*run), nil
}

// NextRunID suggests the next free run identifier for an entity. The caller
// may still submit its own run_id; uniqueness is enforced on create either way.
func (s *service) NextRunID(ctx context.Context, entity string) (NextRunIDResponse, error) {
	if strings.TrimSpace(entity) == "" {
		return NextRunIDResponse{}, apperror.RequiredField("entity")
	}

	seq, err := s.counter.GetNextValue(ctx, entity, counterTypeRun)
	if err != nil {
		return NextRunIDResponse{}, err
	}

	slug := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(entity), " ", "-"))
	return NextRunIDResponse{RunID: fmt.Sprintf("RUN-%s-%04d", slug, seq)}, nil
}

func (s *service) SubmitForReview(ctx context.Context, actorID, actorRole, runID string) (RunResponse, error) {
	return s.applyTransition(ctx, runID, transition{
		from:    []string{StatusDraft, StatusUnlocked},
		updates: map[string]any{"status": StatusUnderReview},
		log: approvallog.ApprovalAction{
			ActorID:    actorID,
			ActorRole:  actorRole,
			ActionType: approvallog.ActionPublish,
		},
	})
}

func (s *service) ManagerApprove(ctx context.Context, actorRole, runID string, req ManagerApproveRequest) (RunResponse, error) {
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return RunResponse{}, runerrors.ErrInvalidManagerID
	}

	now := time.Now().UTC()
	return s.applyTransition(ctx, runID, transition{
		from: []string{StatusUnderReview},
		updates: map[string]any{
			"status":                StatusPendingFinanceApproval,
			"payroll_manager_id":    managerID,
			"manager_approval_date": now,
		},
		log: approvallog.ApprovalAction{
			ActorID:    req.ManagerID,
			ActorRole:  actorRole,
			ActionType: approvallog.ActionManagerApprove,
		},
	})
}

func (s *service) FinanceApprove(ctx context.Context, actorRole, runID string, req FinanceApproveRequest) (RunResponse, error) {
	financeStaffID, err := uuid.Parse(req.FinanceStaffID)
	if err != nil {
		return RunResponse{}, runerrors.ErrInvalidFinanceStaffID
	}

	now := time.Now().UTC()
	return s.applyTransition(ctx, runID, transition{
		from: []string{StatusPendingFinanceApproval},
		updates: map[string]any{
			"status":                StatusApproved,
			"finance_staff_id":      financeStaffID,
			"finance_approval_date": now,
			"payment_status":        PaymentPaid,
		},
		log: approvallog.ApprovalAction{
			ActorID:    req.FinanceStaffID,
			ActorRole:  actorRole,
			ActionType: approvallog.ActionFinanceApprove,
		},
		afterApply: func(ctx context.Context, tx *sql.Tx, run *PayrollRun) error {
			return s.queueRunApprovedEvent(ctx, tx, run, req.FinanceStaffID)
		},
	})
}

func (s *service) Reject(ctx context.Context, actorID, actorRole, runID, reason string) (RunResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return RunResponse{}, runerrors.ErrReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindByRunID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunResponse{}, runerrors.ErrRunNotFound
		}
		return RunResponse{}, err
	}

	// The action type depends on which reviewer owns the current phase.
	var action string
	switch run.Status {
	case StatusUnderReview:
		action = approvallog.ActionManagerReject
	case StatusPendingFinanceApproval:
		action = approvallog.ActionFinanceReject
	default:
		return RunResponse{}, runerrors.ErrInvalidTransition
	}

	applied, err := qtx.UpdateWhereStatus(ctx, runID, []string{run.Status}, map[string]any{
		"status":           StatusRejected,
		"rejection_reason": reason,
	})
	if err != nil {
		return RunResponse{}, err
	}
	if !applied {
		return RunResponse{}, runerrors.ErrInvalidTransition
	}

	if err := s.recordAction(ctx, tx, runID, approvallog.ApprovalAction{
		ActorID:    actorID,
		ActorRole:  actorRole,
		ActionType: action,
		Reason:     &reason,
	}); err != nil {
		return RunResponse{}, err
	}

	updated, err := qtx.FindByRunID(ctx, runID)
	if err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run rejected",
		zap.String("run_id", runID),
		zap.String("action", action),
		zap.String("reason", reason),
	)

	return mapToResponse(*updated), nil
}

func (s *service) Lock(ctx context.Context, actorID, actorRole, runID string) (RunResponse, error) {
	from := []string{StatusApproved}
	if s.cfg.LockFromAnyState {
		from = []string{
			StatusDraft, StatusUnderReview, StatusPendingFinanceApproval,
			StatusApproved, StatusRejected, StatusUnlocked,
		}
	}

	return s.applyTransition(ctx, runID, transition{
		from:    from,
		updates: map[string]any{"status": StatusLocked},
		log: approvallog.ApprovalAction{
			ActorID:    actorID,
			ActorRole:  actorRole,
			ActionType: approvallog.ActionLock,
		},
	})
}

func (s *service) Unlock(ctx context.Context, actorID, actorRole, runID, reason string) (RunResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return RunResponse{}, runerrors.ErrReasonRequired
	}

	return s.applyTransition(ctx, runID, transition{
		from: []string{StatusLocked},
		updates: map[string]any{
			"status":        StatusUnlocked,
			"unlock_reason": reason,
		},
		log: approvallog.ApprovalAction{
			ActorID:    actorID,
			ActorRole:  actorRole,
			ActionType: approvallog.ActionUnfreeze,
			Reason:     &reason,
		},
	})
}

type transition struct {
	from       []string
	updates    map[string]any
	log        approvallog.ApprovalAction
	afterApply func(ctx context.Context, tx *sql.Tx, run *PayrollRun) error
}

// applyTransition runs one state-guarded update plus its approval-log entry in
// a single transaction. A guard miss on an existing run means the run was not
// in an allowed source state (possibly because a concurrent reviewer won).
func (s *service) applyTransition(ctx context.Context, runID string, tr transition) (RunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	applied, err := qtx.UpdateWhereStatus(ctx, runID, tr.from, tr.updates)
	if err != nil {
		return RunResponse{}, err
	}
	if !applied {
		if _, ferr := qtx.FindByRunID(ctx, runID); ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return RunResponse{}, runerrors.ErrRunNotFound
			}
			return RunResponse{}, ferr
		}
		return RunResponse{}, runerrors.ErrInvalidTransition
	}

	if err := s.recordAction(ctx, tx, runID, tr.log); err != nil {
		return RunResponse{}, err
	}

	run, err := qtx.FindByRunID(ctx, runID)
	if err != nil {
		return RunResponse{}, err
	}

	if tr.afterApply != nil {
		if err := tr.afterApply(ctx, tx, run); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run transitioned",
		zap.String("run_id", runID),
		zap.String("action", tr.log.ActionType),
		zap.String("status", run.Status),
	)

	return mapToResponse(*run), nil
}

func (s *service) recordAction(ctx context.Context, tx *sql.Tx, runID string, entry approvallog.ApprovalAction) error {
	entry.TargetID = runID
	entry.TargetType = approvallog.TargetTypeRun
	return s.logRepo.WithTx(tx).Record(ctx, &entry)
}

func (s *service) queueRunApprovedEvent(ctx context.Context, tx *sql.Tx, run *PayrollRun, financeStaffID string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.RunApprovedEvent{
		EventType:      "payroll.run.approved",
		RunID:          run.RunID,
		FinanceStaffID: financeStaffID,
		TotalNetPay:    run.TotalNetPay,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "payroll_run",
		AggregateID:   run.RunID,
		EventType:     event.EventType,
		Topic:         events.RunApprovedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parsePeriod(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01", v); err == nil {
		return t, nil
	}
	return time.Time{}, runerrors.ErrInvalidPeriodFormat
}
