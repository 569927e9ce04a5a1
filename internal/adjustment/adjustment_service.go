package adjustment

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	adjerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/adjustment/errors"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/approvallog"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/events"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	ListPending(ctx context.Context, departmentID, adjType string) ([]AdjustmentResponse, error)
	Approve(ctx context.Context, id, actorID, actorRole string) (AdjustmentResponse, error)
	Reject(ctx context.Context, id, actorID, actorRole, reason string) (AdjustmentResponse, error)
	Edit(ctx context.Context, id string, req EditAdjustmentRequest) (AdjustmentResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	logRepo approvallog.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logRepo approvallog.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("adjustment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("adjustment.service")
	}
	return &service{db: db, repo: repo, logRepo: logRepo, logger: l}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	logRepo approvallog.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	svc := NewService(db, repo, logRepo, logger...).(*service)
	svc.outbox = outbox
	return svc
}

func (s *service) Create(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error) {
	if !ValidType(req.Type) {
		return AdjustmentResponse{}, adjerrors.ErrInvalidType
	}
	if req.Amount == nil || *req.Amount < 0 {
		return AdjustmentResponse{}, adjerrors.ErrNegativeAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if !validCurrency(currency) {
		return AdjustmentResponse{}, adjerrors.ErrInvalidCurrency
	}

	adj := &Adjustment{
		ID:           uuid.New(),
		Type:         req.Type,
		EmployeeID:   strings.TrimSpace(req.EmployeeID),
		DepartmentID: req.DepartmentID,
		Amount:       *req.Amount,
		Currency:     currency,
		Note:         req.Note,
		Status:       StatusPending,
	}

	if err := s.repo.Create(ctx, adj); err != nil {
		s.logger.Error("create adjustment failed", zap.String("type", req.Type), zap.Error(err))
		return AdjustmentResponse{}, err
	}

	s.logger.Info("adjustment created",
		zap.String("adjustment_id", adj.ID.String()),
		zap.String("type", adj.Type),
		zap.String("employee_id", adj.EmployeeID),
		zap.Int64("amount", adj.Amount),
	)

	return mapToResponse(*adj), nil
}

func (s *service) ListPending(ctx context.Context, departmentID, adjType string) ([]AdjustmentResponse, error) {
	if adjType != "" && !ValidType(adjType) {
		return nil, adjerrors.ErrInvalidType
	}

	adjs, err := s.repo.ListPending(ctx, departmentID, adjType)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(adjs), nil
}

func (s *service) Approve(ctx context.Context, id, actorID, actorRole string) (AdjustmentResponse, error) {
	now := time.Now().UTC()
	return s.resolve(ctx, id, StatusApproved, actorID, actorRole, nil, map[string]any{
		"status":           StatusApproved,
		"approved_by":      actorID,
		"resolved_at":      now,
		"rejected_by":      nil,
		"rejection_reason": nil,
	})
}

func (s *service) Reject(ctx context.Context, id, actorID, actorRole, reason string) (AdjustmentResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return AdjustmentResponse{}, adjerrors.ErrReasonRequired
	}

	now := time.Now().UTC()
	return s.resolve(ctx, id, StatusRejected, actorID, actorRole, &reason, map[string]any{
		"status":           StatusRejected,
		"rejected_by":      actorID,
		"rejection_reason": reason,
		"resolved_at":      now,
	})
}

// resolve applies the pending-guarded update, records the approval action and
// queues the resolution event in one transaction. The conflated
// not-found-or-not-pending outcome is intentional: the guard cannot tell the
// two apart, and callers are told so by the error code.
func (s *service) resolve(
	ctx context.Context,
	id, status, actorID, actorRole string,
	reason *string,
	updates map[string]any,
) (AdjustmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AdjustmentResponse{}, adjerrors.ErrNotFoundOrNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	applied, err := qtx.UpdateWherePending(ctx, id, updates)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if !applied {
		return AdjustmentResponse{}, adjerrors.ErrNotFoundOrNotPending
	}

	adj, err := qtx.FindByID(ctx, id)
	if err != nil {
		return AdjustmentResponse{}, err
	}

	entry := approvallog.ApprovalAction{
		TargetID:   id,
		TargetType: approvallog.TargetTypeAdjustment,
		ActorID:    actorID,
		ActorRole:  actorRole,
		ActionType: actionFor(adj.Type, status),
		Reason:     reason,
	}
	if err := s.logRepo.WithTx(tx).Record(ctx, &entry); err != nil {
		return AdjustmentResponse{}, err
	}

	if err := s.queueResolvedEvent(ctx, tx, adj); err != nil {
		return AdjustmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AdjustmentResponse{}, err
	}

	s.logger.Info("adjustment resolved",
		zap.String("adjustment_id", id),
		zap.String("type", adj.Type),
		zap.String("status", status),
		zap.String("actor_id", actorID),
	)

	return mapToResponse(*adj), nil
}

func (s *service) Edit(ctx context.Context, id string, req EditAdjustmentRequest) (AdjustmentResponse, error) {
	if req.Empty() {
		return AdjustmentResponse{}, adjerrors.ErrEmptyPatch
	}
	if _, err := uuid.Parse(id); err != nil {
		return AdjustmentResponse{}, adjerrors.ErrNotFoundOrNotPending
	}

	updates := map[string]any{}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return AdjustmentResponse{}, adjerrors.ErrNegativeAmount
		}
		updates["amount"] = *req.Amount
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if !validCurrency(currency) {
			return AdjustmentResponse{}, adjerrors.ErrInvalidCurrency
		}
		updates["currency"] = currency
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	applied, err := qtx.UpdateWherePending(ctx, id, updates)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if !applied {
		return AdjustmentResponse{}, adjerrors.ErrNotFoundOrNotPending
	}

	adj, err := qtx.FindByID(ctx, id)
	if err != nil {
		return AdjustmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AdjustmentResponse{}, err
	}

	return mapToResponse(*adj), nil
}

func actionFor(adjType, status string) string {
	approve := status == StatusApproved
	switch adjType {
	case TypeSigningBonus:
		if approve {
			return approvallog.ActionSigningBonusApprove
		}
		return approvallog.ActionSigningBonusReject
	case TypeResignationBenefit:
		if approve {
			return approvallog.ActionResignationBenefitsApprove
		}
		return approvallog.ActionResignationBenefitsReject
	default:
		if approve {
			return approvallog.ActionTerminationBenefitsApprove
		}
		return approvallog.ActionTerminationBenefitsReject
	}
}

func (s *service) queueResolvedEvent(ctx context.Context, tx *sql.Tx, adj *Adjustment) error {
	if s.outbox == nil {
		return nil
	}

	event := events.AdjustmentResolvedEvent{
		EventType:      "payroll.adjustment.resolved",
		AdjustmentID:   adj.ID.String(),
		AdjustmentType: adj.Type,
		EmployeeID:     adj.EmployeeID,
		Status:         adj.Status,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "adjustment",
		AggregateID:   adj.ID.String(),
		EventType:     event.EventType,
		Topic:         events.AdjustmentResolvedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// validCurrency accepts a 3 to 5 letter uppercase code (ISO 4217 plus the odd
// internal ledger code); conversion is out of scope, the code is carried as-is.
func validCurrency(code string) bool {
	if len(code) < 3 || len(code) > 5 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
