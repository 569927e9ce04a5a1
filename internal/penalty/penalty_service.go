package penalty

import (
	"context"
	"errors"
	"strings"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun"
	runerrors "github.com/GIU-Software-Project-I/Payroll-sub003/internal/payrollrun/errors"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=penalty_service.go -destination=mock/penalty_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID, runID string, req CreatePenaltyRequest) (PenaltyResponse, error)
	ListByRun(ctx context.Context, runID string) ([]PenaltyResponse, error)
}

type service struct {
	repo    Repository
	runRepo payrollrun.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, runRepo payrollrun.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("penalty.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("penalty.service")
	}
	return &service{repo: repo, runRepo: runRepo, logger: l}
}

func (s *service) Create(ctx context.Context, actorID, runID string, req CreatePenaltyRequest) (PenaltyResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return PenaltyResponse{}, apperror.RequiredField("reason")
	}
	if req.Amount == nil {
		return PenaltyResponse{}, apperror.RequiredField("amount")
	}
	if *req.Amount < 0 {
		return PenaltyResponse{}, apperror.InvalidField("amount")
	}

	if _, err := s.runRepo.FindByRunID(ctx, runID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PenaltyResponse{}, runerrors.ErrRunNotFound
		}
		return PenaltyResponse{}, err
	}

	entry := &PenaltyEntry{
		ID:         uuid.New(),
		RunID:      runID,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		Amount:     *req.Amount,
		Reason:     req.Reason,
		RecordedBy: actorID,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("create penalty failed", zap.String("run_id", runID), zap.Error(err))
		return PenaltyResponse{}, err
	}

	s.logger.Info("penalty recorded",
		zap.String("run_id", runID),
		zap.String("employee_id", entry.EmployeeID),
		zap.Int64("amount", entry.Amount),
	)

	return mapToResponse(*entry), nil
}

func (s *service) ListByRun(ctx context.Context, runID string) ([]PenaltyResponse, error) {
	if _, err := s.runRepo.FindByRunID(ctx, runID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, runerrors.ErrRunNotFound
		}
		return nil, err
	}

	entries, err := s.repo.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}
