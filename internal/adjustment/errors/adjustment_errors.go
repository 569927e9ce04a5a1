package adjerrors

import (
	"net/http"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"
)

var (
	// ErrNotFoundOrNotPending deliberately conflates "never existed" with
	// "already resolved": the guard is id plus status together, and the
	// update cannot tell which half missed without a follow-up read.
	ErrNotFoundOrNotPending = apperror.New(
		apperror.CodeNotFoundOrNotPending,
		"adjustment not found or no longer pending",
		http.StatusConflict,
	)
	ErrAdjustmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"adjustment not found",
		http.StatusNotFound,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid adjustment type",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be non-negative",
		http.StatusBadRequest,
	)
	ErrInvalidCurrency = apperror.New(
		apperror.CodeInvalidInput,
		"currency must be a short uppercase code",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason cannot be empty",
		http.StatusBadRequest,
	)
	ErrEmptyPatch = apperror.New(
		apperror.CodeInvalidInput,
		"edit requires at least one field",
		http.StatusBadRequest,
	)
)
