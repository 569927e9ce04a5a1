package runerrors

import (
	"net/http"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"
)

var (
	ErrRunIDExists = apperror.New(
		apperror.CodeConflict,
		"runId already exists",
		http.StatusConflict,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is not in a state that allows this transition",
		http.StatusConflict,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period, expected YYYY-MM or YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidSpecialistID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll specialist id",
		http.StatusBadRequest,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll manager id",
		http.StatusBadRequest,
	)
	ErrInvalidFinanceStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid finance staff id",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason cannot be empty",
		http.StatusBadRequest,
	)
)
