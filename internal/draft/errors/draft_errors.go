package drafterrors

import (
	"net/http"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"
)

var (
	ErrRunBlocked = apperror.New(
		apperror.CodeBlockedState,
		"draft cannot be generated for a locked or already paid run",
		http.StatusConflict,
	)
	ErrEmptyBatch = apperror.New(
		apperror.CodeInvalidInput,
		"employee batch cannot be empty",
		http.StatusBadRequest,
	)
	ErrMissingEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"every employee entry requires an employee id",
		http.StatusBadRequest,
	)
	ErrMissingBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"every employee entry requires a base salary",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"monetary amounts must be non-negative",
		http.StatusBadRequest,
	)
	ErrDuplicateEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"duplicate employee id in batch",
		http.StatusBadRequest,
	)
)
