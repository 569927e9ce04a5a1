package payslperrors

import (
	"net/http"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"
)

var (
	ErrNoDraft = apperror.New(
		apperror.CodeInvalidInput,
		"no draft to finalize",
		http.StatusBadRequest,
	)
	ErrRunBlocked = apperror.New(
		apperror.CodeBlockedState,
		"payslips cannot be regenerated for a locked run",
		http.StatusConflict,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
)
