package payslip

import (
	"strings"
	"time"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/draft"
)

type FinalizeSummaryResponse struct {
	RunID          string `json:"run_id"`
	Generation     int64  `json:"generation"`
	EmployeeCount  int    `json:"employee_count"`
	TotalNetPay    int64  `json:"total_net_pay"`
	ExceptionCount int    `json:"exception_count"`
	// NetPayDrift is the signed difference between the drafted net pay and
	// what fresh penalty data implies; non-zero means penalties moved between
	// draft review and finalization.
	NetPayDrift int64 `json:"net_pay_drift"`
}

type PayslipResponse struct {
	ID              string   `json:"id"`
	RunID           string   `json:"run_id"`
	EmployeeID      string   `json:"employee_id"`
	Gross           int64    `json:"gross"`
	TotalDeductions int64    `json:"total_deductions"`
	PenaltyTotal    int64    `json:"penalty_total"`
	NetPay          int64    `json:"net_pay"`
	Exceptions      []string `json:"exceptions"`
	PaymentStatus   string   `json:"payment_status"`
	CreatedAt       string   `json:"created_at"`
}

func mapToResponse(slip Payslip) PayslipResponse {
	exceptions := []string{}
	if slip.Exceptions != "" {
		exceptions = strings.Split(slip.Exceptions, draft.ExceptionSeparator)
	}

	return PayslipResponse{
		ID:              slip.ID.String(),
		RunID:           slip.RunID,
		EmployeeID:      slip.EmployeeID,
		Gross:           slip.Gross,
		TotalDeductions: slip.TotalDeductions,
		PenaltyTotal:    slip.PenaltyTotal,
		NetPay:          slip.NetPay,
		Exceptions:      exceptions,
		PaymentStatus:   slip.PaymentStatus,
		CreatedAt:       slip.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(slips []Payslip) []PayslipResponse {
	resp := make([]PayslipResponse, len(slips))
	for i, slip := range slips {
		resp[i] = mapToResponse(slip)
	}
	return resp
}
