package draft

import (
	"strings"
	"time"
)

// EmployeeInput carries already-resolved collaborator data: contract and bank
// validity arrive as booleans, unpaid leave and penalties as amounts. The core
// never fetches these itself.
type EmployeeInput struct {
	EmployeeID        string `json:"employee_id" binding:"required"`
	BaseSalary        *int64 `json:"base_salary" binding:"required,gte=0"`
	Allowances        int64  `json:"allowances" binding:"gte=0"`
	Bonus             int64  `json:"bonus" binding:"gte=0"`
	Benefit           int64  `json:"benefit" binding:"gte=0"`
	Refunds           int64  `json:"refunds" binding:"gte=0"`
	TaxAmount         int64  `json:"tax_amount" binding:"gte=0"`
	InsuranceAmount   int64  `json:"insurance_amount" binding:"gte=0"`
	UnpaidLeaveAmount int64  `json:"unpaid_leave_amount" binding:"gte=0"`
	PenaltiesAmount   int64  `json:"penalties_amount" binding:"gte=0"`

	HasActiveContract   bool `json:"has_active_contract"`
	HasValidBankAccount bool `json:"has_valid_bank_account"`
}

type GenerateDraftRequest struct {
	Employees []EmployeeInput `json:"employees" binding:"required,min=1,dive"`
}

type DraftSummaryResponse struct {
	RunID          string `json:"run_id"`
	Generation     int64  `json:"generation"`
	EmployeeCount  int    `json:"employee_count"`
	TotalNetPay    int64  `json:"total_net_pay"`
	ExceptionCount int    `json:"exception_count"`
}

type ItemResponse struct {
	ID                  string   `json:"id"`
	RunID               string   `json:"run_id"`
	EmployeeID          string   `json:"employee_id"`
	BaseSalary          int64    `json:"base_salary"`
	Allowances          int64    `json:"allowances"`
	Bonus               int64    `json:"bonus"`
	Benefit             int64    `json:"benefit"`
	Refunds             int64    `json:"refunds"`
	TaxAmount           int64    `json:"tax_amount"`
	InsuranceAmount     int64    `json:"insurance_amount"`
	UnpaidLeaveAmount   int64    `json:"unpaid_leave_amount"`
	PenaltiesAmount     int64    `json:"penalties_amount"`
	Gross               int64    `json:"gross"`
	Deductions          int64    `json:"deductions"`
	NetPay              int64    `json:"net_pay"`
	Exceptions          []string `json:"exceptions"`
	HasValidBankAccount bool     `json:"has_valid_bank_account"`
	CreatedAt           string   `json:"created_at"`
}

func mapItemToResponse(item PayrollItem) ItemResponse {
	return ItemResponse{
		ID:                  item.ID.String(),
		RunID:               item.RunID,
		EmployeeID:          item.EmployeeID,
		BaseSalary:          item.BaseSalary,
		Allowances:          item.Allowances,
		Bonus:               item.Bonus,
		Benefit:             item.Benefit,
		Refunds:             item.Refunds,
		TaxAmount:           item.TaxAmount,
		InsuranceAmount:     item.InsuranceAmount,
		UnpaidLeaveAmount:   item.UnpaidLeaveAmount,
		PenaltiesAmount:     item.PenaltiesAmount,
		Gross:               item.Gross,
		Deductions:          item.Deductions,
		NetPay:              item.NetPay,
		Exceptions:          splitExceptions(item.Exceptions),
		HasValidBankAccount: item.HasValidBankAccount,
		CreatedAt:           item.CreatedAt.Format(time.RFC3339),
	}
}

func mapItemsToResponse(items []PayrollItem) []ItemResponse {
	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = mapItemToResponse(item)
	}
	return resp
}

func splitExceptions(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ExceptionSeparator)
}
