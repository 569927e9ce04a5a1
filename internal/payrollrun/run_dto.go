package payrollrun

import "time"

type CreateRunRequest struct {
	RunID               string `json:"run_id" binding:"required"`
	PayrollPeriod       string `json:"payroll_period" binding:"required"`
	Entity              string `json:"entity" binding:"required"`
	PayrollSpecialistID string `json:"payroll_specialist_id" binding:"required,uuid"`
	PayrollManagerID    string `json:"payroll_manager_id" binding:"required,uuid"`
}

type ManagerApproveRequest struct {
	ManagerID string `json:"manager_id" binding:"required,uuid"`
}

type FinanceApproveRequest struct {
	FinanceStaffID string `json:"finance_staff_id" binding:"required,uuid"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RunResponse struct {
	ID                  string  `json:"id"`
	RunID               string  `json:"run_id"`
	PayrollPeriod       string  `json:"payroll_period"`
	Entity              string  `json:"entity"`
	Status              string  `json:"status"`
	PaymentStatus       string  `json:"payment_status"`
	EmployeeCount       int     `json:"employee_count"`
	TotalNetPay         int64   `json:"total_net_pay"`
	ExceptionCount      int     `json:"exception_count"`
	AggregateSource     string  `json:"aggregate_source"`
	PayrollSpecialistID string  `json:"payroll_specialist_id"`
	PayrollManagerID    string  `json:"payroll_manager_id"`
	FinanceStaffID      *string `json:"finance_staff_id,omitempty"`
	ManagerApprovalDate *string `json:"manager_approval_date,omitempty"`
	FinanceApprovalDate *string `json:"finance_approval_date,omitempty"`
	RejectionReason     *string `json:"rejection_reason,omitempty"`
	UnlockReason        *string `json:"unlock_reason,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type NextRunIDResponse struct {
	RunID string `json:"run_id"`
}

func mapToResponse(run PayrollRun) RunResponse {
	resp := RunResponse{
		ID:                  run.ID.String(),
		RunID:               run.RunID,
		PayrollPeriod:       run.PayrollPeriod.Format("2006-01-02"),
		Entity:              run.Entity,
		Status:              run.Status,
		PaymentStatus:       run.PaymentStatus,
		EmployeeCount:       run.EmployeeCount,
		TotalNetPay:         run.TotalNetPay,
		ExceptionCount:      run.ExceptionCount,
		AggregateSource:     run.AggregateSource,
		PayrollSpecialistID: run.PayrollSpecialistID.String(),
		PayrollManagerID:    run.PayrollManagerID.String(),
		CreatedAt:           run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           run.UpdatedAt.Format(time.RFC3339),
	}

	if run.FinanceStaffID != nil {
		v := run.FinanceStaffID.String()
		resp.FinanceStaffID = &v
	}
	if run.ManagerApprovalDate != nil {
		v := run.ManagerApprovalDate.Format(time.RFC3339)
		resp.ManagerApprovalDate = &v
	}
	if run.FinanceApprovalDate != nil {
		v := run.FinanceApprovalDate.Format(time.RFC3339)
		resp.FinanceApprovalDate = &v
	}
	resp.RejectionReason = run.RejectionReason
	resp.UnlockReason = run.UnlockReason

	return resp
}

func mapToListResponse(runs []PayrollRun) []RunResponse {
	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapToResponse(run)
	}
	return resp
}
