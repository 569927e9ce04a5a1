package adjustment

import "time"

type CreateAdjustmentRequest struct {
	Type         string  `json:"type" binding:"required"`
	EmployeeID   string  `json:"employee_id" binding:"required"`
	DepartmentID *string `json:"department_id"`
	Amount       *int64  `json:"amount" binding:"required,gte=0"`
	Currency     string  `json:"currency" binding:"required"`
	Note         *string `json:"note"`
}

// EditAdjustmentRequest is a partial patch; nil means "leave unchanged".
// A patch with no fields at all is rejected.
type EditAdjustmentRequest struct {
	Amount   *int64  `json:"amount"`
	Currency *string `json:"currency"`
	Note     *string `json:"note"`
}

func (r EditAdjustmentRequest) Empty() bool {
	return r.Amount == nil && r.Currency == nil && r.Note == nil
}

type RejectAdjustmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AdjustmentResponse struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	EmployeeID      string  `json:"employee_id"`
	DepartmentID    *string `json:"department_id,omitempty"`
	Amount          int64   `json:"amount"`
	Currency        string  `json:"currency"`
	Note            *string `json:"note,omitempty"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func mapToResponse(adj Adjustment) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:              adj.ID.String(),
		Type:            adj.Type,
		EmployeeID:      adj.EmployeeID,
		DepartmentID:    adj.DepartmentID,
		Amount:          adj.Amount,
		Currency:        adj.Currency,
		Note:            adj.Note,
		Status:          adj.Status,
		ApprovedBy:      adj.ApprovedBy,
		RejectedBy:      adj.RejectedBy,
		RejectionReason: adj.RejectionReason,
		CreatedAt:       adj.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       adj.UpdatedAt.Format(time.RFC3339),
	}

	if adj.ResolvedAt != nil {
		v := adj.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &v
	}

	return resp
}

func mapToListResponse(adjs []Adjustment) []AdjustmentResponse {
	resp := make([]AdjustmentResponse, len(adjs))
	for i, adj := range adjs {
		resp[i] = mapToResponse(adj)
	}
	return resp
}
