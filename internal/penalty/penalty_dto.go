package penalty

import "time"

type CreatePenaltyRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Amount     *int64 `json:"amount" binding:"required,gte=0"`
	Reason     string `json:"reason" binding:"required"`
}

type PenaltyResponse struct {
	ID         string `json:"id"`
	RunID      string `json:"run_id"`
	EmployeeID string `json:"employee_id"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
	RecordedBy string `json:"recorded_by"`
	CreatedAt  string `json:"created_at"`
}

func mapToResponse(entry PenaltyEntry) PenaltyResponse {
	return PenaltyResponse{
		ID:         entry.ID.String(),
		RunID:      entry.RunID,
		EmployeeID: entry.EmployeeID,
		Amount:     entry.Amount,
		Reason:     entry.Reason,
		RecordedBy: entry.RecordedBy,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(entries []PenaltyEntry) []PenaltyResponse {
	resp := make([]PenaltyResponse, len(entries))
	for i, entry := range entries {
		resp[i] = mapToResponse(entry)
	}
	return resp
}
