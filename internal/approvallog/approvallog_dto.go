package approvallog

import "time"

type ApprovalActionResponse struct {
	ID         string  `json:"id"`
	TargetID   string  `json:"target_id"`
	TargetType string  `json:"target_type"`
	ActorID    string  `json:"actor_id"`
	ActorRole  string  `json:"actor_role"`
	ActionType string  `json:"action_type"`
	Reason     *string `json:"reason,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func mapToResponse(action ApprovalAction) ApprovalActionResponse {
	return ApprovalActionResponse{
		ID:         action.ID.String(),
		TargetID:   action.TargetID,
		TargetType: action.TargetType,
		ActorID:    action.ActorID,
		ActorRole:  action.ActorRole,
		ActionType: action.ActionType,
		Reason:     action.Reason,
		CreatedAt:  action.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(actions []ApprovalAction) []ApprovalActionResponse {
	resp := make([]ApprovalActionResponse, len(actions))
	for i, action := range actions {
		resp[i] = mapToResponse(action)
	}
	return resp
}
