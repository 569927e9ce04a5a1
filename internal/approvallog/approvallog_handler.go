package approvallog

import (
	"context"
	"net/http"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Reader interface {
	ListByTarget(ctx context.Context, targetID, targetType string) ([]ApprovalAction, error)
}

type Handler struct {
	repo Reader
}

func NewHandler(repo Reader) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListByTarget(c *gin.Context) {
	targetID := c.Query("target_id")
	if targetID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "target_id query parameter is required", nil)
		return
	}
	targetType := c.Query("target_type")

	actions, err := h.repo.ListByTarget(c.Request.Context(), targetID, targetType)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, mapToListResponse(actions), nil)
}
