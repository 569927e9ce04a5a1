package payrollrun

import (
	"net/http"

	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/apperror"
	"github.com/GIU-Software-Project-I/Payroll-sub003/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("run.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("run.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func getActorRole(c *gin.Context) string {
	return c.GetString("role")
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll run request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return false
	}
	return true
}

func (h *Handler) Create(c *gin.Context) {
	actorID := getActorID(c)

	var req CreateRunRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByRunID(c *gin.Context) {
	resp, err := h.service.GetByRunID(c.Request.Context(), c.Param("runId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) NextRunID(c *gin.Context) {
	resp, err := h.service.NextRunID(c.Request.Context(), c.Query("entity"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SubmitForReview(c *gin.Context) {
	resp, err := h.service.SubmitForReview(
		c.Request.Context(), getActorID(c), getActorRole(c), c.Param("runId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManagerApprove(c *gin.Context) {
	var req ManagerApproveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.ManagerApprove(c.Request.Context(), getActorRole(c), c.Param("runId"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) FinanceApprove(c *gin.Context) {
	var req FinanceApproveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.FinanceApprove(c.Request.Context(), getActorRole(c), c.Param("runId"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req ReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Reject(
		c.Request.Context(), getActorID(c), getActorRole(c), c.Param("runId"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Lock(c *gin.Context) {
	resp, err := h.service.Lock(c.Request.Context(), getActorID(c), getActorRole(c), c.Param("runId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Unlock(c *gin.Context) {
	var req ReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Unlock(
		c.Request.Context(), getActorID(c), getActorRole(c), c.Param("runId"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
