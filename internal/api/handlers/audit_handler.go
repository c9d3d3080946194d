package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/atelier-studio/atelier-go/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	svc *application.AuditService
}

func NewAuditHandler(svc *application.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// Query lists audit log entries with optional filters.
func (h *AuditHandler) Query(c *gin.Context) {
	var params repository.AuditQueryParams

	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			uid := uint(id)
			params.UserID = &uid
		}
	}
	if v := c.Query("resource_type"); v != "" {
		params.ResourceType = &v
	}
	if v := c.Query("action"); v != "" {
		params.Action = &v
	}
	if v := c.Query("start_time"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.StartTime = &t
		}
	}
	if v := c.Query("end_time"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.EndTime = &t
		}
	}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	params.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := h.svc.QueryAuditLogs(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
