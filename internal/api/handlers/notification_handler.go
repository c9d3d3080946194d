package handlers

import (
	"net/http"

	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/pkg/response"
	"github.com/atelier-studio/atelier-go/pkg/utils"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *application.NotificationService
}

func NewNotificationHandler(svc *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List returns the caller's notifications, optionally unread only.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: err.Error()})
		return
	}

	unreadOnly := c.Query("unread") == "true"
	list, err := h.svc.ListForUser(userID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: err.Error()})
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.MarkRead(id, userID); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Notification marked as read"})
}
