package handlers

import (
	"errors"
	"net/http"

	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"github.com/atelier-studio/atelier-go/pkg/response"
	"github.com/atelier-studio/atelier-go/pkg/utils"
	"github.com/gin-gonic/gin"
)

// LifecycleHandler exposes the transition endpoints of the production
// pipeline. All endpoints share the same error mapping: violated
// preconditions are conflicts, unknown projects are 404s.
type LifecycleHandler struct {
	svc *application.LifecycleService
}

func NewLifecycleHandler(svc *application.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{svc: svc}
}

func mapLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrFileNotFound):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrPrecondition):
		c.JSON(http.StatusConflict, response.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
	}
}

// ids pulls the acting user and target project out of the request.
func ids(c *gin.Context) (operatorID, projectID uint, ok bool) {
	operatorID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: err.Error()})
		return 0, 0, false
	}
	projectID, err = utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return 0, 0, false
	}
	return operatorID, projectID, true
}

func (h *LifecycleHandler) Start(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	p, err := h.svc.Start(operatorID, projectID)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) Upload(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	var input project.UploadDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}
	p, err := h.svc.Upload(operatorID, projectID, input)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) Feedback(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	var input project.FeedbackDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}
	p, err := h.svc.Feedback(operatorID, projectID, input)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) ChangeStage(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	var input project.ChangeStageDTO
	if err := c.ShouldBindJSON(&input); err != nil || input.TargetProgress == nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}
	p, err := h.svc.ChangeStage(operatorID, projectID, *input.TargetProgress)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) Discard(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	p, err := h.svc.Discard(operatorID, projectID)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) Recover(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	p, err := h.svc.Recover(operatorID, projectID)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) Pause(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	var input project.PauseDTO
	// Body is optional for pause.
	_ = c.ShouldBindJSON(&input)
	p, err := h.svc.Pause(operatorID, projectID, input.Reason)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) Resume(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	p, err := h.svc.Resume(operatorID, projectID)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) ChangeDeadline(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	var input project.ChangeDeadlineDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}
	p, err := h.svc.ChangeDeadline(operatorID, projectID, input.Deadline)
	if err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifecycleHandler) Delete(c *gin.Context) {
	operatorID, projectID, ok := ids(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(operatorID, projectID); err != nil {
		mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Project deleted"})
}
