package handlers

import (
	"errors"
	"net/http"

	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/internal/config"
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"github.com/atelier-studio/atelier-go/pkg/response"
	"github.com/atelier-studio/atelier-go/pkg/utils"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	svc *application.ProjectService
}

func NewProjectHandler(svc *application.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// CreateProject registers a project with its stage ladder.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var input project.CreateProjectDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	operatorID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.svc.CreateProject(c, operatorID, input)
	if err != nil {
		if errors.Is(err, application.ErrFileNotFound) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	p, err := h.svc.GetProject(id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var q project.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}

	projects, total, err := h.svc.ListProjects(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    total,
		"page":     q.Page,
		"per_page": q.PerPage,
	})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	var input project.UpdateProjectDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	p, err := h.svc.UpdateProject(c, id, input)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		case errors.Is(err, application.ErrFileNotFound):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListLogs returns the project's transition history.
func (h *ProjectHandler) ListLogs(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	logs, err := h.svc.ListLogs(id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ListPresets exposes the configured stage ladder templates.
func (h *ProjectHandler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, config.StagePresets)
}
