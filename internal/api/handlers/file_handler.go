package handlers

import (
	"errors"
	"net/http"

	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/pkg/response"
	"github.com/atelier-studio/atelier-go/pkg/utils"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	svc *application.FileService
}

func NewFileHandler(svc *application.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// Upload accepts one multipart file and stores it.
func (h *FileHandler) Upload(c *gin.Context) {
	uploaderID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: err.Error()})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "file field is required"})
		return
	}

	f, err := h.svc.UploadFile(c.Request.Context(), uploaderID, header)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, f)
}

// Download redirects to a presigned object URL.
func (h *FileHandler) Download(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	url, err := h.svc.ResolveURL(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *FileHandler) Delete(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.RemoveFile(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "File deleted"})
}
