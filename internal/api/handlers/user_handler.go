package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/internal/domain/user"
	"github.com/atelier-studio/atelier-go/pkg/response"
	"github.com/atelier-studio/atelier-go/pkg/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register creates a new account.
func (h *UserHandler) Register(c *gin.Context) {
	var input user.CreateUserInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}

	if err := h.svc.RegisterUser(input); err != nil {
		if errors.Is(err, application.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, response.ErrorResponse{Error: err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, response.MessageResponse{Message: "User registered successfully"})
}

// Login exchanges credentials for a JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}

	usr, token, err := h.svc.LoginUser(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid username or password"})
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{
		Token:    token,
		UID:      usr.UID,
		Username: usr.Username,
		Role:     usr.Role,
		IsAdmin:  usr.UID == 1 || usr.Role == user.RoleAdmin,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	usr, err := h.svc.FindUserByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, usr)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	users, err := h.svc.ListUsers(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	var input user.UpdateUserInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}

	usr, err := h.svc.UpdateUser(id, input)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		case errors.Is(err, application.ErrIncorrectPassword),
			errors.Is(err, application.ErrMissingOldPassword),
			errors.Is(err, application.ErrReservedAdminUser):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, usr)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.RemoveUser(id); err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
		case errors.Is(err, application.ErrReservedAdminUser):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "User deleted"})
}
