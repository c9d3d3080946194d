package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/atelier-studio/atelier-go/pkg/response"
	"github.com/atelier-studio/atelier-go/pkg/types"
	"github.com/atelier-studio/atelier-go/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Auth handles authorization middleware
type Auth struct {
	repos *repository.Repos
}

// NewAuth creates a new Auth middleware instance
func NewAuth(repos *repository.Repos) *Auth {
	return &Auth{repos: repos}
}

func claimsOrAbort(c *gin.Context) (*types.Claims, bool) {
	claims, ok := c.MustGet("claims").(*types.Claims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return nil, false
	}
	return claims, true
}

// Admin restricts the route to administrators.
func (a *Auth) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		if !utils.IsAdmin(claims) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// UserOrAdmin checks if user is the target user or an admin.
func (a *Auth) UserOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}

		idParam := c.Param("id")
		targetUID64, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}

		if claims.UserID == uint(targetUID64) || utils.IsAdmin(claims) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

// projectParty names a side of a project engagement.
type projectParty int

const (
	partyAny projectParty = iota
	partyClient
	partyCreator
)

func (a *Auth) projectGuard(party projectParty) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		if utils.IsAdmin(claims) {
			c.Next()
			return
		}

		id, err := utils.ParseIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
			c.Abort()
			return
		}
		p, err := a.repos.Project.GetProjectByID(id)
		if err != nil {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "project not found"})
			c.Abort()
			return
		}

		permitted := false
		switch party {
		case partyClient:
			permitted = claims.UserID == p.ClientID
		case partyCreator:
			permitted = claims.UserID == p.CreatorID
		case partyAny:
			permitted = claims.UserID == p.ClientID || claims.UserID == p.CreatorID
		}
		if !permitted {
			c.JSON(http.StatusForbidden, response.ErrorResponse{Error: "Permission denied for this project"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ProjectMember permits either party of the project (or an admin).
func (a *Auth) ProjectMember() gin.HandlerFunc {
	return a.projectGuard(partyAny)
}

// ProjectClient permits the client side: starting, reviewing, pausing.
func (a *Auth) ProjectClient() gin.HandlerFunc {
	return a.projectGuard(partyClient)
}

// ProjectCreator permits the creator side: submitting work.
func (a *Auth) ProjectCreator() gin.HandlerFunc {
	return a.projectGuard(partyCreator)
}

// CORSMiddleware allows local frontends and skips websocket upgrades.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "http://localhost:") {
				return true
			}
			if strings.HasPrefix(origin, "http://127.0.0.1:") {
				return true
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	corsHandler := cors.New(config)
	return func(c *gin.Context) {
		upgrade := c.GetHeader("Upgrade")
		if strings.EqualFold(upgrade, "websocket") {
			c.Next()
			return
		}
		corsHandler(c)
	}
}
