package utils

import (
	"errors"
	"strconv"

	"github.com/atelier-studio/atelier-go/pkg/types"
	"github.com/gin-gonic/gin"
)

var GetClaimsFromContext = func(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		return nil, errors.New("user claims not found in context")
	}
	claims, ok := claimsVal.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid user claims type")
	}
	return claims, nil
}

var GetUserIDFromContext = func(c *gin.Context) (uint, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// IsAdmin treats UID 1 as the bootstrap administrator regardless of role.
func IsAdmin(claims *types.Claims) bool {
	return claims.UserID == 1 || claims.Role == "admin"
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return uint(id), nil
}
