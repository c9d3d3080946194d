package types

import "github.com/golang-jwt/jwt/v5"

// Claims carries the authenticated user identity through requests.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
