package domain

import "github.com/golang-jwt/jwt/v5"

// Papéis aceitos no token
const (
	RoleAdmin  = 1
	RoleViewer = 2
)

// Claims é o conteúdo do token emitido no login do administrador
type Claims struct {
	UserEmail  string `json:"user_email"`
	UserRoleID int    `json:"user_role_id"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
