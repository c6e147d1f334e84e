package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload carried by gateway-issued session tokens.
type JWTClaims struct {
	UserID int64    `json:"uid"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
