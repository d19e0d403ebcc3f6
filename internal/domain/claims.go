package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims são as claims do token de operador da API
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
