package domain

import "github.com/golang-jwt/jwt/v5"

const OperatorRole = "operator"

// Claims são as informações carregadas no token dos operadores da API
type Claims struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}
