package auth

import (
	"os"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// JWTKey signs and verifies access tokens. Both services must share it.
var JWTKey = []byte(jwtKeyFromEnv())

func jwtKeyFromEnv() string {
	if key := os.Getenv("JWT_KEY"); key != "" {
		return key
	}
	return "dev-secret"
}

type Claims struct {
	Profile struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	} `json:"profile"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}
