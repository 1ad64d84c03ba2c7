package api

import (
	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Todo struct {
	ID        int    `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// Credentials is the request body for both register and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Claims is the signed token payload. The "id" field name is part of the
// wire format clients already decode, so it stays "id".
type Claims struct {
	UserID int `json:"id"`
	jwt.RegisteredClaims
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
