package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds booth credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Credential kinds returned by a successful login.
const (
	CredentialSession = "session"
	CredentialToken   = "token"
)

// IssuedCredential is what login hands back: a session id for the cookie or a bearer token.
type IssuedCredential struct {
	Kind      string
	Value     string
	ExpiresAt time.Time
}

// UserSummary is the login response's user block.
type UserSummary struct {
	Username  string `json:"username"`
	BoothName string `json:"boothName"`
	IsAdmin   bool   `json:"isAdmin"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Credential IssuedCredential
	User       UserSummary
}

// LoginResponse is the JSON body of POST /api/login.
type LoginResponse struct {
	OK    bool        `json:"ok"`
	Token string      `json:"token,omitempty"`
	User  UserSummary `json:"user"`
}

// MeResponse summarises the caller for GET /api/me.
type MeResponse struct {
	Username  string  `json:"username"`
	BoothName string  `json:"boothName"`
	EventID   *string `json:"eventId"`
	IsAdmin   bool    `json:"isAdmin"`
	Role      Role    `json:"role"`
}

// JWTClaims is the payload of self-issued access tokens.
type JWTClaims struct {
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	BoothID   *string `json:"boothId"`
	BoothName string  `json:"boothName"`
	EventID   *string `json:"eventId"`
	IsAdmin   bool    `json:"isAdmin"`
	jwt.RegisteredClaims
}
