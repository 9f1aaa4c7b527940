package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole identifies what a token holder may do.
type UserRole string

// RoleAdmin is the only authenticated role; respondents are anonymous.
const RoleAdmin UserRole = "ADMIN"

// AdminSubject is the token subject for the shared admin identity.
const AdminSubject = "admin"

// AdminLoginRequest exchanges the shared passphrase for an access token.
type AdminLoginRequest struct {
	Passphrase string `json:"passphrase" validate:"required,max=256"`
	IP         string `json:"-"`
	UserAgent  string `json:"-"`
}

// AdminLoginResponse returns the issued access token.
type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}
