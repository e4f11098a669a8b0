package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}

// AdminClaims are the JWT claims carried by an admin token
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}
