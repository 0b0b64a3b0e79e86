package dto

import "time"

// LoginRequest body de POST /api/auth/login (contraseña compartida de administrador).
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión de administrador.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
