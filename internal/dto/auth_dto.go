package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type UpdateMeRequest struct {
	Username        string   `json:"username" validate:"omitempty,notblank,max=50"`
	Email           string   `json:"email" validate:"omitempty,email,max=255"`
	CurrentPassword string   `json:"current_password"`
	NewPassword     string   `json:"new_password" validate:"omitempty,min=6"`
	CurrentLat      *float64 `json:"current_lat" validate:"omitempty,latitude"`
	CurrentLon      *float64 `json:"current_lon" validate:"omitempty,longitude"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	CurrentLat *float64  `json:"current_lat,omitempty"`
	CurrentLon *float64  `json:"current_lon,omitempty"`
	Deleted    bool      `json:"deleted,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type UpdateMeResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
