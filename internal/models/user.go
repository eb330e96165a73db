package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. Deleting a user is a soft delete; the row stays for
// comment history and admin listings.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email      string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	Role       string         `gorm:"size:20;default:'user'" json:"role"`
	CurrentLat *float64       `json:"current_lat"`
	CurrentLon *float64       `json:"current_lon"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
