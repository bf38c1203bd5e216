package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. Email is stored trimmed and lower-cased.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(16);index;not null"`
	IsActive     bool      `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the account currently holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
