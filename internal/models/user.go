package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User is the identity record. One row per registered account; the password
// is stored as a bcrypt hash, never plaintext.
type User struct {
	ID           int      `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20"`
	Email        string   `json:"email" gorm:"not null;size:255"`
	FirstName    string   `json:"first_name" gorm:"not null;size:100"`
	LastName     string   `json:"last_name" gorm:"not null;size:100"`
	PhotoURL     *string  `json:"photo_url" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName is the "first last" form used everywhere a person is shown.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
