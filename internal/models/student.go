package models

import (
	"time"

	"gorm.io/datatypes"
)

type Gender string

const (
	GenderMale         Gender = "male"
	GenderFemale       Gender = "female"
	GenderNotConcerned Gender = "not_concerned"
)

// Level is the level-of-study a student belongs to and a course targets:
// two preparatory tiers, then bachelor and master tiers.
type Level string

const (
	LevelP1 Level = "P1"
	LevelP2 Level = "P2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelB3 Level = "B3"
	LevelM1 Level = "M1"
	LevelM2 Level = "M2"
)

// Levels lists all levels in ascending academic order.
var Levels = []Level{LevelP1, LevelP2, LevelB1, LevelB2, LevelB3, LevelM1, LevelM2}

func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// Student is a person's academic identity, keyed independently of their User
// row and joined through StudentUser.
type Student struct {
	ID          int            `json:"id" gorm:"primaryKey"`
	LastName    string         `json:"last_name" gorm:"not null;size:100"`
	FirstName   string         `json:"first_name" gorm:"not null;size:100"`
	DateOfBirth datatypes.Date `json:"date_of_birth"`
	Gender      Gender         `json:"gender" gorm:"size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// StudentUser binds a User to a Student and carries the student's current
// level-of-study. At most one row per userID and per studentID.
type StudentUser struct {
	ID           int   `json:"id" gorm:"primaryKey"`
	UserID       int   `json:"user_id" gorm:"uniqueIndex;not null"`
	StudentID    int   `json:"student_id" gorm:"uniqueIndex;not null"`
	LevelOfStudy Level `json:"level_of_study" gorm:"not null;size:4"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentUser) TableName() string {
	return "student_users"
}

// Teacher links a User to their department and specialization, 1:1 via UserID.
type Teacher struct {
	ID             int    `json:"id" gorm:"primaryKey"`
	UserID         int    `json:"user_id" gorm:"uniqueIndex;not null"`
	Department     string `json:"department" gorm:"size:200"`
	Specialization string `json:"specialization" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Teacher) TableName() string {
	return "teachers"
}
