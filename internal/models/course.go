package models

import "time"

// Course targets one level-of-study and is owned by at most one teacher.
// TeacherID == 0 means unassigned.
type Course struct {
	ID          int     `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:200"`
	ECTS        float64 `json:"ects" gorm:"not null"`
	Level       Level   `json:"level" gorm:"not null;size:4;index"`
	TeacherID   int     `json:"teacher_id" gorm:"index;default:0"`
	Description string  `json:"description" gorm:"size:2000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}
