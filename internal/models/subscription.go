package models

import "time"

// Grade bounds for subscription scores. A score of zero means "ungraded";
// ungraded enrollments still weigh into the final average as zero.
const (
	GradeMin = 0.0
	GradeMax = 20.0
)

// Subscription is an enrollment: it links a student to a course and carries
// the grade the teacher has entered, composite-keyed on (StudentID, CourseID).
type Subscription struct {
	StudentID int     `json:"student_id" gorm:"primaryKey;autoIncrement:false"`
	CourseID  int     `json:"course_id" gorm:"primaryKey;autoIncrement:false"`
	Score     float64 `json:"score" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
