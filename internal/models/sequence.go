package models

// Sequence backs monotonic ID allocation for entities whose identifiers are
// assigned by the service rather than by the database.
type Sequence struct {
	Name string `gorm:"primaryKey;size:64" json:"name"`
	Next int    `gorm:"not null" json:"next"`
}

func (Sequence) TableName() string {
	return "sequences"
}

// Sequence names used by the repositories.
const (
	SequenceUsers    = "users"
	SequenceStudents = "students"
	SequenceTeachers = "teachers"
	SequenceCourses  = "courses"
)
