package validator

// Request DTOs shared between the validation layer and the services that
// alias them. Grades use the 0-20 scale; levels must be one of the known
// academic levels.

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=40"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required,user_role"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name" validate:"required,max=60"`

	// Student-only fields
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female not_concerned"`
	Level       string `json:"level" validate:"omitempty,study_level"`

	// Teacher-only fields
	Department     string `json:"department" validate:"omitempty,max=100"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CourseCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	ECTS        float64 `json:"ects" validate:"required,gt=0"`
	Level       string  `json:"level" validate:"required,study_level"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
}

type CourseUpdateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	ECTS        float64 `json:"ects" validate:"required,gt=0"`
	Level       string  `json:"level" validate:"required,study_level"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
}

type GradeUpdateRequest struct {
	Score float64 `json:"score" validate:"grade"`
}

type StudentUpdateRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=60"`
	LastName    string `json:"last_name" validate:"required,max=60"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female not_concerned"`
	Level       string `json:"level" validate:"omitempty,study_level"`
}
