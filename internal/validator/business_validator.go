package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campus-scrud/enrollment-service/internal/models"
)

// ValidationError represents a single field-level validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// BusinessValidator holds rules that cannot be expressed as struct tags
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator(validate *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: validate}
}

// ValidateGrade checks a score against the grading scale
func (bv *BusinessValidator) ValidateGrade(score float64) ValidationErrors {
	if score < models.GradeMin || score > models.GradeMax {
		return ValidationErrors{{
			Field:   "score",
			Message: fmt.Sprintf("must be between %g and %g", models.GradeMin, models.GradeMax),
			Value:   score,
			Rule:    "grade",
		}}
	}
	return nil
}

// ValidateCourseName checks course name constraints
func (bv *BusinessValidator) ValidateCourseName(name string) ValidationErrors {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 || len(trimmed) > 120 {
		return ValidationErrors{{
			Field:   "name",
			Message: "must be between 1 and 120 characters",
			Value:   name,
			Rule:    "course_name",
		}}
	}
	return nil
}

// ValidateLevel checks a level-of-study value
func (bv *BusinessValidator) ValidateLevel(level models.Level) ValidationErrors {
	if !level.Valid() {
		return ValidationErrors{{
			Field:   "level",
			Message: "must be a valid level of study",
			Value:   string(level),
			Rule:    "study_level",
		}}
	}
	return nil
}

// ValidateDateOfBirth rejects birth dates in the future or implausibly old
func (bv *BusinessValidator) ValidateDateOfBirth(dob time.Time) ValidationErrors {
	now := time.Now()
	if dob.After(now) || dob.Before(now.AddDate(-120, 0, 0)) {
		return ValidationErrors{{
			Field:   "date_of_birth",
			Message: "must be a plausible past date",
			Value:   dob.Format("2006-01-02"),
			Rule:    "date_of_birth",
		}}
	}
	return nil
}
