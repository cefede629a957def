package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/campus-scrud/enrollment-service/internal/models"
)

// Validator wraps struct-tag validation and the business rule validator
// behind one injection point for services.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all custom rules registered
func New() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)

	return &Validator{
		validate: validate,
		business: NewBusinessValidator(validate),
	}
}

// Validate validates a struct against its validation tags
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errors ValidationErrors
	for _, fe := range fieldErrors {
		errors = append(errors, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}

	return errors
}

// GetBusinessValidator returns the business rule validator
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

func registerCustomValidators(validate *validator.Validate) {
	// Level-of-study must be one of the known academic levels
	_ = validate.RegisterValidation("study_level", func(fl validator.FieldLevel) bool {
		return models.Level(fl.Field().String()).Valid()
	})

	// Grades live on a fixed 0-20 scale
	_ = validate.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		score := fl.Field().Float()
		return score >= models.GradeMin && score <= models.GradeMax
	})

	// Account roles
	_ = validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "study_level":
		return "must be a valid level of study"
	case "grade":
		return fmt.Sprintf("must be between %g and %g", models.GradeMin, models.GradeMax)
	case "user_role":
		return "must be either student or teacher"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
