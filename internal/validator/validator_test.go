package validator

import (
	"errors"
	"testing"
	"time"
)

type sampleCourseRequest struct {
	Name  string  `validate:"required,min=1,max=120"`
	ECTS  float64 `validate:"gt=0"`
	Level string  `validate:"required,study_level"`
}

func TestValidateStructTags(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     sampleCourseRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  sampleCourseRequest{Name: "Algebra", ECTS: 6, Level: "B1"},
		},
		{
			name:    "missing name",
			req:     sampleCourseRequest{ECTS: 6, Level: "B1"},
			wantErr: true,
		},
		{
			name:    "zero ects",
			req:     sampleCourseRequest{Name: "Algebra", ECTS: 0, Level: "B1"},
			wantErr: true,
		},
		{
			name:    "unknown level",
			req:     sampleCourseRequest{Name: "Algebra", ECTS: 6, Level: "X9"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve ValidationErrors
				if !errors.As(err, &ve) || len(ve) == 0 {
					t.Errorf("expected ValidationErrors with fields, got %v", err)
				}
			}
		})
	}
}

func TestValidateGrade(t *testing.T) {
	bv := New().GetBusinessValidator()

	tests := []struct {
		score   float64
		wantErr bool
	}{
		{0, false},
		{10, false},
		{20, false},
		{-0.5, true},
		{20.5, true},
	}

	for _, tt := range tests {
		errs := bv.ValidateGrade(tt.score)
		if (len(errs) > 0) != tt.wantErr {
			t.Errorf("ValidateGrade(%v) = %v, wantErr %v", tt.score, errs, tt.wantErr)
		}
	}
}

func TestValidateDateOfBirth(t *testing.T) {
	bv := New().GetBusinessValidator()

	if errs := bv.ValidateDateOfBirth(time.Now().AddDate(1, 0, 0)); len(errs) == 0 {
		t.Error("expected future date of birth to be rejected")
	}
	if errs := bv.ValidateDateOfBirth(time.Date(2000, 5, 12, 0, 0, 0, 0, time.UTC)); len(errs) != 0 {
		t.Errorf("expected plausible date of birth to pass, got %v", errs)
	}
}
