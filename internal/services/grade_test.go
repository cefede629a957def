package services

import (
	"math"
	"testing"
)

func TestWeightedFinalGrade(t *testing.T) {
	tests := []struct {
		name        string
		enrollments []GradedEnrollment
		want        float64
	}{
		{
			name: "weighted average with ungraded course dragging down",
			enrollments: []GradedEnrollment{
				{ECTS: 6, Score: 10},
				{ECTS: 4, Score: 0},
			},
			want: 6.0,
		},
		{
			name:        "no enrollments",
			enrollments: nil,
			want:        0,
		},
		{
			name: "single course",
			enrollments: []GradedEnrollment{
				{ECTS: 9, Score: 13.5},
			},
			want: 13.5,
		},
		{
			name: "equal weights",
			enrollments: []GradedEnrollment{
				{ECTS: 6, Score: 8},
				{ECTS: 6, Score: 16},
			},
			want: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedFinalGrade(tt.enrollments)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WeightedFinalGrade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPassBoundary(t *testing.T) {
	tests := []struct {
		grade float64
		want  bool
	}{
		{10.0, true},
		{9.999, false},
		{20, true},
		{0, false},
	}

	for _, tt := range tests {
		if got := Passed(tt.grade); got != tt.want {
			t.Errorf("Passed(%v) = %v, want %v", tt.grade, got, tt.want)
		}
	}
}

func TestWeightedFinalGradeIdempotent(t *testing.T) {
	enrollments := []GradedEnrollment{
		{ECTS: 6, Score: 11.3},
		{ECTS: 3, Score: 17.8},
		{ECTS: 9, Score: 6.1},
	}

	first := WeightedFinalGrade(enrollments)
	second := WeightedFinalGrade(enrollments)
	if first != second {
		t.Errorf("recomputation changed result: %v vs %v", first, second)
	}
}
