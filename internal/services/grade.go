package services

// PassThreshold is the canonical pass mark on the 0-20 grading scale.
const PassThreshold = 10.0

// GradedEnrollment pairs a course's credit weight with the score earned.
type GradedEnrollment struct {
	ECTS  float64
	Score float64
}

// WeightedFinalGrade computes the ECTS-weighted average over a student's
// enrollments. Ungraded enrollments carry score 0 and weigh into the average
// as such. Returns 0 when the total credit weight is zero.
func WeightedFinalGrade(enrollments []GradedEnrollment) float64 {
	var weightedSum, totalECTS float64
	for _, e := range enrollments {
		weightedSum += e.Score * e.ECTS
		totalECTS += e.ECTS
	}

	if totalECTS <= 0 {
		return 0
	}
	return weightedSum / totalECTS
}

// Passed reports whether a final grade meets the pass threshold.
func Passed(finalGrade float64) bool {
	return finalGrade >= PassThreshold
}
