package grading

import (
	"fmt"
	"math"
)

type (
	// CourseWeight is the slice of a course that GPA computation needs.
	CourseWeight struct {
		GradePoints *float64
		CreditHours int
	}

	// SemesterWeight is the slice of a semester that CGPA computation needs.
	SemesterWeight struct {
		GPA          *float64
		TotalCredits int
	}

	// Trend flags are mutually exclusive.
	Trend struct {
		Improving bool `json:"improving"`
		Stable    bool `json:"stable"`
		Declining bool `json:"declining"`
	}
)

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// GPA returns the credit-weighted grade point average over the graded
// courses, or nil when none are graded. A nil result means "no data",
// not zero performance.
func GPA(courses []CourseWeight) *float64 {
	var points float64
	var credits int
	for _, crs := range courses {
		if crs.GradePoints == nil || crs.CreditHours <= 0 {
			continue
		}
		points += *crs.GradePoints * float64(crs.CreditHours)
		credits += crs.CreditHours
	}
	if credits == 0 {
		return nil
	}
	return Float(points / float64(credits))
}

// CGPA returns the credit-weighted cumulative average over semesters.
// Semesters with no GPA or zero credits do not dilute the result.
func CGPA(semesters []SemesterWeight) *float64 {
	var points float64
	var credits int
	for _, sem := range semesters {
		if sem.GPA == nil || sem.TotalCredits <= 0 {
			continue
		}
		points += *sem.GPA * float64(sem.TotalCredits)
		credits += sem.TotalCredits
	}
	if credits == 0 {
		return nil
	}
	return Float(points / float64(credits))
}

// TrendOf classifies an ordered GPA history. A step of more than 0.1 counts
// as an increase, less than -0.1 as a decrease; the trend is improving or
// declining only when such steps strictly outnumber half the comparisons.
// Fewer than 2 data points is stable by definition.
func TrendOf(history []float64) Trend {
	if len(history) < 2 {
		return Trend{Stable: true}
	}

	var increases, decreases int
	for i := 1; i < len(history); i++ {
		diff := history[i] - history[i-1]
		switch {
		case diff > 0.1:
			increases++
		case diff < -0.1:
			decreases++
		}
	}

	threshold := float64(len(history)-1) / 2
	switch {
	case float64(increases) > threshold:
		return Trend{Improving: true}
	case float64(decreases) > threshold:
		return Trend{Declining: true}
	}
	return Trend{Stable: true}
}

// RequiredFutureGPA solves for the average needed over futureCredits
// additional credit-hours to raise the cumulative average to targetCGPA.
// It returns nil when futureCredits <= 0 or the answer is unattainable
// (above MaxGPA); a target already exceeded clamps to MinGPA.
func RequiredFutureGPA(currentCGPA float64, currentCredits int, targetCGPA float64, futureCredits int) *float64 {
	if futureCredits <= 0 {
		return nil
	}

	totalCreditsAfter := currentCredits + futureCredits
	requiredTotalPoints := targetCGPA * float64(totalCreditsAfter)
	currentTotalPoints := currentCGPA * float64(currentCredits)
	required := (requiredTotalPoints - currentTotalPoints) / float64(futureCredits)

	if required > MaxGPA {
		return nil
	}
	if required < MinGPA {
		return Float(MinGPA)
	}
	return Float(Round(required, 2))
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(v*mult) / mult
}

// GPAProgress maps a GPA onto a 0-100 progress value.
func GPAProgress(gpa float64) float64 {
	return gpa / MaxGPA * 100
}

func IsPassingGrade(gradePoints float64) bool {
	return gradePoints >= PassingGPA
}

func IsPassingPercentage(percentage float64) bool {
	return percentage >= 50
}

// ClassStanding returns the honours classification for a cumulative average.
func ClassStanding(cgpa float64) string {
	switch {
	case cgpa >= 4.5:
		return "First Class Honours"
	case cgpa >= 4.0:
		return "Second Class Honours (Upper)"
	case cgpa >= 3.0:
		return "Second Class Honours (Lower)"
	case cgpa >= 2.0:
		return "Pass"
	}
	return "Fail"
}

func ClassStandingShort(cgpa float64) string {
	switch {
	case cgpa >= 4.5:
		return "First Class"
	case cgpa >= 4.0:
		return "Second Upper"
	case cgpa >= 3.0:
		return "Second Lower"
	case cgpa >= 2.0:
		return "Pass"
	}
	return "Fail"
}

func PerformanceMessage(gpa float64) string {
	switch {
	case gpa >= 4.5:
		return "Outstanding Performance!"
	case gpa >= 4.0:
		return "Excellent Performance!"
	case gpa >= 3.5:
		return "Very Good Performance!"
	case gpa >= 3.0:
		return "Good Performance"
	case gpa >= 2.5:
		return "Fair Performance"
	case gpa >= 2.0:
		return "Needs Improvement"
	}
	return "Critical - Seek Academic Support"
}

// Distribution counts courses per letter grade.
func Distribution(grades []string) map[string]int {
	dist := make(map[string]int)
	for _, grade := range grades {
		if grade != "" {
			dist[grade]++
		}
	}
	return dist
}

// FormatGPA renders a GPA for display; nil renders as a placeholder.
func FormatGPA(gpa *float64) string {
	if gpa == nil {
		return "--.--"
	}
	return fmt.Sprintf("%.2f", *gpa)
}

// FormatPercentage renders a percentage for display; nil renders as a placeholder.
func FormatPercentage(percentage *float64) string {
	if percentage == nil {
		return "--%"
	}
	return fmt.Sprintf("%.1f%%", *percentage)
}
