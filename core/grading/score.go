package grading

// Score holds the fields derived from a course's two weighted sub-scores.
type Score struct {
	TotalScore float64 `json:"total_score"`
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
	Points     float64 `json:"grade_points"`
}

// ScoreCourse combines the internal assessment and final exam scores of a
// single course. It returns nil when either score is absent: an ungraded
// course is a valid state, not an error. Range validation is the caller's
// job; out-of-range input still resolves through BandFor's fallback.
func ScoreCourse(iaScore *float64, iaMax float64, ueScore *float64, ueMax float64) *Score {
	if iaScore == nil || ueScore == nil {
		return nil
	}

	totalScore := *iaScore + *ueScore
	totalMax := iaMax + ueMax

	var percentage float64
	if totalMax != 0 {
		percentage = totalScore / totalMax * 100
	}

	band := BandFor(percentage)
	return &Score{
		TotalScore: totalScore,
		Percentage: percentage,
		Grade:      band.Grade,
		Points:     band.Points,
	}
}
