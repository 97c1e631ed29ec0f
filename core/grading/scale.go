package grading

import "math"

// GPA scale bounds. 5.0 is the only supported scale.
const (
	MaxGPA     = 5.0
	MinGPA     = 0.0
	PassingGPA = 2.0

	DefaultIAMax = 30
	DefaultUEMax = 70
)

// Band maps an integer percentage range to a letter grade and its point value.
type Band struct {
	Grade       string  `json:"grade"`
	Points      float64 `json:"points"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Description string  `json:"description"`
}

// Scale is ordered highest to lowest and partitions [0,100]: every integer
// percentage matches exactly one band.
var Scale = []Band{
	{Grade: "A", Points: 5.0, Min: 80, Max: 100, Description: "Excellent"},
	{Grade: "B+", Points: 4.5, Min: 75, Max: 79, Description: "Very Good"},
	{Grade: "B", Points: 4.0, Min: 70, Max: 74, Description: "Good"},
	{Grade: "C+", Points: 3.5, Min: 65, Max: 69, Description: "Fairly Good"},
	{Grade: "C", Points: 3.0, Min: 60, Max: 64, Description: "Fair"},
	{Grade: "D+", Points: 2.5, Min: 55, Max: 59, Description: "Pass"},
	{Grade: "D", Points: 2.0, Min: 50, Max: 54, Description: "Marginal Pass"},
	{Grade: "E", Points: 1.0, Min: 40, Max: 49, Description: "Conditional"},
	{Grade: "F", Points: 0.0, Min: 0, Max: 39, Description: "Fail"},
}

// BandFor returns the band matching the given percentage, rounded to the
// nearest integer first. Out-of-range input (negative, or >100 from
// extra-credit) falls back to the worst band rather than erroring.
func BandFor(percentage float64) Band {
	if math.IsNaN(percentage) || math.IsInf(percentage, 0) {
		return Scale[len(Scale)-1]
	}
	rounded := int(math.Round(percentage))
	for _, band := range Scale {
		if rounded >= band.Min && rounded <= band.Max {
			return band
		}
	}
	return Scale[len(Scale)-1]
}

// BandOf looks a band up by its letter grade.
func BandOf(grade string) (Band, bool) {
	for _, band := range Scale {
		if band.Grade == grade {
			return band, true
		}
	}
	return Band{}, false
}
