package academic

import (
	"github.com/montanaflynn/stats"

	"github.com/trezcool/alama/core/grading"
)

type (
	// GPAPoint is one semester's contribution to the GPA history series.
	GPAPoint struct {
		SemesterNumber int     `json:"semester_number"`
		Name           string  `json:"name"`
		GPA            float64 `json:"gpa"`
		Credits        int     `json:"credits"`
	}

	// Analytics is the derived performance report over a student's full
	// academic record. Pointer fields are nil when no graded data exists yet.
	Analytics struct {
		CGPA               *float64       `json:"cgpa"`
		TotalSemesters     int            `json:"total_semesters"`
		TotalCourses       int            `json:"total_courses"`
		TotalCredits       int            `json:"total_credits"`
		BestGPA            *float64       `json:"best_gpa"`
		WorstGPA           *float64       `json:"worst_gpa"`
		MeanGPA            *float64       `json:"mean_gpa"`
		GPAStdDev          *float64       `json:"gpa_std_dev"`
		ClassStanding      string         `json:"class_standing,omitempty"`
		Trend              grading.Trend  `json:"trend"`
		GPAHistory         []GPAPoint     `json:"gpa_history"`
		GradeDistribution  map[string]int `json:"grade_distribution"`
		CreditsPerSemester map[int]int    `json:"credits_per_semester"`
	}
)

// Analytics computes the performance report from the coordinator's current
// reconciled view. Ungraded semesters contribute credits and counts but are
// excluded from every GPA statistic.
func (c *Coordinator) Analytics() Analytics {
	semesters := c.Semesters()

	rpt := Analytics{
		TotalSemesters:     len(semesters),
		GPAHistory:         []GPAPoint{},
		GradeDistribution:  make(map[string]int),
		CreditsPerSemester: make(map[int]int),
	}

	var history []float64
	var grades []string
	for _, sem := range semesters {
		rpt.TotalCourses += len(sem.Courses)
		rpt.TotalCredits += sem.TotalCredits
		rpt.CreditsPerSemester[sem.SemesterNumber] = sem.TotalCredits
		for _, crs := range sem.Courses {
			if crs.Grade != nil {
				grades = append(grades, *crs.Grade)
			}
		}
		if sem.GPA == nil {
			continue
		}
		history = append(history, *sem.GPA)
		rpt.GPAHistory = append(rpt.GPAHistory, GPAPoint{
			SemesterNumber: sem.SemesterNumber,
			Name:           sem.Name,
			GPA:            grading.Round(*sem.GPA, 2),
			Credits:        sem.TotalCredits,
		})
	}

	rpt.GradeDistribution = grading.Distribution(grades)
	rpt.Trend = grading.TrendOf(history)
	rpt.CGPA = c.CGPA()
	if rpt.CGPA != nil {
		rpt.ClassStanding = grading.ClassStanding(*rpt.CGPA)
	}

	if len(history) > 0 {
		if max, err := stats.Max(history); err == nil {
			rpt.BestGPA = grading.Float(grading.Round(max, 2))
		}
		if min, err := stats.Min(history); err == nil {
			rpt.WorstGPA = grading.Float(grading.Round(min, 2))
		}
		if mean, err := stats.Mean(history); err == nil {
			rpt.MeanGPA = grading.Float(grading.Round(mean, 2))
		}
		if sd, err := stats.StandardDeviation(history); err == nil {
			rpt.GPAStdDev = grading.Float(grading.Round(sd, 2))
		}
	}
	return rpt
}

// TargetPlan answers "what average do I need from here to reach this CGPA".
type TargetPlan struct {
	TargetCGPA       float64  `json:"target_cgpa"`
	FutureCredits    int      `json:"future_credits"`
	RequiredGPA      *float64 `json:"required_gpa"`
	Attainable       bool     `json:"attainable"`
	AlreadyOnTrack   bool     `json:"already_on_track"`
	CurrentCGPA      *float64 `json:"current_cgpa"`
	CompletedCredits int      `json:"completed_credits"`
}

// PlanTarget evaluates a target CGPA against the current record. With no
// graded record yet, the required average is the target itself.
func (c *Coordinator) PlanTarget(targetCGPA float64, futureCredits int) TargetPlan {
	plan := TargetPlan{TargetCGPA: targetCGPA, FutureCredits: futureCredits}

	c.mu.Lock()
	plan.CurrentCGPA = grading.CGPA(c.semesterWeightsLocked())
	for i := range c.semesters {
		if c.semesters[i].GPA != nil {
			plan.CompletedCredits += c.semesters[i].TotalCredits
		}
	}
	c.mu.Unlock()

	current, credits := 0.0, 0
	if plan.CurrentCGPA != nil {
		current, credits = *plan.CurrentCGPA, plan.CompletedCredits
	}
	plan.RequiredGPA = grading.RequiredFutureGPA(current, credits, targetCGPA, futureCredits)
	plan.Attainable = plan.RequiredGPA != nil
	plan.AlreadyOnTrack = plan.RequiredGPA != nil && *plan.RequiredGPA == grading.MinGPA &&
		plan.CurrentCGPA != nil && *plan.CurrentCGPA >= targetCGPA
	return plan
}
