package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/alama/core/grading"
)

func Test_Coordinator_Analytics(t *testing.T) {
	coord, _, _, _ := setup(t)

	sem1 := addSemester(t, coord, 1)
	addCourse(t, coord, sem1.ID, 3, grading.Float(30), grading.Float(70)) // A
	addCourse(t, coord, sem1.ID, 3, grading.Float(21), grading.Float(49)) // B

	sem2 := addSemester(t, coord, 2)
	addCourse(t, coord, sem2.ID, 3, grading.Float(15), grading.Float(35)) // D
	addCourse(t, coord, sem2.ID, 3, nil, nil)                             // ungraded

	rpt := coord.Analytics()

	assert.Equal(t, 2, rpt.TotalSemesters)
	assert.Equal(t, 4, rpt.TotalCourses)
	assert.Equal(t, 12, rpt.TotalCredits)

	// sem1: (5+4)/2 = 4.5 over 6cr; sem2: 2.0 over 6cr; cgpa = 3.25
	if assert.NotNil(t, rpt.CGPA) {
		assert.InDelta(t, 3.25, *rpt.CGPA, 1e-9)
	}
	assert.Equal(t, "Second Class Honours (Lower)", rpt.ClassStanding)

	if assert.NotNil(t, rpt.BestGPA) {
		assert.Equal(t, 4.5, *rpt.BestGPA)
	}
	if assert.NotNil(t, rpt.WorstGPA) {
		assert.Equal(t, 2.0, *rpt.WorstGPA)
	}
	if assert.NotNil(t, rpt.MeanGPA) {
		assert.InDelta(t, 3.25, *rpt.MeanGPA, 1e-9)
	}

	assert.Equal(t, grading.Trend{Declining: true}, rpt.Trend)
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "D": 1}, rpt.GradeDistribution)

	if assert.Len(t, rpt.GPAHistory, 2) {
		assert.Equal(t, 1, rpt.GPAHistory[0].SemesterNumber)
		assert.Equal(t, 4.5, rpt.GPAHistory[0].GPA)
		assert.Equal(t, 2.0, rpt.GPAHistory[1].GPA)
	}
	assert.Equal(t, map[int]int{1: 6, 2: 6}, rpt.CreditsPerSemester)
}

func Test_Coordinator_Analytics_empty(t *testing.T) {
	coord, _, _, _ := setup(t)

	rpt := coord.Analytics()
	assert.Nil(t, rpt.CGPA)
	assert.Nil(t, rpt.BestGPA)
	assert.Nil(t, rpt.GPAStdDev)
	assert.Empty(t, rpt.ClassStanding)
	assert.Equal(t, grading.Trend{Stable: true}, rpt.Trend)
	assert.Empty(t, rpt.GPAHistory)
	assert.Empty(t, rpt.GradeDistribution)
}

func Test_Coordinator_PlanTarget(t *testing.T) {
	coord, _, _, _ := setup(t)
	sem := addSemester(t, coord, 1)
	addCourse(t, coord, sem.ID, 30, grading.Float(21), grading.Float(49)) // B: 4.0 over 30cr

	// (4.5*60 - 4.0*30) / 30 = 5.0
	plan := coord.PlanTarget(4.5, 30)
	assert.True(t, plan.Attainable)
	if assert.NotNil(t, plan.RequiredGPA) {
		assert.InDelta(t, 5.0, *plan.RequiredGPA, 1e-9)
	}
	assert.Equal(t, 30, plan.CompletedCredits)
	assert.False(t, plan.AlreadyOnTrack)

	// (5.0*60 - 4.0*30) / 30 = 6.0 > max
	plan = coord.PlanTarget(5.0, 30)
	assert.False(t, plan.Attainable)
	assert.Nil(t, plan.RequiredGPA)

	// already far above target; nothing more is needed
	plan = coord.PlanTarget(1.0, 30)
	assert.True(t, plan.Attainable)
	if assert.NotNil(t, plan.RequiredGPA) {
		assert.Equal(t, grading.MinGPA, *plan.RequiredGPA)
	}
	assert.True(t, plan.AlreadyOnTrack)
}

func Test_Coordinator_PlanTarget_freshRecord(t *testing.T) {
	coord, _, _, _ := setup(t)

	plan := coord.PlanTarget(4.0, 30)
	assert.Nil(t, plan.CurrentCGPA)
	assert.True(t, plan.Attainable)
	if assert.NotNil(t, plan.RequiredGPA) {
		assert.InDelta(t, 4.0, *plan.RequiredGPA, 1e-9)
	}
}
