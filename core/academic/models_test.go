package academic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/grading"
)

func Test_CourseForm_Validate(t *testing.T) {
	valid := func() CourseForm {
		return CourseForm{
			Name:        "Data Structures",
			CreditHours: 3,
			IAMax:       30,
			UEMax:       70,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*CourseForm)
		wantField string
	}{
		{name: "valid form", mutate: func(f *CourseForm) {}},
		{name: "valid with scores", mutate: func(f *CourseForm) {
			f.IAScore = grading.Float(24)
			f.UEScore = grading.Float(50)
		}},
		{name: "min credit hours accepted", mutate: func(f *CourseForm) { f.CreditHours = 1 }},
		{name: "max credit hours accepted", mutate: func(f *CourseForm) { f.CreditHours = 10 }},
		{name: "zero credit hours rejected", mutate: func(f *CourseForm) { f.CreditHours = 0 }, wantField: "credit_hours"},
		{name: "excess credit hours rejected", mutate: func(f *CourseForm) { f.CreditHours = 11 }, wantField: "credit_hours"},
		{name: "missing name", mutate: func(f *CourseForm) { f.Name = "" }, wantField: "name"},
		{name: "single char name", mutate: func(f *CourseForm) { f.Name = "A" }, wantField: "name"},
		{name: "zero assessment max", mutate: func(f *CourseForm) { f.IAMax = 0 }, wantField: "ia_max"},
		{name: "zero exam max", mutate: func(f *CourseForm) { f.UEMax = 0 }, wantField: "ue_max"},
		{name: "negative assessment score", mutate: func(f *CourseForm) { f.IAScore = grading.Float(-1) }, wantField: "ia_score"},
		{name: "assessment score above max", mutate: func(f *CourseForm) { f.IAScore = grading.Float(31) }, wantField: "ia_score"},
		{name: "exam score above max", mutate: func(f *CourseForm) { f.UEScore = grading.Float(70.5) }, wantField: "ue_score"},
		{name: "score at max accepted", mutate: func(f *CourseForm) {
			f.IAScore = grading.Float(30)
			f.UEScore = grading.Float(70)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)
			err := form.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, core.TranslateFieldErrors(err), tt.wantField)
			}
		})
	}
}

func Test_CourseForm_Validate_cleansName(t *testing.T) {
	form := CourseForm{Name: "  Linear   Algebra ", CreditHours: 3, IAMax: 30, UEMax: 70}
	assert.NoError(t, form.Validate())
	assert.Equal(t, "Linear Algebra", form.Name)
}

func Test_SemesterForm_Validate(t *testing.T) {
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 4, 0)

	t.Run("valid form", func(t *testing.T) {
		form := SemesterForm{SemesterNumber: 1, Name: "Fall", StartDate: &start, EndDate: &end}
		assert.NoError(t, form.Validate())
	})
	t.Run("number out of range", func(t *testing.T) {
		for _, n := range []int{0, 21, -1} {
			form := SemesterForm{SemesterNumber: n}
			err := form.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, core.TranslateFieldErrors(err), "semester_number")
			}
		}
	})
	t.Run("end before start", func(t *testing.T) {
		form := SemesterForm{SemesterNumber: 2, StartDate: &end, EndDate: &start}
		err := form.Validate()
		if assert.Error(t, err) {
			assert.Contains(t, core.TranslateFieldErrors(err), "end_date")
		}
	})
	t.Run("duplicate number rejected", func(t *testing.T) {
		form := SemesterForm{SemesterNumber: 3}
		err := form.Validate(1, 2, 3)
		if assert.Error(t, err) {
			assert.Contains(t, core.TranslateFieldErrors(err), "semester_number")
		}
	})
	t.Run("unique number accepted", func(t *testing.T) {
		form := SemesterForm{SemesterNumber: 4}
		assert.NoError(t, form.Validate(1, 2, 3))
	})
}

func Test_ProfileForm_Validate(t *testing.T) {
	valid := func() ProfileForm {
		return ProfileForm{
			FullName:   "Amina Yusuf",
			University: "University of Jos",
			Program:    "Computer Science",
			Country:    "Nigeria",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*ProfileForm)
		wantField string
	}{
		{name: "valid form", mutate: func(f *ProfileForm) {}},
		{name: "student ref accepted", mutate: func(f *ProfileForm) { f.StudentRef = "UJ/2023/CS_042" }},
		{name: "student ref with spaces rejected", mutate: func(f *ProfileForm) { f.StudentRef = "UJ 2023" }, wantField: "student_id"},
		{name: "missing full name", mutate: func(f *ProfileForm) { f.FullName = "" }, wantField: "full_name"},
		{name: "start year too old", mutate: func(f *ProfileForm) { f.StartYear = 1980 }, wantField: "start_year"},
		{name: "start year in far future", mutate: func(f *ProfileForm) { f.StartYear = time.Now().Year() + 2 }, wantField: "start_year"},
		{name: "next year accepted", mutate: func(f *ProfileForm) { f.StartYear = time.Now().Year() + 1 }},
		{name: "bad avatar url", mutate: func(f *ProfileForm) { f.AvatarURL = "not-a-url" }, wantField: "avatar_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)
			err := form.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, core.TranslateFieldErrors(err), tt.wantField)
			}
		})
	}
}

func Test_Course_Recompute(t *testing.T) {
	crs := Course{CreditHours: 3, IAMax: 30, UEMax: 70}

	crs.Recompute()
	assert.Nil(t, crs.Grade)
	assert.Nil(t, crs.GradePoints)
	assert.False(t, crs.Graded())

	crs.IAScore = grading.Float(24)
	crs.UEScore = grading.Float(50)
	crs.Recompute()
	if assert.NotNil(t, crs.Grade) {
		assert.Equal(t, "B", *crs.Grade)
	}
	assert.Equal(t, grading.Float(4.0), crs.GradePoints)
	assert.Equal(t, grading.Float(74.0), crs.TotalScore)
	assert.True(t, crs.Graded())

	// clearing a score clears the derived fields again
	crs.UEScore = nil
	crs.Recompute()
	assert.Nil(t, crs.Grade)
	assert.Nil(t, crs.Percentage)
}

func Test_Semester_RecomputeAggregates(t *testing.T) {
	sem := Semester{Courses: []Course{
		{CreditHours: 3, IAScore: grading.Float(30), IAMax: 30, UEScore: grading.Float(70), UEMax: 70}, // A
		{CreditHours: 2, IAScore: grading.Float(21), IAMax: 30, UEScore: grading.Float(49), UEMax: 70}, // B
		{CreditHours: 4, IAMax: 30, UEMax: 70},                                                        // ungraded
	}}
	for i := range sem.Courses {
		sem.Courses[i].Recompute()
	}

	sem.RecomputeAggregates()
	if assert.NotNil(t, sem.GPA) {
		assert.InDelta(t, 4.6, *sem.GPA, 1e-9) // (5*3 + 4*2) / 5
	}
	// ungraded courses still count toward the credit total
	assert.Equal(t, 9, sem.TotalCredits)

	sem.Courses = nil
	sem.RecomputeAggregates()
	assert.Nil(t, sem.GPA)
	assert.Equal(t, 0, sem.TotalCredits)
}

func Test_Semester_Clone(t *testing.T) {
	start := time.Now().UTC()
	sem := Semester{
		SemesterNumber: 1,
		StartDate:      &start,
		GPA:            grading.Float(4.0),
		Courses: []Course{
			{Name: "Calculus", IAScore: grading.Float(20), IAMax: 30, UEScore: grading.Float(50), UEMax: 70},
		},
	}

	cp := sem.Clone()
	assert.Equal(t, sem, cp)

	// mutating the clone must not touch the original
	*cp.GPA = 1.0
	cp.Courses[0].Name = "changed"
	*cp.Courses[0].IAScore = 0
	assert.Equal(t, 4.0, *sem.GPA)
	assert.Equal(t, "Calculus", sem.Courses[0].Name)
	assert.Equal(t, 20.0, *sem.Courses[0].IAScore)
}
