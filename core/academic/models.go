package academic

import (
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/grading"
)

type (
	// Semester groups a student's courses for one academic term. GPA and
	// TotalCredits are derived from the owned course collection and are kept
	// consistent with it after every course mutation. A semester with no
	// graded course has a nil GPA ("no data", not zero performance).
	Semester struct {
		ID             uuid.UUID  `json:"id" db:"id"`
		StudentID      uuid.UUID  `json:"student_id" db:"student_id"`
		SemesterNumber int        `json:"semester_number" db:"semester_number"`
		Name           string     `json:"name" db:"name"`
		StartDate      *time.Time `json:"start_date" db:"start_date"`
		EndDate        *time.Time `json:"end_date" db:"end_date"`
		GPA            *float64   `json:"gpa" db:"gpa"`
		TotalCredits   int        `json:"total_credits" db:"total_credits"`
		CreatedAt      time.Time  `json:"created_at" db:"created_at"` // UTC
		UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"` // UTC

		Courses []Course `json:"courses" db:"-"`
	}

	// Course holds the two weighted sub-scores (internal assessment and
	// university exam) plus the four fields derived from them. Derived fields
	// are nil until both scores are present.
	Course struct {
		ID          uuid.UUID `json:"id" db:"id"`
		SemesterID  uuid.UUID `json:"semester_id" db:"semester_id"`
		StudentID   uuid.UUID `json:"student_id" db:"student_id"`
		Name        string    `json:"name" db:"name"`
		CreditHours int       `json:"credit_hours" db:"credit_hours"`
		IAScore     *float64  `json:"ia_score" db:"ia_score"`
		IAMax       float64   `json:"ia_max" db:"ia_max"`
		UEScore     *float64  `json:"ue_score" db:"ue_score"`
		UEMax       float64   `json:"ue_max" db:"ue_max"`
		TotalScore  *float64  `json:"total_score" db:"total_score"`
		Percentage  *float64  `json:"percentage" db:"percentage"`
		Grade       *string   `json:"grade" db:"grade"`
		GradePoints *float64  `json:"grade_points" db:"grade_points"`
		CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	Profile struct {
		ID         uuid.UUID `json:"id" db:"id"`
		FullName   string    `json:"full_name" db:"full_name"`
		University string    `json:"university" db:"university"`
		Program    string    `json:"program" db:"program"`
		Country    string    `json:"country" db:"country"`
		StudentRef string    `json:"student_id" db:"student_ref"`
		StartYear  int       `json:"start_year" db:"start_year"`
		AvatarURL  string    `json:"avatar_url" db:"avatar_url"`
		CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt  time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	Preferences struct {
		StudentID            uuid.UUID `json:"student_id" db:"student_id"`
		DefaultIAMax         float64   `json:"default_ia_max" db:"default_ia_max"`
		DefaultUEMax         float64   `json:"default_ue_max" db:"default_ue_max"`
		NotificationsEnabled bool      `json:"notifications_enabled" db:"notifications_enabled"`
		HapticEnabled        bool      `json:"haptic_enabled" db:"haptic_enabled"`
		CreatedAt            time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt            time.Time `json:"updated_at" db:"updated_at"` // UTC
	}
)

// Recompute refreshes the course's derived fields from its scores.
func (c *Course) Recompute() {
	score := grading.ScoreCourse(c.IAScore, c.IAMax, c.UEScore, c.UEMax)
	if score == nil {
		c.TotalScore = nil
		c.Percentage = nil
		c.Grade = nil
		c.GradePoints = nil
		return
	}
	c.TotalScore = grading.Float(score.TotalScore)
	c.Percentage = grading.Float(score.Percentage)
	grade := score.Grade
	c.Grade = &grade
	c.GradePoints = grading.Float(score.Points)
}

// Graded reports whether both sub-scores are present.
func (c *Course) Graded() bool {
	return c.IAScore != nil && c.UEScore != nil
}

// Weights returns the course slices the GPA engine consumes.
func (s *Semester) Weights() []grading.CourseWeight {
	weights := make([]grading.CourseWeight, 0, len(s.Courses))
	for _, crs := range s.Courses {
		weights = append(weights, grading.CourseWeight{GradePoints: crs.GradePoints, CreditHours: crs.CreditHours})
	}
	return weights
}

// RecomputeAggregates refreshes the semester's GPA and credit total from its
// current course collection.
func (s *Semester) RecomputeAggregates() {
	s.GPA = grading.GPA(s.Weights())
	credits := 0
	for _, crs := range s.Courses {
		credits += crs.CreditHours
	}
	s.TotalCredits = credits
}

// Clone returns a deep copy; the coordinator hands these out so readers never
// alias its internal state.
func (s Semester) Clone() Semester {
	cp := s
	cp.StartDate = copyTime(s.StartDate)
	cp.EndDate = copyTime(s.EndDate)
	cp.GPA = copyFloat(s.GPA)
	cp.Courses = make([]Course, len(s.Courses))
	for i, crs := range s.Courses {
		cp.Courses[i] = crs.Clone()
	}
	return cp
}

func (c Course) Clone() Course {
	cp := c
	cp.IAScore = copyFloat(c.IAScore)
	cp.UEScore = copyFloat(c.UEScore)
	cp.TotalScore = copyFloat(c.TotalScore)
	cp.Percentage = copyFloat(c.Percentage)
	cp.GradePoints = copyFloat(c.GradePoints)
	if c.Grade != nil {
		grade := *c.Grade
		cp.Grade = &grade
	}
	return cp
}

func cloneSemesters(semesters []Semester) []Semester {
	cp := make([]Semester, len(semesters))
	for i, sem := range semesters {
		cp[i] = sem.Clone()
	}
	return cp
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}

// SemesterForm contains the user-editable semester fields; the same form
// serves create and update.
type SemesterForm struct {
	SemesterNumber int        `json:"semester_number" validate:"required,min=1,max=20"`
	Name           string     `json:"name" validate:"omitempty,max=50"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

// Validate cleans and validates the form. existingNumbers carries the
// caller's scope for the uniqueness check (all other semester numbers of the
// same student).
func (f *SemesterForm) Validate(existingNumbers ...int) error {
	f.Name = core.CollapseSpaces(f.Name)

	if err := core.Validate.Struct(f); err != nil {
		return err
	}
	for _, n := range existingNumbers {
		if n == f.SemesterNumber {
			return core.NewValidationError(
				ErrSemesterNumberExists,
				core.FieldError{Field: "semester_number", Error: ErrSemesterNumberExists.Error()},
			)
		}
	}
	return nil
}

// CourseForm contains the user-editable course fields; the same form serves
// create and update.
type CourseForm struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	CreditHours int      `json:"credit_hours" validate:"required,min=1,max=10"`
	IAScore     *float64 `json:"ia_score"`
	IAMax       float64  `json:"ia_max" validate:"required,gt=0"`
	UEScore     *float64 `json:"ue_score"`
	UEMax       float64  `json:"ue_max" validate:"required,gt=0"`
}

func (f *CourseForm) Validate() error {
	f.Name = core.CollapseSpaces(f.Name)
	return core.Validate.Struct(f)
}

type ProfileForm struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	University string `json:"university" validate:"required,min=2"`
	Program    string `json:"program" validate:"required,min=2"`
	Country    string `json:"country" validate:"required,min=2"`
	StudentRef string `json:"student_id" validate:"omitempty,studentref"`
	StartYear  int    `json:"start_year" validate:"omitempty,min=1990"`
	AvatarURL  string `json:"avatar_url" validate:"omitempty,url"`
}

func (f *ProfileForm) Validate() error {
	f.FullName = core.CollapseSpaces(f.FullName)
	f.University = core.CollapseSpaces(f.University)
	f.Program = core.CollapseSpaces(f.Program)
	f.Country = core.CollapseSpaces(f.Country)
	f.StudentRef = core.CleanString(f.StudentRef)
	return core.Validate.Struct(f)
}

type PreferencesForm struct {
	DefaultIAMax         float64 `json:"default_ia_max" validate:"required,gt=0"`
	DefaultUEMax         float64 `json:"default_ue_max" validate:"required,gt=0"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
	HapticEnabled        bool    `json:"haptic_enabled"`
}

func (f *PreferencesForm) Validate() error { return core.Validate.Struct(f) }
