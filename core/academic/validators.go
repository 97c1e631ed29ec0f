package academic

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/alama/core"
)

var (
	studentRefTag   = "studentref"
	studentRefText  = "only letters, numbers, and - / _ are allowed"
	studentRefRegex = regexp.MustCompile(`^[A-Za-z0-9/_-]+$`)

	dateOrderTag  = "dateorder"
	dateOrderText = "end date cannot be before start date"

	scoreNegTag  = "scoremin"
	scoreNegText = "score cannot be negative"

	scoreMaxTag  = "scoremax"
	scoreMaxText = "score cannot exceed its maximum marks"

	startYearTag = "startyear"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(studentRefTag, studentRefValidation)
	core.RegisterCustomTranslation(studentRefTag, studentRefText)

	core.Validate.RegisterStructValidation(semesterFormStructValidation, SemesterForm{})
	core.RegisterCustomTranslation(dateOrderTag, dateOrderText)

	core.Validate.RegisterStructValidation(courseFormStructValidation, CourseForm{})
	core.RegisterCustomTranslation(scoreNegTag, scoreNegText)
	core.RegisterCustomTranslation(scoreMaxTag, scoreMaxText)

	core.Validate.RegisterStructValidation(profileFormStructValidation, ProfileForm{})
	core.RegisterCustomTranslation(startYearTag, startYearText())
}

func startYearText() string {
	return fmt.Sprintf("start year must be between 1990 and %d", time.Now().Year()+1)
}

// Custom Validators

// studentRefValidation only allows characters a registrar would print on a
// student card: letters, digits, slash, dash, underscore.
func studentRefValidation(fl validator.FieldLevel) bool {
	return studentRefRegex.MatchString(fl.Field().String())
}

// semesterFormStructValidation checks date ordering when both dates are set.
func semesterFormStructValidation(sl validator.StructLevel) {
	form, ok := sl.Current().Interface().(SemesterForm)
	if !ok {
		return
	}
	if form.StartDate != nil && form.EndDate != nil && form.EndDate.Before(*form.StartDate) {
		sl.ReportError(form.EndDate, "end_date", "EndDate", dateOrderTag, "")
	}
}

// courseFormStructValidation bounds each sub-score by [0, its max].
func courseFormStructValidation(sl validator.StructLevel) {
	form, ok := sl.Current().Interface().(CourseForm)
	if !ok {
		return
	}
	if form.IAScore != nil {
		if *form.IAScore < 0 {
			sl.ReportError(form.IAScore, "ia_score", "IAScore", scoreNegTag, "")
		} else if form.IAMax > 0 && *form.IAScore > form.IAMax {
			sl.ReportError(form.IAScore, "ia_score", "IAScore", scoreMaxTag, "")
		}
	}
	if form.UEScore != nil {
		if *form.UEScore < 0 {
			sl.ReportError(form.UEScore, "ue_score", "UEScore", scoreNegTag, "")
		} else if form.UEMax > 0 && *form.UEScore > form.UEMax {
			sl.ReportError(form.UEScore, "ue_score", "UEScore", scoreMaxTag, "")
		}
	}
}

// profileFormStructValidation applies the dynamic start-year upper bound
// (next calendar year).
func profileFormStructValidation(sl validator.StructLevel) {
	form, ok := sl.Current().Interface().(ProfileForm)
	if !ok {
		return
	}
	if form.StartYear != 0 && form.StartYear > time.Now().Year()+1 {
		sl.ReportError(form.StartYear, "start_year", "StartYear", startYearTag, "")
	}
}
