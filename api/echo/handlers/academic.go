package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/alama/api/echo/helpers"
	"github.com/trezcool/alama/core/academic"
	"github.com/trezcool/alama/core/grading"
)

type academicApi struct {
	registry *academic.Registry
}

func RegisterAcademicAPI(g *echo.Group, registry *academic.Registry) {
	api := academicApi{registry: registry}

	g.GET("/grade-scale", api.gradeScale)

	// student-scoped endpoints
	sg := g.Group("", helpers.StudentMiddleware())

	sg.POST("/sync", api.sync)
	sg.GET("/sync/status", api.syncStatus)

	sg.GET("/semesters", api.semesterQuery)
	sg.POST("/semesters", api.semesterCreate)
	sg.GET("/semesters/:id", api.semesterRetrieve)
	sg.PUT("/semesters/:id", api.semesterUpdate)
	sg.DELETE("/semesters/:id", api.semesterDestroy)
	sg.POST("/semesters/:id/courses", api.courseCreate)

	sg.GET("/courses/:id", api.courseRetrieve)
	sg.PUT("/courses/:id", api.courseUpdate)
	sg.DELETE("/courses/:id", api.courseDestroy)

	sg.GET("/analytics", api.analytics)
	sg.GET("/analytics/target", api.analyticsTarget)

	sg.GET("/profile", api.profileRetrieve)
	sg.PUT("/profile", api.profileUpdate)
	sg.GET("/preferences", api.preferencesRetrieve)
	sg.PUT("/preferences", api.preferencesUpdate)
}

func (api *academicApi) coordinator(ctx echo.Context) *academic.Coordinator {
	return api.registry.Coordinator(helpers.ContextStudentID(ctx))
}

// Handlers

func (api *academicApi) gradeScale(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grading.Scale)
}

func (api *academicApi) sync(ctx echo.Context) error {
	coord := api.coordinator(ctx)
	if err := coord.Fetch(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, syncStatusResponse(coord))
}

func (api *academicApi) syncStatus(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, syncStatusResponse(api.coordinator(ctx)))
}

type SyncStatus struct {
	State    string     `json:"state"`
	Stale    bool       `json:"stale"`
	LastSync *time.Time `json:"last_sync"`
	CGPA     *float64   `json:"cgpa"`
}

func syncStatusResponse(coord *academic.Coordinator) SyncStatus {
	status := SyncStatus{
		State: coord.State().String(),
		Stale: coord.Stale(),
		CGPA:  coord.CGPA(),
	}
	if last := coord.LastSync(); !last.IsZero() {
		status.LastSync = &last
	}
	return status
}

func (api *academicApi) semesterQuery(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.coordinator(ctx).Semesters())
}

func (api *academicApi) semesterCreate(ctx echo.Context) error {
	coord := api.coordinator(ctx)

	data := new(academic.SemesterForm)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(semesterNumbers(coord, uuid.Nil)...); err != nil {
		return err
	}

	sem, err := coord.AddSemester(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sem)
}

func (api *academicApi) semesterRetrieve(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return helpers.ErrHttpNotFound
	}
	sem, err := api.coordinator(ctx).Semester(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sem)
}

func (api *academicApi) semesterUpdate(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return helpers.ErrHttpNotFound
	}
	coord := api.coordinator(ctx)

	data := new(academic.SemesterForm)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(semesterNumbers(coord, id)...); err != nil {
		return err
	}

	sem, err := coord.UpdateSemester(ctx.Request().Context(), id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sem)
}

func (api *academicApi) semesterDestroy(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return helpers.ErrHttpNotFound
	}
	if err = api.coordinator(ctx).DeleteSemester(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) courseCreate(ctx echo.Context) error {
	semesterID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return helpers.ErrHttpNotFound
	}

	data := new(academic.CourseForm)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	crs, err := api.coordinator(ctx).AddCourse(ctx.Request().Context(), semesterID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *academicApi) courseRetrieve(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return helpers.ErrHttpNotFound
	}
	crs, err := api.coordinator(ctx).Course(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *academicApi) courseUpdate(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return helpers.ErrHttpNotFound
	}

	data := new(academic.CourseForm)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	crs, err := api.coordinator(ctx).UpdateCourse(ctx.Request().Context(), id, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *academicApi) courseDestroy(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return helpers.ErrHttpNotFound
	}
	if err = api.coordinator(ctx).DeleteCourse(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) analytics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.coordinator(ctx).Analytics())
}

func (api *academicApi) analyticsTarget(ctx echo.Context) error {
	target, err := strconv.ParseFloat(ctx.QueryParam("target"), 64)
	if err != nil || target < grading.MinGPA || target > grading.MaxGPA {
		return echo.NewHTTPError(http.StatusBadRequest, "target must be a GPA between 0.0 and 5.0")
	}
	futureCredits, err := strconv.Atoi(ctx.QueryParam("future_credits"))
	if err != nil || futureCredits <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "future_credits must be a positive integer")
	}
	return ctx.JSON(http.StatusOK, api.coordinator(ctx).PlanTarget(target, futureCredits))
}

func (api *academicApi) profileRetrieve(ctx echo.Context) error {
	coord := api.coordinator(ctx)
	if prof := coord.Profile(); prof != nil {
		return ctx.JSON(http.StatusOK, prof)
	}
	prof, err := coord.FetchProfile(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *academicApi) profileUpdate(ctx echo.Context) error {
	data := new(academic.ProfileForm)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prof, err := api.coordinator(ctx).SaveProfile(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *academicApi) preferencesRetrieve(ctx echo.Context) error {
	coord := api.coordinator(ctx)
	if prefs := coord.Preferences(); prefs != nil {
		return ctx.JSON(http.StatusOK, prefs)
	}
	prefs, err := coord.FetchPreferences(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prefs)
}

func (api *academicApi) preferencesUpdate(ctx echo.Context) error {
	data := new(academic.PreferencesForm)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prefs, err := api.coordinator(ctx).SavePreferences(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prefs)
}

// semesterNumbers collects the other semesters' numbers for the uniqueness
// check; excludeID skips the semester being updated.
func semesterNumbers(coord *academic.Coordinator, excludeID uuid.UUID) []int {
	semesters := coord.Semesters()
	numbers := make([]int, 0, len(semesters))
	for _, sem := range semesters {
		if sem.ID != excludeID {
			numbers = append(numbers, sem.SemesterNumber)
		}
	}
	return numbers
}
