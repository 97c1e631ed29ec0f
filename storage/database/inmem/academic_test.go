package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/alama/core/academic"
	"github.com/trezcool/alama/core/grading"
)

func newSemester(studentID uuid.UUID, number int) academic.Semester {
	now := time.Now().UTC()
	return academic.Semester{
		ID:             uuid.New(),
		StudentID:      studentID,
		SemesterNumber: number,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func Test_academicRepository_semesters(t *testing.T) {
	repo := NewAcademicRepository(NewDB())
	ctx := context.Background()
	studentID := uuid.New()

	sem2, err := repo.CreateSemester(ctx, newSemester(studentID, 2))
	assert.NoError(t, err)
	sem1, err := repo.CreateSemester(ctx, newSemester(studentID, 1))
	assert.NoError(t, err)

	// another student's data stays invisible
	_, err = repo.CreateSemester(ctx, newSemester(uuid.New(), 1))
	assert.NoError(t, err)

	t.Run("query is student scoped and ordered", func(t *testing.T) {
		semesters, err := repo.QuerySemesters(ctx, studentID)
		assert.NoError(t, err)
		if assert.Len(t, semesters, 2) {
			assert.Equal(t, sem1.ID, semesters[0].ID)
			assert.Equal(t, sem2.ID, semesters[1].ID)
		}
	})
	t.Run("duplicate number rejected per student", func(t *testing.T) {
		_, err := repo.CreateSemester(ctx, newSemester(studentID, 1))
		assert.Equal(t, academic.ErrSemesterNumberExists, err)
	})
	t.Run("aggregates write", func(t *testing.T) {
		err := repo.UpdateSemesterAggregates(ctx, sem1.ID, grading.Float(4.5), 12)
		assert.NoError(t, err)

		got, err := repo.GetSemesterByID(ctx, sem1.ID)
		assert.NoError(t, err)
		assert.Equal(t, grading.Float(4.5), got.GPA)
		assert.Equal(t, 12, got.TotalCredits)
	})
	t.Run("update keeps aggregates", func(t *testing.T) {
		sem1.Name = "Harmattan"
		sem1.GPA = nil // callers never set aggregates through UpdateSemester
		got, err := repo.UpdateSemester(ctx, sem1)
		assert.NoError(t, err)
		assert.Equal(t, "Harmattan", got.Name)
		assert.Equal(t, grading.Float(4.5), got.GPA)
	})
	t.Run("unknown semester", func(t *testing.T) {
		_, err := repo.GetSemesterByID(ctx, uuid.New())
		assert.Equal(t, academic.ErrSemesterNotFound, err)
	})
}

func Test_academicRepository_deleteCascades(t *testing.T) {
	repo := NewAcademicRepository(NewDB())
	ctx := context.Background()
	studentID := uuid.New()

	sem, err := repo.CreateSemester(ctx, newSemester(studentID, 1))
	assert.NoError(t, err)

	now := time.Now().UTC()
	crs, err := repo.CreateCourse(ctx, academic.Course{
		ID: uuid.New(), SemesterID: sem.ID, StudentID: studentID,
		Name: "Calculus", CreditHours: 3, IAMax: 30, UEMax: 70,
		CreatedAt: now, UpdatedAt: now,
	})
	assert.NoError(t, err)

	assert.NoError(t, repo.DeleteSemester(ctx, sem.ID))

	courses, err := repo.QueryCourses(ctx, studentID)
	assert.NoError(t, err)
	assert.Empty(t, courses)

	_, err = repo.UpdateCourse(ctx, crs)
	assert.Equal(t, academic.ErrCourseNotFound, err)
}

func Test_academicRepository_profileAndPreferences(t *testing.T) {
	repo := NewAcademicRepository(NewDB())
	ctx := context.Background()
	studentID := uuid.New()

	_, err := repo.GetProfile(ctx, studentID)
	assert.Equal(t, academic.ErrProfileNotFound, err)

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	prof := academic.Profile{ID: studentID, FullName: "Amina Yusuf", CreatedAt: created, UpdatedAt: created}
	_, err = repo.UpsertProfile(ctx, prof)
	assert.NoError(t, err)

	// a later upsert keeps the original creation time
	prof.FullName = "Amina Y."
	prof.CreatedAt = time.Now().UTC()
	got, err := repo.UpsertProfile(ctx, prof)
	assert.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "Amina Y.", got.FullName)

	_, err = repo.GetPreferences(ctx, studentID)
	assert.Equal(t, academic.ErrPreferencesNotFound, err)

	prefs := academic.Preferences{StudentID: studentID, DefaultIAMax: 30, DefaultUEMax: 70}
	_, err = repo.UpsertPreferences(ctx, prefs)
	assert.NoError(t, err)

	got2, err := repo.GetPreferences(ctx, studentID)
	assert.NoError(t, err)
	assert.Equal(t, 30.0, got2.DefaultIAMax)
}
