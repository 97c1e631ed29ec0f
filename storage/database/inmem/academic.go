package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core/academic"
)

type academicRepository struct {
	db *DB
}

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db}
}

var _ academic.Repository = (*academicRepository)(nil)

func (repo *academicRepository) QuerySemesters(_ context.Context, studentID uuid.UUID) ([]academic.Semester, error) {
	repo.db.semester.mutex.RLock()
	defer repo.db.semester.mutex.RUnlock()

	semesters := make([]academic.Semester, 0)
	for _, sem := range repo.db.semester.table {
		if sem.StudentID == studentID {
			cp := *sem
			cp.Courses = nil
			semesters = append(semesters, cp)
		}
	}
	sort.Slice(semesters, func(i, j int) bool { return semesters[i].SemesterNumber < semesters[j].SemesterNumber })
	return semesters, nil
}

func (repo *academicRepository) QueryCourses(_ context.Context, studentID uuid.UUID) ([]academic.Course, error) {
	repo.db.course.mutex.RLock()
	defer repo.db.course.mutex.RUnlock()

	courses := make([]academic.Course, 0)
	for _, crs := range repo.db.course.table {
		if crs.StudentID == studentID {
			courses = append(courses, *crs)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *academicRepository) GetSemesterByID(_ context.Context, id uuid.UUID) (academic.Semester, error) {
	repo.db.semester.mutex.RLock()
	defer repo.db.semester.mutex.RUnlock()

	if sem, ok := repo.db.semester.table[id]; ok {
		cp := *sem
		cp.Courses = nil
		return cp, nil
	}
	return academic.Semester{}, academic.ErrSemesterNotFound
}

func (repo *academicRepository) CreateSemester(_ context.Context, sem academic.Semester) (academic.Semester, error) {
	repo.db.semester.mutex.Lock()
	defer repo.db.semester.mutex.Unlock()

	for _, existing := range repo.db.semester.table {
		if existing.StudentID == sem.StudentID && existing.SemesterNumber == sem.SemesterNumber {
			return academic.Semester{}, academic.ErrSemesterNumberExists
		}
	}
	sem.Courses = nil
	repo.db.semester.table[sem.ID] = &sem
	return sem, nil
}

func (repo *academicRepository) UpdateSemester(_ context.Context, sem academic.Semester) (academic.Semester, error) {
	repo.db.semester.mutex.Lock()
	defer repo.db.semester.mutex.Unlock()

	orig, ok := repo.db.semester.table[sem.ID]
	if !ok {
		return academic.Semester{}, academic.ErrSemesterNotFound
	}
	for _, existing := range repo.db.semester.table {
		if existing.ID != sem.ID && existing.StudentID == sem.StudentID && existing.SemesterNumber == sem.SemesterNumber {
			return academic.Semester{}, academic.ErrSemesterNumberExists
		}
	}

	// only user-editable fields; aggregates have their own write path
	orig.SemesterNumber = sem.SemesterNumber
	orig.Name = sem.Name
	orig.StartDate = sem.StartDate
	orig.EndDate = sem.EndDate
	orig.UpdatedAt = sem.UpdatedAt

	cp := *orig
	cp.Courses = nil
	return cp, nil
}

func (repo *academicRepository) UpdateSemesterAggregates(_ context.Context, id uuid.UUID, gpa *float64, totalCredits int) error {
	repo.db.semester.mutex.Lock()
	defer repo.db.semester.mutex.Unlock()

	sem, ok := repo.db.semester.table[id]
	if !ok {
		return academic.ErrSemesterNotFound
	}
	sem.GPA = gpa
	sem.TotalCredits = totalCredits
	sem.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *academicRepository) DeleteSemester(_ context.Context, id uuid.UUID) error {
	repo.db.semester.mutex.Lock()
	delete(repo.db.semester.table, id)
	repo.db.semester.mutex.Unlock()

	// cascade
	repo.db.course.mutex.Lock()
	defer repo.db.course.mutex.Unlock()
	for cid, crs := range repo.db.course.table {
		if crs.SemesterID == id {
			delete(repo.db.course.table, cid)
		}
	}
	return nil
}

func (repo *academicRepository) CreateCourse(_ context.Context, crs academic.Course) (academic.Course, error) {
	repo.db.course.mutex.Lock()
	defer repo.db.course.mutex.Unlock()

	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

func (repo *academicRepository) UpdateCourse(_ context.Context, crs academic.Course) (academic.Course, error) {
	repo.db.course.mutex.Lock()
	defer repo.db.course.mutex.Unlock()

	orig, ok := repo.db.course.table[crs.ID]
	if !ok {
		return academic.Course{}, academic.ErrCourseNotFound
	}
	crs.SemesterID = orig.SemesterID
	crs.StudentID = orig.StudentID
	crs.CreatedAt = orig.CreatedAt
	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

func (repo *academicRepository) DeleteCourse(_ context.Context, id uuid.UUID) error {
	repo.db.course.mutex.Lock()
	defer repo.db.course.mutex.Unlock()
	delete(repo.db.course.table, id)
	return nil
}

func (repo *academicRepository) GetProfile(_ context.Context, studentID uuid.UUID) (academic.Profile, error) {
	repo.db.profile.mutex.RLock()
	defer repo.db.profile.mutex.RUnlock()

	if prof, ok := repo.db.profile.table[studentID]; ok {
		return *prof, nil
	}
	return academic.Profile{}, academic.ErrProfileNotFound
}

func (repo *academicRepository) UpsertProfile(_ context.Context, prof academic.Profile) (academic.Profile, error) {
	repo.db.profile.mutex.Lock()
	defer repo.db.profile.mutex.Unlock()

	if orig, ok := repo.db.profile.table[prof.ID]; ok {
		prof.CreatedAt = orig.CreatedAt
	}
	repo.db.profile.table[prof.ID] = &prof
	return prof, nil
}

func (repo *academicRepository) GetPreferences(_ context.Context, studentID uuid.UUID) (academic.Preferences, error) {
	repo.db.preferences.mutex.RLock()
	defer repo.db.preferences.mutex.RUnlock()

	if prefs, ok := repo.db.preferences.table[studentID]; ok {
		return *prefs, nil
	}
	return academic.Preferences{}, academic.ErrPreferencesNotFound
}

func (repo *academicRepository) UpsertPreferences(_ context.Context, prefs academic.Preferences) (academic.Preferences, error) {
	repo.db.preferences.mutex.Lock()
	defer repo.db.preferences.mutex.Unlock()

	if orig, ok := repo.db.preferences.table[prefs.StudentID]; ok {
		prefs.CreatedAt = orig.CreatedAt
	}
	repo.db.preferences.table[prefs.StudentID] = &prefs
	return prefs, nil
}
