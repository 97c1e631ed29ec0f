package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core/academic"
)

type academicRepository struct {
	db *sqlx.DB
}

func NewAcademicRepository(db *sql.DB, driverName string) academic.Repository {
	return &academicRepository{db: sqlx.NewDb(db, driverName)}
}

var _ academic.Repository = (*academicRepository)(nil)

func (repo *academicRepository) QuerySemesters(ctx context.Context, studentID uuid.UUID) ([]academic.Semester, error) {
	semesters := make([]academic.Semester, 0)
	err := repo.db.SelectContext(ctx, &semesters,
		`SELECT * FROM semesters WHERE student_id = $1 ORDER BY semester_number`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying semesters")
	}
	return semesters, nil
}

func (repo *academicRepository) QueryCourses(ctx context.Context, studentID uuid.UUID) ([]academic.Course, error) {
	courses := make([]academic.Course, 0)
	err := repo.db.SelectContext(ctx, &courses,
		`SELECT * FROM courses WHERE student_id = $1 ORDER BY created_at`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *academicRepository) GetSemesterByID(ctx context.Context, id uuid.UUID) (academic.Semester, error) {
	var sem academic.Semester
	err := repo.db.GetContext(ctx, &sem, `SELECT * FROM semesters WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return academic.Semester{}, academic.ErrSemesterNotFound
	}
	if err != nil {
		return academic.Semester{}, errors.Wrap(err, "getting semester")
	}
	return sem, nil
}

func (repo *academicRepository) CreateSemester(ctx context.Context, sem academic.Semester) (academic.Semester, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO semesters (id, student_id, semester_number, name, start_date, end_date, gpa, total_credits, created_at, updated_at)
		 VALUES (:id, :student_id, :semester_number, :name, :start_date, :end_date, :gpa, :total_credits, :created_at, :updated_at)`,
		sem)
	if err != nil {
		if isUniqueViolation(err) {
			return academic.Semester{}, academic.ErrSemesterNumberExists
		}
		return academic.Semester{}, errors.Wrap(err, "creating semester")
	}
	return sem, nil
}

func (repo *academicRepository) UpdateSemester(ctx context.Context, sem academic.Semester) (academic.Semester, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE semesters
		 SET semester_number = :semester_number, name = :name, start_date = :start_date,
		     end_date = :end_date, updated_at = :updated_at
		 WHERE id = :id`,
		sem)
	if err != nil {
		if isUniqueViolation(err) {
			return academic.Semester{}, academic.ErrSemesterNumberExists
		}
		return academic.Semester{}, errors.Wrap(err, "updating semester")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academic.Semester{}, academic.ErrSemesterNotFound
	}
	return sem, nil
}

func (repo *academicRepository) UpdateSemesterAggregates(ctx context.Context, id uuid.UUID, gpa *float64, totalCredits int) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE semesters SET gpa = $2, total_credits = $3, updated_at = NOW() WHERE id = $1`,
		id, gpa, totalCredits)
	if err != nil {
		return errors.Wrap(err, "updating semester aggregates")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academic.ErrSemesterNotFound
	}
	return nil
}

func (repo *academicRepository) DeleteSemester(ctx context.Context, id uuid.UUID) error {
	// courses cascade
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM semesters WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting semester")
	}
	return nil
}

func (repo *academicRepository) CreateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO courses (id, semester_id, student_id, name, credit_hours, ia_score, ia_max, ue_score, ue_max,
		                      total_score, percentage, grade, grade_points, created_at, updated_at)
		 VALUES (:id, :semester_id, :student_id, :name, :credit_hours, :ia_score, :ia_max, :ue_score, :ue_max,
		         :total_score, :percentage, :grade, :grade_points, :created_at, :updated_at)`,
		crs)
	if err != nil {
		return academic.Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

func (repo *academicRepository) UpdateCourse(ctx context.Context, crs academic.Course) (academic.Course, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE courses
		 SET name = :name, credit_hours = :credit_hours, ia_score = :ia_score, ia_max = :ia_max,
		     ue_score = :ue_score, ue_max = :ue_max, total_score = :total_score, percentage = :percentage,
		     grade = :grade, grade_points = :grade_points, updated_at = :updated_at
		 WHERE id = :id`,
		crs)
	if err != nil {
		return academic.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academic.Course{}, academic.ErrCourseNotFound
	}
	return crs, nil
}

func (repo *academicRepository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return nil
}

func (repo *academicRepository) GetProfile(ctx context.Context, studentID uuid.UUID) (academic.Profile, error) {
	var prof academic.Profile
	err := repo.db.GetContext(ctx, &prof, `SELECT * FROM profiles WHERE id = $1`, studentID)
	if err == sql.ErrNoRows {
		return academic.Profile{}, academic.ErrProfileNotFound
	}
	if err != nil {
		return academic.Profile{}, errors.Wrap(err, "getting profile")
	}
	return prof, nil
}

func (repo *academicRepository) UpsertProfile(ctx context.Context, prof academic.Profile) (academic.Profile, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO profiles (id, full_name, university, program, country, student_ref, start_year, avatar_url, created_at, updated_at)
		 VALUES (:id, :full_name, :university, :program, :country, :student_ref, :start_year, :avatar_url, :created_at, :updated_at)
		 ON CONFLICT (id) DO UPDATE
		 SET full_name = EXCLUDED.full_name, university = EXCLUDED.university, program = EXCLUDED.program,
		     country = EXCLUDED.country, student_ref = EXCLUDED.student_ref, start_year = EXCLUDED.start_year,
		     avatar_url = EXCLUDED.avatar_url, updated_at = EXCLUDED.updated_at`,
		prof)
	if err != nil {
		return academic.Profile{}, errors.Wrap(err, "upserting profile")
	}
	return prof, nil
}

func (repo *academicRepository) GetPreferences(ctx context.Context, studentID uuid.UUID) (academic.Preferences, error) {
	var prefs academic.Preferences
	err := repo.db.GetContext(ctx, &prefs, `SELECT * FROM preferences WHERE student_id = $1`, studentID)
	if err == sql.ErrNoRows {
		return academic.Preferences{}, academic.ErrPreferencesNotFound
	}
	if err != nil {
		return academic.Preferences{}, errors.Wrap(err, "getting preferences")
	}
	return prefs, nil
}

func (repo *academicRepository) UpsertPreferences(ctx context.Context, prefs academic.Preferences) (academic.Preferences, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO preferences (student_id, default_ia_max, default_ue_max, notifications_enabled, haptic_enabled, created_at, updated_at)
		 VALUES (:student_id, :default_ia_max, :default_ue_max, :notifications_enabled, :haptic_enabled, :created_at, :updated_at)
		 ON CONFLICT (student_id) DO UPDATE
		 SET default_ia_max = EXCLUDED.default_ia_max, default_ue_max = EXCLUDED.default_ue_max,
		     notifications_enabled = EXCLUDED.notifications_enabled, haptic_enabled = EXCLUDED.haptic_enabled,
		     updated_at = EXCLUDED.updated_at`,
		prefs)
	if err != nil {
		return academic.Preferences{}, errors.Wrap(err, "upserting preferences")
	}
	return prefs, nil
}

func isUniqueViolation(err error) bool {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return perr.Code == "23505"
	}
	return false
}
