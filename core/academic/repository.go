package academic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// errors
	ErrSemesterNotFound     = errors.New("semester not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrPreferencesNotFound  = errors.New("preferences not found")
	ErrSemesterNumberExists = errors.New("a semester with this number already exists")

	// ErrNoData is surfaced when the backend is unreachable and no snapshot
	// has ever been cached.
	ErrNoData = errors.New("no data available")

	// ErrCacheMiss is returned by Cache implementations for absent keys.
	ErrCacheMiss = errors.New("cache miss")
)

type (
	// Repository is the backend data service: row-level CRUD over the
	// student-scoped record types. Implementations live in storage/database.
	Repository interface {
		// QuerySemesters returns the student's semesters ordered by semester
		// number, without courses attached.
		QuerySemesters(ctx context.Context, studentID uuid.UUID) ([]Semester, error)
		// QueryCourses returns all of the student's courses ordered by
		// creation time.
		QueryCourses(ctx context.Context, studentID uuid.UUID) ([]Course, error)
		GetSemesterByID(ctx context.Context, id uuid.UUID) (Semester, error)
		CreateSemester(ctx context.Context, sem Semester) (Semester, error)
		UpdateSemester(ctx context.Context, sem Semester) (Semester, error)
		// UpdateSemesterAggregates persists the derived GPA/credit pair
		// separately from user-editable fields.
		UpdateSemesterAggregates(ctx context.Context, id uuid.UUID, gpa *float64, totalCredits int) error
		DeleteSemester(ctx context.Context, id uuid.UUID) error
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, id uuid.UUID) error
		GetProfile(ctx context.Context, studentID uuid.UUID) (Profile, error)
		UpsertProfile(ctx context.Context, prof Profile) (Profile, error)
		GetPreferences(ctx context.Context, studentID uuid.UUID) (Preferences, error)
		UpsertPreferences(ctx context.Context, prefs Preferences) (Preferences, error)
	}

	// Cache is the local persistence collaborator: a key-value byte store
	// holding last-known-good snapshots. Implementations live in storage/kv.
	Cache interface {
		Get(key string) ([]byte, error)
		Set(key string, value []byte) error
		Remove(key string) error
	}

	// Prober answers a single question, within a bounded timeout: can the
	// backend be reached right now?
	Prober interface {
		IsOnline(ctx context.Context) bool
	}
)

// RemoteError wraps a backend failure. It triggers an optimistic rollback in
// the coordinator and is surfaced to the caller; the mutation may be retried.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *RemoteError) Unwrap() error { return e.Err }

func IsRemoteError(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr)
}

// CacheError wraps a local persistence failure. It is logged and treated as a
// cache miss; it never blocks the in-memory operation.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *CacheError) Unwrap() error { return e.Err }
