package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// StudentHeader carries the acting student's ID on every request.
	StudentHeader = "X-Student-ID"

	studentCtxKey = "studentID"
)

// StudentMiddleware resolves the acting student from the request header and
// stashes the parsed ID in the request context.
func StudentMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := uuid.Parse(ctx.Request().Header.Get(StudentHeader))
			if err != nil {
				return errMissingStudentHeader
			}
			ctx.Set(studentCtxKey, id)
			return next(ctx)
		}
	}
}

// ContextStudentID returns the student ID stashed by StudentMiddleware.
func ContextStudentID(ctx echo.Context) uuid.UUID {
	id, _ := ctx.Get(studentCtxKey).(uuid.UUID)
	return id
}
