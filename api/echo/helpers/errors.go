package helpers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/academic"
)

var (
	ErrHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errMissingStudentHeader = echo.NewHTTPError(http.StatusBadRequest, "missing or invalid X-Student-ID header")
)

// AppHTTPErrorHandler renders every error the handlers bubble up:
// validation failures as field->message maps, domain lookups as 404,
// backend write failures as 502, and an empty offline start as 503.
func AppHTTPErrorHandler(err error, c echo.Context) {
	var code int
	var message interface{}

	switch err := err.(type) {
	case *echo.HTTPError:
		if err.Internal != nil {
			if herr, ok := err.Internal.(*echo.HTTPError); ok {
				err = herr
			}
		}
		code = err.Code
		message = err.Message
	case validator.ValidationErrors:
		fldErrs := make(map[string]string)
		for _, vErr := range err {
			fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
		}
		code = http.StatusBadRequest
		message = fldErrs
	case *core.ValidationError:
		if err.Fields != nil {
			fldErrs := make(map[string]string)
			for _, fErr := range err.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			message = fldErrs
		} else {
			message = err.Error()
		}
		code = http.StatusBadRequest
	case *academic.RemoteError:
		code = http.StatusBadGateway
		message = err.Error()
	default:
		switch err {
		case academic.ErrSemesterNotFound, academic.ErrCourseNotFound,
			academic.ErrProfileNotFound, academic.ErrPreferencesNotFound:
			code = http.StatusNotFound
			message = err.Error()
		case academic.ErrNoData:
			code = http.StatusServiceUnavailable
			message = err.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
		}
	}

	if c.Echo().Debug {
		message = err.Error()
	} else if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead { // Issue #608
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}
