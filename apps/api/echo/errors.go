package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/leave"
	"github.com/trezcool/hrms/core/session"
	"github.com/trezcool/hrms/core/user"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errRefreshExpired = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound   = echo.NewHTTPError(http.StatusNotFound, "not found")

	// domain errors answered with their own message
	clientErrors = []struct {
		err  error
		code int
	}{
		{session.ErrAccountNotFound, http.StatusBadRequest},
		{session.ErrIncorrectPassword, http.StatusBadRequest},
		{attendance.ErrAlreadyCheckedIn, http.StatusBadRequest},
		{attendance.ErrNotCheckedIn, http.StatusBadRequest},
		{attendance.ErrAlreadyCheckedOut, http.StatusBadRequest},
		{leave.ErrNotPending, http.StatusConflict},
		{user.ErrNotFound, http.StatusNotFound},
		{attendance.ErrNotFound, http.StatusNotFound},
		{leave.ErrNotFound, http.StatusNotFound},
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := errorResponse(err)

		if code == http.StatusInternalServerError {
			msg := http.StatusText(code)
			usr, _ := ctx.Get(contextUserKey).(user.User)
			if logger != nil {
				logger.Error(msg, errors.Wrap(err, msg), usr)
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// errorResponse maps err to a status code and a message; either a string or a field map.
func errorResponse(err error) (int, interface{}) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		if len(vErr.Fields) > 0 {
			fldErrs := make(map[string]string, len(vErr.Fields))
			for _, fErr := range vErr.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			return http.StatusBadRequest, fldErrs
		}
		return http.StatusBadRequest, vErr.Error()
	}

	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return ce.code, ce.err.Error()
		}
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		if herr == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, herr.Message
		}
		if internal, ok := herr.Internal.(*echo.HTTPError); ok {
			herr = internal
		}
		return herr.Code, herr.Message
	}

	// any other error is a server error
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
