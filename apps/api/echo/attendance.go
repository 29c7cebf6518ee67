package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/user"
)

var errUnknownUser = errors.New("User not found")

type attendanceApi struct {
	svc        *attendance.Service
	users      *user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAttendanceAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:        deps.AttendanceSvc,
		users:      deps.UserSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ag := g.Group("/attendance", authed...)
	ag.GET("", api.query)
	ag.PUT("", api.upsert, adminMiddleware)
	ag.GET("/today", api.today)
	ag.POST("/check-in", api.checkIn)
	ag.POST("/check-out", api.checkOut)
}

// query lists the records of the current user, most recent first.
// Admins see everyone's and may filter by user.
func (api *attendanceApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	filter := new(attendance.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Record{})
	}
	if !usr.IsAdmin() {
		filter.UserID = usr.ID
	}

	records, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	attendance.SortByDateDesc(records)
	return ctx.JSON(http.StatusOK, records)
}

// today returns the current user's record of today, or null.
func (api *attendanceApi) today(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.GetToday(ctx.Request().Context(), usr.ID)
	if errors.Is(err, attendance.ErrNotFound) {
		return ctx.JSON(http.StatusOK, nil)
	} else if err != nil {
		return errors.Wrap(err, "getting today's attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) checkIn(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.CheckIn(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "checking in")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) checkOut(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.CheckOut(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "checking out")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// upsert stores a record for any user and day; 201 when it did not exist.
func (api *attendanceApi) upsert(ctx echo.Context) error {
	var rec attendance.Record
	if err := ctx.Bind(&rec); err != nil {
		return errors.Wrap(err, "binding to Record")
	}
	rec.ID = ""
	if err := rec.Validate(api.validate, api.translator); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if _, err := api.users.GetByID(reqCtx, rec.UserID); errors.Is(err, user.ErrNotFound) {
		return core.NewValidationError(errUnknownUser, core.FieldError{Field: "userId", Error: errUnknownUser.Error()})
	} else if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	inserted, err := api.svc.Upsert(reqCtx, rec)
	if err != nil {
		return errors.Wrap(err, "upserting attendance")
	}
	code := http.StatusOK
	if inserted {
		code = http.StatusCreated
	}
	return ctx.JSON(code, rec)
}
