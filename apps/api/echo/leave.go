package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/leave"
)

type leaveApi struct {
	svc        *leave.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerLeaveAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := leaveApi{
		svc:        deps.LeaveSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	lg := g.Group("/leaves", authed...)
	lg.POST("", api.create)
	lg.GET("", api.query)
	lg.POST("/:id/approve", api.approve, adminMiddleware)
	lg.POST("/:id/reject", api.reject, adminMiddleware)
}

func (api *leaveApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data leave.NewRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	req, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating leave request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

// query lists the requests of the current user. Admins see everyone's and may filter by user.
func (api *leaveApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	filter := new(leave.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []leave.Request{})
	}
	if !usr.IsAdmin() {
		filter.UserID = usr.ID
	}

	requests, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying leave requests")
	}
	return ctx.JSON(http.StatusOK, requests)
}

func (api *leaveApi) decision(ctx echo.Context) (leave.Decision, error) {
	var data leave.Decision
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to Decision")
	}
	return data, core.Validate(api.validate, api.translator, data)
}

func (api *leaveApi) approve(ctx echo.Context) error {
	data, err := api.decision(ctx)
	if err != nil {
		return err
	}
	req, err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id"), data.Comment)
	if err != nil {
		return errors.Wrap(err, "approving leave request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *leaveApi) reject(ctx echo.Context) error {
	data, err := api.decision(ctx)
	if err != nil {
		return err
	}
	req, err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id"), data.Comment)
	if err != nil {
		return errors.Wrap(err, "rejecting leave request")
	}
	return ctx.JSON(http.StatusOK, req)
}
