package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/report"
)

const xlsxMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := reportApi{svc: deps.ReportSvc}

	rg := g.Group("/reports", append(authed, adminMiddleware)...)
	rg.GET("/dashboard", api.dashboard)
	rg.GET("/summary", api.summary)
	rg.GET("/attendance.xlsx", api.exportAttendance)
}

// dashboard reports on ?date=YYYY-MM-DD, today by default.
func (api *reportApi) dashboard(ctx echo.Context) error {
	date := core.CleanString(ctx.QueryParam("date"))
	if date == "" {
		date = attendance.Today()
	}
	d, err := api.svc.Dashboard(ctx.Request().Context(), date)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *reportApi) summary(ctx echo.Context) error {
	s, err := api.svc.Summary(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building summary")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *reportApi) exportAttendance(ctx echo.Context) error {
	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	var buf bytes.Buffer
	if err := api.svc.ExportAttendance(ctx.Request().Context(), &buf, *filter); err != nil {
		return errors.Wrap(err, "exporting attendance")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="attendance.xlsx"`)
	return ctx.Blob(http.StatusOK, xlsxMIMEType, buf.Bytes())
}
