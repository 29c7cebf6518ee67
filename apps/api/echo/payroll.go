package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core/payroll"
	"github.com/trezcool/hrms/core/user"
)

type (
	payrollApi struct {
		svc *payroll.Service
	}

	PayslipResponse struct {
		User    user.User       `json:"user"`
		Payslip payroll.Payslip `json:"payslip"`
	}
)

func registerPayrollAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := payrollApi{svc: deps.PayrollSvc}

	pg := g.Group("/payroll", authed...)
	pg.GET("/me", api.me)
	pg.GET("", api.total, adminMiddleware)
	pg.PUT("/:id", api.updateSalary, adminMiddleware)
}

func (api *payrollApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	slip, err := api.svc.Payslip(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "computing payslip")
	}
	return ctx.JSON(http.StatusOK, PayslipResponse{User: usr.Public(), Payslip: slip})
}

func (api *payrollApi) total(ctx echo.Context) error {
	totals, err := api.svc.TotalPayroll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "totaling payroll")
	}
	return ctx.JSON(http.StatusOK, totals)
}

func (api *payrollApi) updateSalary(ctx echo.Context) error {
	var su payroll.SalaryUpdate
	if err := ctx.Bind(&su); err != nil {
		return errors.Wrap(err, "binding to SalaryUpdate")
	}
	usr, err := api.svc.UpdateSalary(ctx.Request().Context(), ctx.Param("id"), su)
	if err != nil {
		return errors.Wrap(err, "updating salary")
	}
	return ctx.JSON(http.StatusOK, PayslipResponse{User: usr.Public(), Payslip: payroll.Compute(usr.Salary)})
}
