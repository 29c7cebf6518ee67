package report

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/user"
)

const (
	attendanceSheet = "Attendance"
	summarySheet    = "Summary"
)

var attendanceHeader = []interface{}{"Date", "Employee ID", "Name", "Department", "Check In", "Check Out", "Status"}

// ExportAttendance writes an xlsx workbook of the records matching filter, most recent first,
// with a per-status summary sheet.
func (svc *Service) ExportAttendance(ctx context.Context, w io.Writer, filter attendance.QueryFilter) error {
	records, err := svc.attendance.Filter(ctx, filter)
	if err != nil {
		return err
	}
	users, err := svc.users.QueryAll(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]user.User, len(users))
	for _, usr := range users {
		byID[usr.ID] = usr
	}
	attendance.SortByDateDesc(records)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err = f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	if err = f.SetSheetRow(attendanceSheet, "A1", &attendanceHeader); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for i, rec := range records {
		usr, ok := byID[rec.UserID]
		name := "Unknown"
		if ok {
			name = usr.FullName()
		}
		row := []interface{}{rec.Date, usr.EmployeeID, name, usr.Department, rec.CheckIn.String, rec.CheckOut.String, rec.Status}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "locating row")
		}
		if err = f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing record %s", rec.ID)
		}
	}

	if _, err = f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "creating summary sheet")
	}
	counts := attendance.CountByStatus(records)
	summary := [][]interface{}{
		{"Status", "Count"},
		{attendance.StatusPresent, counts.Present},
		{attendance.StatusAbsent, counts.Absent},
		{attendance.StatusHalfDay, counts.HalfDay},
		{attendance.StatusLeave, counts.Leave},
		{"total", len(records)},
	}
	for i := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err = f.SetSheetRow(summarySheet, cell, &summary[i]); err != nil {
			return errors.Wrap(err, "writing summary")
		}
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
