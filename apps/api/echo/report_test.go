package echoapi

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/hrms/core/report"
)

func Test_reportApi(t *testing.T) {
	f := setup(t)
	adminToken := f.login(t, adminEmail, adminPwd).Token
	johnToken := f.login(t, johnEmail, johnPwd).Token

	f.run(t, []httpTest{
		{
			name: "check-in", method: http.MethodPost, path: "/v1/attendance/check-in", token: johnToken, wantCode: http.StatusOK,
		},
		{name: "Admin required", path: "/v1/reports/dashboard", token: johnToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{
			name: "dashboard", path: "/v1/reports/dashboard?date=2024-03-06", token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, report.Dashboard{
				Date:                 "2024-03-06",
				TotalEmployees:       2,
				PresentToday:         1,
				AbsentToday:          1,
				AttendancePercentage: 50,
				PendingLeaves:        1,
			}),
		},
		{name: "dashboard defaults to today", path: "/v1/reports/dashboard", token: adminToken, wantCode: http.StatusOK},
	})

	t.Run("summary", func(t *testing.T) {
		rec := f.do(t, httpTest{path: "/v1/reports/summary", token: adminToken})
		var s report.Summary
		unmarshal(t, rec, &s)
		if s.Attendance.Present != 1 || len(s.Departments) != 3 || len(s.Salaries) != 3 {
			t.Errorf("summary = %+v", s)
		}
	})

	t.Run("attendance export", func(t *testing.T) {
		rec := f.do(t, httpTest{path: "/v1/reports/attendance.xlsx?from=2024-03-01", token: adminToken})
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxMIMEType {
			t.Errorf("Content-Type = %q", ct)
		}

		wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		if err != nil {
			t.Fatalf("excelize.OpenReader() failed: %v", err)
		}
		defer func() { _ = wb.Close() }()
		rows, err := wb.GetRows("Attendance")
		if err != nil {
			t.Fatalf("GetRows() failed: %v", err)
		}
		if len(rows) != 2 || rows[1][1] != "EMP002" {
			t.Errorf("rows = %v", rows)
		}
	})
}
