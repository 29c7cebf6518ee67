package report

import (
	"context"
	"math"

	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/leave"
	"github.com/trezcool/hrms/core/payroll"
	"github.com/trezcool/hrms/core/user"
)

type Dashboard struct {
	Date                 string `json:"date"`
	TotalEmployees       int    `json:"totalEmployees"`
	PresentToday         int    `json:"presentToday"`
	AbsentToday          int    `json:"absentToday"`
	AttendancePercentage int    `json:"attendancePercentage"`
	PendingLeaves        int    `json:"pendingLeaves"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type SalaryEntry struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Net    float64 `json:"net"`
}

type Summary struct {
	Attendance    attendance.Counts  `json:"attendance"`
	LeaveTypes    leave.TypeCounts   `json:"leaveTypes"`
	LeaveStatuses leave.StatusCounts `json:"leaveStatuses"`
	Departments   []DepartmentCount  `json:"departments"`
	Salaries      []SalaryEntry      `json:"salaries"`
	Payroll       payroll.Totals     `json:"payroll"`
}

type Service struct {
	users      *user.Service
	attendance *attendance.Service
	leaves     *leave.Service
}

func NewService(users *user.Service, attendanceSvc *attendance.Service, leaves *leave.Service) *Service {
	return &Service{users: users, attendance: attendanceSvc, leaves: leaves}
}

// Dashboard counts the employees (role employee) present on date. Every other employee is counted absent.
func (svc *Service) Dashboard(ctx context.Context, date string) (Dashboard, error) {
	employees, err := svc.users.Employees(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	records, err := svc.attendance.Filter(ctx, attendance.QueryFilter{From: date, To: date, Status: attendance.StatusPresent})
	if err != nil {
		return Dashboard{}, err
	}
	pending, err := svc.leaves.Filter(ctx, leave.QueryFilter{Status: leave.StatusPending})
	if err != nil {
		return Dashboard{}, err
	}

	isEmployee := make(map[string]bool, len(employees))
	for _, emp := range employees {
		isEmployee[emp.ID] = true
	}
	d := Dashboard{
		Date:           date,
		TotalEmployees: len(employees),
		PendingLeaves:  len(pending),
	}
	for _, rec := range records {
		if isEmployee[rec.UserID] {
			d.PresentToday++
		}
	}
	d.AbsentToday = d.TotalEmployees - d.PresentToday
	if d.TotalEmployees > 0 {
		d.AttendancePercentage = int(math.Round(float64(d.PresentToday) / float64(d.TotalEmployees) * 100))
	}
	return d, nil
}

func (svc *Service) Summary(ctx context.Context) (Summary, error) {
	users, err := svc.users.QueryAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	records, err := svc.attendance.QueryAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	requests, err := svc.leaves.QueryAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Attendance:    attendance.CountByStatus(records),
		LeaveTypes:    leave.CountByType(requests),
		LeaveStatuses: leave.CountByStatus(requests),
		Departments:   make([]DepartmentCount, 0),
		Salaries:      make([]SalaryEntry, 0, len(users)),
		Payroll:       payroll.Total(users),
	}

	// departments in order of first appearance
	deptIdx := make(map[string]int)
	for _, usr := range users {
		if i, ok := deptIdx[usr.Department]; ok {
			s.Departments[i].Count++
		} else {
			deptIdx[usr.Department] = len(s.Departments)
			s.Departments = append(s.Departments, DepartmentCount{Department: usr.Department, Count: 1})
		}
		s.Salaries = append(s.Salaries, SalaryEntry{
			UserID: usr.ID,
			Name:   shortName(usr),
			Net:    payroll.Compute(usr.Salary).Net,
		})
	}
	return s, nil
}

// shortName returns "John S." for John Smith.
func shortName(usr user.User) string {
	if usr.LastName == "" {
		return usr.FirstName
	}
	return usr.FirstName + " " + string([]rune(usr.LastName)[0]) + "."
}
