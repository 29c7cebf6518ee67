package seed

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/leave"
	"github.com/trezcool/hrms/core/user"
)

// attendance history generated for every seeded user
const historyDays = 30

// weighted: present is four times as likely as each other status
var attendanceStatuses = []string{
	attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent, attendance.StatusPresent,
	attendance.StatusHalfDay, attendance.StatusAbsent, attendance.StatusLeave,
}

// seedUser pairs an account with its plain password.
type seedUser struct {
	user.User
	password string
}

var users = []seedUser{
	{
		User: user.User{
			ID:          "1",
			EmployeeID:  "EMP001",
			Email:       "admin@company.com",
			Role:        user.RoleAdmin,
			FirstName:   "Sarah",
			LastName:    "Johnson",
			Phone:       "+1 234 567 8900",
			Address:     "123 Corporate Drive, Business City, BC 12345",
			Department:  "Human Resources",
			Designation: "HR Manager",
			JoiningDate: "2020-01-15",
			Salary:      user.Salary{Basic: 75000, HRA: 15000, Allowances: 10000, Deductions: 8000},
		},
		password: "Admin@123",
	},
	{
		User: user.User{
			ID:          "2",
			EmployeeID:  "EMP002",
			Email:       "john@company.com",
			Role:        user.RoleEmployee,
			FirstName:   "John",
			LastName:    "Smith",
			Phone:       "+1 234 567 8901",
			Address:     "456 Employee Lane, Work Town, WT 67890",
			Department:  "Engineering",
			Designation: "Software Engineer",
			JoiningDate: "2021-03-20",
			Salary:      user.Salary{Basic: 60000, HRA: 12000, Allowances: 8000, Deductions: 6000},
		},
		password: "John@123",
	},
	{
		User: user.User{
			ID:          "3",
			EmployeeID:  "EMP003",
			Email:       "jane@company.com",
			Role:        user.RoleEmployee,
			FirstName:   "Jane",
			LastName:    "Doe",
			Phone:       "+1 234 567 8902",
			Address:     "789 Staff Street, Office City, OC 11223",
			Department:  "Marketing",
			Designation: "Marketing Specialist",
			JoiningDate: "2022-06-10",
			Salary:      user.Salary{Basic: 55000, HRA: 11000, Allowances: 7000, Deductions: 5500},
		},
		password: "Jane@123",
	},
}

var leaveRequests = []leave.Request{
	{
		ID:           "1",
		UserID:       "2",
		EmployeeName: "John Smith",
		LeaveType:    leave.TypePaid,
		StartDate:    "2024-02-01",
		EndDate:      "2024-02-03",
		Remarks:      "Family vacation",
		Status:       leave.StatusApproved,
		AdminComment: "Approved. Enjoy your vacation!",
		CreatedAt:    "2024-01-25",
	},
	{
		ID:           "2",
		UserID:       "3",
		EmployeeName: "Jane Doe",
		LeaveType:    leave.TypeSick,
		StartDate:    "2024-02-10",
		EndDate:      "2024-02-11",
		Remarks:      "Not feeling well",
		Status:       leave.StatusPending,
		CreatedAt:    "2024-02-09",
	},
	{
		ID:           "3",
		UserID:       "2",
		EmployeeName: "John Smith",
		LeaveType:    leave.TypeUnpaid,
		StartDate:    "2024-03-15",
		EndDate:      "2024-03-20",
		Remarks:      "Personal matters",
		Status:       leave.StatusRejected,
		AdminComment: "Cannot approve during project deadline",
		CreatedAt:    "2024-03-01",
	},
}

// Options tune Initialize. The zero value uses plain credentials, the current time and a time-seeded source.
type Options struct {
	Hasher user.PasswordHasher
	Now    time.Time
	Rand   *rand.Rand
}

// Result reports which slots Initialize wrote.
type Result struct {
	Users      bool
	Attendance bool
	Leave      bool
}

// Users returns the seeded accounts with their credential set through hasher.
func Users(hasher user.PasswordHasher) ([]user.User, error) {
	accounts := make([]user.User, 0, len(users))
	for _, su := range users {
		usr := su.User
		if err := usr.SetPassword(su.password, hasher); err != nil {
			return nil, errors.Wrapf(err, "seeding %s", usr.Email)
		}
		accounts = append(accounts, usr)
	}
	return accounts, nil
}

// LeaveRequests returns the seeded leave requests.
func LeaveRequests() []leave.Request {
	return append([]leave.Request(nil), leaveRequests...)
}

// Attendance generates, for every seeded user, one record per weekday of the
// historyDays days before now, and today. Statuses are drawn from rnd.
func Attendance(now time.Time, rnd *rand.Rand) []attendance.Record {
	records := make([]attendance.Record, 0)
	for _, su := range users {
		for i := historyDays; i >= 0; i-- {
			day := now.UTC().AddDate(0, 0, -i)
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			date := core.FormatDate(day)
			status := attendanceStatuses[rnd.Intn(len(attendanceStatuses))]

			rec := attendance.Record{
				ID:     attendance.RecordID(su.ID, date),
				Date:   date,
				UserID: su.ID,
				Status: status,
			}
			switch status {
			case attendance.StatusPresent:
				rec.CheckIn, rec.CheckOut = null.StringFrom("09:00"), null.StringFrom("18:00")
			case attendance.StatusHalfDay:
				rec.CheckIn, rec.CheckOut = null.StringFrom("09:00"), null.StringFrom("13:00")
			}
			records = append(records, rec)
		}
	}
	return records
}

// Initialize writes the seed collections into store. Each durable slot is written only if
// it is absent: an existing collection, even empty, is left alone.
func Initialize(ctx context.Context, store core.Store, opts Options) (Result, error) {
	var res Result
	if opts.Hasher == nil {
		opts.Hasher = user.PlainHasher{}
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}

	seedSlot := func(key string, build func() (interface{}, error)) (bool, error) {
		exists, err := store.Exists(ctx, key)
		if err != nil || exists {
			return false, err
		}
		v, err := build()
		if err != nil {
			return false, err
		}
		if err = store.Save(ctx, key, v); err != nil {
			return false, errors.Wrapf(err, "seeding %s", key)
		}
		return true, nil
	}

	var err error
	if res.Users, err = seedSlot(core.KeyUsers, func() (interface{}, error) {
		return Users(opts.Hasher)
	}); err != nil {
		return res, err
	}
	if res.Attendance, err = seedSlot(core.KeyAttendance, func() (interface{}, error) {
		return Attendance(opts.Now, opts.Rand), nil
	}); err != nil {
		return res, err
	}
	if res.Leave, err = seedSlot(core.KeyLeaveRequests, func() (interface{}, error) {
		return LeaveRequests(), nil
	}); err != nil {
		return res, err
	}
	return res, nil
}
