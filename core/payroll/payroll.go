package payroll

import (
	"context"
	"math"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/user"
)

// shares of the annual deductions
const (
	taxShare           = 0.60
	providentFundShare = 0.25
	otherShare         = 0.15
)

type Deductions struct {
	Tax           float64 `json:"tax"`
	ProvidentFund float64 `json:"providentFund"`
	Other         float64 `json:"other"`
}

// Payslip is the pay breakdown of one salary. Amounts are annual unless stated otherwise.
type Payslip struct {
	Salary     user.Salary `json:"salary"`
	Gross      float64     `json:"gross"`
	Net        float64     `json:"net"`
	MonthlyNet float64     `json:"monthlyNet"` // rounded
	Deductions Deductions  `json:"deductions"` // rounded
}

func Compute(s user.Salary) Payslip {
	gross := s.Basic + s.HRA + s.Allowances
	net := gross - s.Deductions
	return Payslip{
		Salary:     s,
		Gross:      gross,
		Net:        net,
		MonthlyNet: math.Round(net / 12),
		Deductions: Deductions{
			Tax:           math.Round(s.Deductions * taxShare),
			ProvidentFund: math.Round(s.Deductions * providentFundShare),
			Other:         math.Round(s.Deductions * otherShare),
		},
	}
}

// Totals aggregates the payroll of a set of users.
type Totals struct {
	Headcount  int     `json:"headcount"`
	Basic      float64 `json:"basic"`
	HRA        float64 `json:"hra"`
	Allowances float64 `json:"allowances"`
	Deductions float64 `json:"deductions"`
	Net        float64 `json:"net"`
	MonthlyNet float64 `json:"monthlyNet"` // rounded
	AverageNet float64 `json:"averageNet"` // rounded; 0 without users
}

func Total(users []user.User) Totals {
	t := Totals{Headcount: len(users)}
	for _, usr := range users {
		t.Basic += usr.Salary.Basic
		t.HRA += usr.Salary.HRA
		t.Allowances += usr.Salary.Allowances
		t.Deductions += usr.Salary.Deductions
		t.Net += Compute(usr.Salary).Net
	}
	t.MonthlyNet = math.Round(t.Net / 12)
	if t.Headcount > 0 {
		t.AverageNet = math.Round(t.Net / float64(t.Headcount))
	}
	return t
}

// SalaryUpdate defines the salary amounts to change. Nil fields are left unchanged.
type SalaryUpdate struct {
	Basic      *float64 `json:"basic" validate:"omitempty,gte=0"`
	HRA        *float64 `json:"hra" validate:"omitempty,gte=0"`
	Allowances *float64 `json:"allowances" validate:"omitempty,gte=0"`
	Deductions *float64 `json:"deductions" validate:"omitempty,gte=0"`
}

// Apply returns a copy of orig with the provided amounts replaced.
func (su SalaryUpdate) Apply(orig user.Salary) user.Salary {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&orig.Basic, su.Basic)
	set(&orig.HRA, su.HRA)
	set(&orig.Allowances, su.Allowances)
	set(&orig.Deductions, su.Deductions)
	return orig
}

type Service struct {
	users      *user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func NewService(users *user.Service, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{users: users, validate: validate, translator: translator}
}

// Payslip returns the payslip of the user id.
func (svc *Service) Payslip(ctx context.Context, id string) (Payslip, error) {
	usr, err := svc.users.GetByID(ctx, id)
	if err != nil {
		return Payslip{}, err
	}
	return Compute(usr.Salary), nil
}

// UpdateSalary changes the salary amounts of the user id provided by su.
func (svc *Service) UpdateSalary(ctx context.Context, id string, su SalaryUpdate) (user.User, error) {
	if err := core.Validate(svc.validate, svc.translator, su); err != nil {
		return user.User{}, err
	}
	usr, err := svc.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	usr.Salary = su.Apply(usr.Salary)
	updated, err := svc.users.Update(ctx, usr)
	if err != nil {
		return user.User{}, err
	}
	if !updated { // removed between read and write
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

// TotalPayroll aggregates the payroll of every user.
func (svc *Service) TotalPayroll(ctx context.Context) (Totals, error) {
	users, err := svc.users.QueryAll(ctx)
	if err != nil {
		return Totals{}, err
	}
	return Total(users), nil
}
