package user

import (
	"context"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hrms/core"
)

// Roles
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

var (
	AllRoles = []string{RoleEmployee, RoleAdmin}

	Roles = []Role{
		{Name: "Employee", Value: RoleEmployee},
		{Name: "Admin", Value: RoleAdmin},
	}

	// role defaults applied at registration
	roleDefaults = map[string]struct {
		department  string
		designation string
		salary      Salary
	}{
		RoleAdmin: {
			department:  "Human Resources",
			designation: "HR Manager",
			salary:      Salary{Basic: 60000, HRA: 12000, Allowances: 8000, Deductions: 6000},
		},
		RoleEmployee: {
			department:  "General",
			designation: "Employee",
			salary:      Salary{Basic: 45000, HRA: 9000, Allowances: 6000, Deductions: 4500},
		},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Salary holds annual amounts in a single currency unit.
type Salary struct {
	Basic      float64 `json:"basic" validate:"gte=0"`
	HRA        float64 `json:"hra" validate:"gte=0"`
	Allowances float64 `json:"allowances" validate:"gte=0"`
	Deductions float64 `json:"deductions" validate:"gte=0"`
}

type User struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employeeId"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"` // stored credential, see PasswordHasher
	Role           string `json:"role"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Department     string `json:"department"`
	Designation    string `json:"designation"`
	JoiningDate    string `json:"joiningDate"` // YYYY-MM-DD
	ProfilePicture string `json:"profilePicture"`
	Salary         Salary `json:"salary"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool    { return u.Role == RoleAdmin }
func (u User) IsEmployee() bool { return u.Role == RoleEmployee }

// Public returns a copy of the user without its credential.
func (u User) Public() User {
	u.Password = ""
	return u
}

// SetPassword stores pwd through the given hasher.
func (u *User) SetPassword(pwd string, hasher PasswordHasher) error {
	stored, err := hasher.Hash(pwd)
	if err != nil {
		return err
	}
	u.Password = stored
	return nil
}

func (u *User) CheckPassword(pwd string, hasher PasswordHasher) bool {
	return hasher.Compare(u.Password, pwd)
}

// NewUser contains information needed to register a new User.
// Field order matters: the first violated rule is reported.
type NewUser struct {
	EmployeeID string `json:"employeeId" validate:"min=3,max=20"`
	Email      string `json:"email" validate:"email,max=100"`
	Password   string `json:"password" validate:"min=8,max=50,pwdupper,pwdlower,pwddigit,pwdspecial"`
	FirstName  string `json:"firstName" validate:"notblank,max=50"`
	LastName   string `json:"lastName" validate:"notblank,max=50"`
	Role       string `json:"role" validate:"oneof=employee admin"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, translator ut.Translator, svc *Service) error {
	nu.EmployeeID = core.CleanString(nu.EmployeeID)
	nu.Email = core.CleanString(nu.Email)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := core.Validate(validate, translator, nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email, nu.EmployeeID)
}

// Account builds the User registered from nu, with the defaults of its role.
// The credential is left empty; see User.SetPassword.
func (nu NewUser) Account(joinedAt time.Time) User {
	def := roleDefaults[nu.Role]
	return User{
		EmployeeID:  nu.EmployeeID,
		Email:       nu.Email,
		Role:        nu.Role,
		FirstName:   nu.FirstName,
		LastName:    nu.LastName,
		Department:  def.department,
		Designation: def.designation,
		JoiningDate: core.FormatDate(joinedAt),
		Salary:      def.salary,
	}
}

// NewPassword is a password chosen for an existing account. It follows the registration policy.
type NewPassword struct {
	Password string `json:"password" validate:"min=8,max=50,pwdupper,pwdlower,pwddigit,pwdspecial"`
}

func (np *NewPassword) Validate(validate *validator.Validate, translator ut.Translator) error {
	return core.Validate(validate, translator, np)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Nil fields are left unchanged.
type UpdateUser struct {
	FirstName      *string `json:"firstName" validate:"omitempty,notblank,max=50"`
	LastName       *string `json:"lastName" validate:"omitempty,notblank,max=50"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Address        *string `json:"address" validate:"omitempty,max=200"`
	Department     *string `json:"department" validate:"omitempty,notblank,max=50"`
	Designation    *string `json:"designation" validate:"omitempty,notblank,max=50"`
	ProfilePicture *string `json:"profilePicture"`
}

// HasAdminFields reports whether uu changes fields only an admin may change.
func (uu UpdateUser) HasAdminFields() bool {
	return uu.Department != nil || uu.Designation != nil
}

func (uu *UpdateUser) Validate(validate *validator.Validate, translator ut.Translator) error {
	for _, s := range []*string{uu.FirstName, uu.LastName, uu.Phone, uu.Address, uu.Department, uu.Designation} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	return core.Validate(validate, translator, uu)
}

// Apply returns a copy of orig with the provided fields replaced.
func (uu UpdateUser) Apply(orig User) User {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&orig.FirstName, uu.FirstName)
	set(&orig.LastName, uu.LastName)
	set(&orig.Phone, uu.Phone)
	set(&orig.Address, uu.Address)
	set(&orig.Department, uu.Department)
	set(&orig.Designation, uu.Designation)
	set(&orig.ProfilePicture, uu.ProfilePicture)
	return orig
}

type QueryFilter struct {
	Search     string `query:"search"`
	Role       string `query:"role"`
	Department string `query:"department"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.Department == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
	qf.Department = core.CleanString(qf.Department)
}
