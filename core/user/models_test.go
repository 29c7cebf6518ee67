package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/user"
	"github.com/trezcool/hrms/storage/kvstore/memory"
	"github.com/trezcool/hrms/tests"
)

func validNewUser() user.NewUser {
	return user.NewUser{
		EmployeeID: "EMP100",
		Email:      "a@x.com",
		Password:   "Passw0rd!",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Role:       user.RoleAdmin,
	}
}

func TestNewUser_Validate(t *testing.T) {
	ctx := context.Background()
	validate, translator := testutil.NewValidator()
	svc := user.NewService(memory.New())
	testutil.CreateUser(t, svc, "EMP001", "admin@company.com", "Admin@123", user.RoleAdmin)

	tests := []struct {
		name    string
		mutate  func(nu *user.NewUser)
		wantErr string
		wantIs  error
	}{
		{name: "valid", mutate: func(nu *user.NewUser) {}},
		{name: "short employee id", mutate: func(nu *user.NewUser) { nu.EmployeeID = "E1" }, wantErr: "Employee ID must be at least 3 characters"},
		{name: "long employee id", mutate: func(nu *user.NewUser) { nu.EmployeeID = "EMP0000000000000000001" }, wantErr: "Employee ID must be less than 20 characters"},
		{name: "bad email", mutate: func(nu *user.NewUser) { nu.Email = "nope" }, wantErr: "Invalid email address"},
		{name: "empty email", mutate: func(nu *user.NewUser) { nu.Email = "" }, wantErr: "Invalid email address"},
		{name: "short password", mutate: func(nu *user.NewUser) { nu.Password = "weak" }, wantErr: "Password must be at least 8 characters"},
		{name: "no uppercase", mutate: func(nu *user.NewUser) { nu.Password = "passw0rd!" }, wantErr: "Password must contain at least one uppercase letter"},
		{name: "no lowercase", mutate: func(nu *user.NewUser) { nu.Password = "PASSW0RD!" }, wantErr: "Password must contain at least one lowercase letter"},
		{name: "no digit", mutate: func(nu *user.NewUser) { nu.Password = "Password!" }, wantErr: "Password must contain at least one number"},
		{name: "no special", mutate: func(nu *user.NewUser) { nu.Password = "Passw0rdd" }, wantErr: "Password must contain at least one special character"},
		{name: "first rule wins", mutate: func(nu *user.NewUser) { nu.EmployeeID = "E"; nu.Password = "weak" }, wantErr: "Employee ID must be at least 3 characters"},
		{name: "blank first name", mutate: func(nu *user.NewUser) { nu.FirstName = "  " }, wantErr: "First name is required"},
		{name: "blank last name", mutate: func(nu *user.NewUser) { nu.LastName = "" }, wantErr: "Last name is required"},
		{name: "bad role", mutate: func(nu *user.NewUser) { nu.Role = "root" }, wantErr: "Role must be one of: employee admin"},
		{name: "duplicate email", mutate: func(nu *user.NewUser) { nu.Email = "Admin@Company.com" }, wantErr: "An account with this email already exists", wantIs: user.ErrEmailExists},
		{name: "duplicate employee id", mutate: func(nu *user.NewUser) { nu.EmployeeID = "emp001" }, wantErr: "This Employee ID is already registered", wantIs: user.ErrEmployeeIDExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := validNewUser()
			tt.mutate(&nu)
			err := nu.Validate(ctx, validate, translator, svc)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %s", err, tt.wantErr)
			}
			if !core.IsValidationError(err) {
				t.Errorf("Validate() error = %T, want *core.ValidationError", err)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
		})
	}
}

func TestNewUser_Account(t *testing.T) {
	joined := time.Date(2024, 5, 6, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		role            string
		wantDepartment  string
		wantDesignation string
		wantSalary      user.Salary
	}{
		{user.RoleAdmin, "Human Resources", "HR Manager", user.Salary{Basic: 60000, HRA: 12000, Allowances: 8000, Deductions: 6000}},
		{user.RoleEmployee, "General", "Employee", user.Salary{Basic: 45000, HRA: 9000, Allowances: 6000, Deductions: 4500}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			nu := validNewUser()
			nu.Role = tt.role
			usr := nu.Account(joined)

			if usr.Department != tt.wantDepartment || usr.Designation != tt.wantDesignation || usr.Salary != tt.wantSalary {
				t.Errorf("Account() = %+v", usr)
			}
			if usr.JoiningDate != "2024-05-06" {
				t.Errorf("JoiningDate = %q, want %q", usr.JoiningDate, "2024-05-06")
			}
			if usr.Phone != "" || usr.Address != "" || usr.ProfilePicture != "" || usr.Password != "" {
				t.Errorf("Account() has unexpected fields set: %+v", usr)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	validate, translator := testutil.NewValidator()
	phone, blank, dept := " +1 234 ", " ", "Finance"

	uu := user.UpdateUser{Phone: &phone}
	if err := uu.Validate(validate, translator); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}
	if uu.HasAdminFields() {
		t.Error("HasAdminFields() = true, want false")
	}
	got := uu.Apply(user.User{FirstName: "Jane", Phone: "old"})
	if got.Phone != "+1 234" || got.FirstName != "Jane" {
		t.Errorf("Apply() = %+v", got)
	}

	uu = user.UpdateUser{FirstName: &blank}
	if err := uu.Validate(validate, translator); err == nil || err.Error() != "First name is required" {
		t.Errorf("Validate() error = %v, wantErr %s", err, "First name is required")
	}

	uu = user.UpdateUser{Department: &dept}
	if !uu.HasAdminFields() {
		t.Error("HasAdminFields() = false, want true")
	}
}

func TestUser_Public(t *testing.T) {
	usr := user.User{ID: "1", Password: "secret"}
	if usr.Public().Password != "" {
		t.Error("Public() kept the credential")
	}
	if usr.Password != "secret" {
		t.Error("Public() modified the receiver")
	}
}

func TestNewPassword_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		pwd     string
		wantErr string
	}{
		{pwd: "Passw0rd!"},
		{pwd: "Pa0!", wantErr: "Password must be at least 8 characters"},
		{pwd: "passw0rd!", wantErr: "Password must contain at least one uppercase letter"},
		{pwd: "Password!", wantErr: "Password must contain at least one number"},
	}
	for _, tt := range tests {
		t.Run(tt.pwd, func(t *testing.T) {
			np := user.NewPassword{Password: tt.pwd}
			err := np.Validate(validate, translator)
			if (err != nil) != (tt.wantErr != "") {
				t.Fatalf("Validate() error = %v, wantErr %q", err, tt.wantErr)
			}
			if err != nil && err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %q, wantErr %q", err.Error(), tt.wantErr)
			}
		})
	}
}
