package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/user"
	"github.com/trezcool/hrms/storage/kvstore/memory"
	"github.com/trezcool/hrms/tests"
)

var ctx = context.Background()

func setup(t *testing.T) (*user.Service, *memory.Store) {
	store := memory.New()
	return user.NewService(store), store
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)

	usr := testutil.CreateUser(t, svc, "EMP001", "admin@company.com", "Admin@123", user.RoleAdmin)
	if usr.ID == "" {
		t.Error("Create() did not assign an ID")
	}

	seeded, err := svc.Create(ctx, user.User{ID: "2", EmployeeID: "EMP002", Email: "john@company.com"})
	if err != nil || seeded.ID != "2" {
		t.Errorf("Create() = %+v, %v; want ID 2", seeded, err)
	}

	tests := []struct {
		name    string
		usr     user.User
		wantErr error
	}{
		{name: "duplicate email", usr: user.User{EmployeeID: "EMP009", Email: "JOHN@company.com"}, wantErr: user.ErrEmailExists},
		{name: "duplicate employee id", usr: user.User{EmployeeID: "emp002", Email: "new@company.com"}, wantErr: user.ErrEmployeeIDExists},
		{name: "no email", usr: user.User{EmployeeID: "EMP009"}, wantErr: user.ErrMissingEmail},
		{name: "no employee id", usr: user.User{Email: "new@company.com"}, wantErr: user.ErrMissingEmployeeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.usr); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	users, _ := svc.QueryAll(ctx)
	if len(users) != 2 {
		t.Errorf("len(QueryAll()) = %d, want 2", len(users))
	}
}

func TestService_Getters(t *testing.T) {
	svc, _ := setup(t)
	john := testutil.CreateUser(t, svc, "EMP002", "john@company.com", "John@123", user.RoleEmployee)

	tests := []struct {
		name    string
		get     func() (user.User, error)
		wantErr error
	}{
		{name: "by id", get: func() (user.User, error) { return svc.GetByID(ctx, john.ID) }},
		{name: "by id: unknown", get: func() (user.User, error) { return svc.GetByID(ctx, "404") }, wantErr: user.ErrNotFound},
		{name: "by email", get: func() (user.User, error) { return svc.GetByEmail(ctx, "john@company.com") }},
		{name: "by email: case-insensitive", get: func() (user.User, error) { return svc.GetByEmail(ctx, " John@Company.COM ") }},
		{name: "by email: not a prefix match", get: func() (user.User, error) { return svc.GetByEmail(ctx, "john@company") }, wantErr: user.ErrNotFound},
		{name: "by employee id", get: func() (user.User, error) { return svc.GetByEmployeeID(ctx, "emp002") }},
		{name: "by employee id: unknown", get: func() (user.User, error) { return svc.GetByEmployeeID(ctx, "EMP003") }, wantErr: user.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != john.ID {
				t.Errorf("get() = %+v, want %+v", got, john)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, store := setup(t)

	updated, err := svc.Update(ctx, user.User{ID: "ghost", Email: "ghost@x.com"})
	if err != nil || updated {
		t.Errorf("Update() = %v, %v; want false, nil", updated, err)
	}
	if _, ok := store.Raw(core.KeyUsers); ok {
		t.Error("Update() of an unknown user wrote the collection")
	}

	jane := testutil.CreateUser(t, svc, "EMP003", "jane@company.com", "Jane@123", user.RoleEmployee)
	jane.Phone = "+1 234 567 8902"
	if updated, err = svc.Update(ctx, jane); err != nil || !updated {
		t.Errorf("Update() = %v, %v; want true, nil", updated, err)
	}
	if got, _ := svc.GetByID(ctx, jane.ID); got.Phone != jane.Phone {
		t.Errorf("Phone = %q, want %q", got.Phone, jane.Phone)
	}
}

func TestService_Update_Uniqueness(t *testing.T) {
	svc, _ := setup(t)
	testutil.CreateUser(t, svc, "EMP002", "john@company.com", "John@123", user.RoleEmployee)
	jane := testutil.CreateUser(t, svc, "EMP003", "jane@company.com", "Jane@123", user.RoleEmployee)

	tests := []struct {
		name    string
		email   string
		empID   string
		wantErr error
	}{
		{name: "taken email", email: "JOHN@company.com", empID: "EMP003", wantErr: user.ErrEmailExists},
		{name: "taken employee ID", email: "jane@company.com", empID: "emp002", wantErr: user.ErrEmployeeIDExists},
		{name: "own values", email: "jane@company.com", empID: "EMP003"},
		{name: "free values", email: "jane.doe@company.com", empID: "EMP004"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := jane
			usr.Email, usr.EmployeeID = tt.email, tt.empID

			updated, err := svc.Update(ctx, usr)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				assert.True(t, core.IsValidationError(err))
				assert.False(t, updated)
				return
			}
			assert.True(t, updated)
			jane = usr
		})
	}

	johns, _ := svc.Filter(ctx, user.QueryFilter{Search: "john@company.com"})
	assert.Len(t, johns, 1)
	got, _ := svc.GetByID(ctx, jane.ID)
	assert.Equal(t, "jane.doe@company.com", got.Email)
	assert.Equal(t, "EMP004", got.EmployeeID)
}

func TestService_CheckUniqueness(t *testing.T) {
	svc, _ := setup(t)
	john := testutil.CreateUser(t, svc, "EMP002", "john@company.com", "John@123", user.RoleEmployee)

	if err := svc.CheckUniqueness(ctx, "john@company.com", "EMP002", john); err != nil {
		t.Errorf("CheckUniqueness() excluding john error = %v", err)
	}
	// email is checked first
	err := svc.CheckUniqueness(ctx, "john@company.com", "EMP002")
	if !errors.Is(err, user.ErrEmailExists) {
		t.Errorf("CheckUniqueness() error = %v, wantErr %v", err, user.ErrEmailExists)
	}
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) || len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
		t.Errorf("CheckUniqueness() error = %#v", err)
	}
}

func TestService_Filter(t *testing.T) {
	svc, _ := setup(t)
	admin := testutil.CreateUser(t, svc, "EMP001", "admin@company.com", "Admin@123", user.RoleAdmin)
	john := testutil.CreateUser(t, svc, "EMP002", "john@company.com", "John@123", user.RoleEmployee)
	jane := testutil.CreateUser(t, svc, "EMP003", "jane@company.com", "Jane@123", user.RoleEmployee)

	tests := []struct {
		name   string
		filter user.QueryFilter
		want   []user.User
	}{
		{name: "no filter", want: []user.User{admin, john, jane}},
		{name: "role", filter: user.QueryFilter{Role: "Employee"}, want: []user.User{john, jane}},
		{name: "search email", filter: user.QueryFilter{Search: "JANE@"}, want: []user.User{jane}},
		{name: "search employee id", filter: user.QueryFilter{Search: "emp00"}, want: []user.User{admin, john, jane}},
		{name: "search name", filter: user.QueryFilter{Search: "first emp001"}, want: []user.User{admin}},
		{name: "department", filter: user.QueryFilter{Department: "human resources"}, want: []user.User{admin}},
		{name: "and", filter: user.QueryFilter{Role: user.RoleAdmin, Search: "john"}, want: []user.User{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Filter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Filter() unexpected error = %v", err)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	employees, _ := svc.Employees(ctx)
	assert.ElementsMatch(t, []user.User{john, jane}, employees)
}
