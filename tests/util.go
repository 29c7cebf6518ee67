package testutil

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/user"
	logsvc "github.com/trezcool/hrms/services/logger"
)

// NewConfig returns the TEST configuration.
func NewConfig(t *testing.T) *core.Config {
	if os.Getenv("ENV") == "" {
		_ = os.Setenv("ENV", "TEST")
		t.Cleanup(func() { _ = os.Unsetenv("ENV") })
	}
	return core.NewConfig()
}

// NewLogger returns a logger writing nowhere, with Rollbar disabled.
func NewLogger(t *testing.T) core.Logger {
	conf := NewConfig(t)
	conf.RollbarToken = ""
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

// NewValidator returns a validator with the core and user validators registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

// CreateUser stores a user with a plain credential.
func CreateUser(t *testing.T, svc *user.Service, employeeID, email, pwd, role string) user.User {
	usr := user.NewUser{
		EmployeeID: employeeID,
		Email:      email,
		FirstName:  "First " + employeeID,
		LastName:   "Last",
		Role:       role,
	}.Account(time.Now())
	if pwd != "" {
		if err := usr.SetPassword(pwd, user.PlainHasher{}); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := svc.Create(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}
