package session

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/user"
)

var (
	// errors
	ErrAccountNotFound   = errors.New("No account found with this email")
	ErrIncorrectPassword = errors.New("Incorrect password")
	ErrNotSignedIn       = errors.New("not signed in")
)

// Session is the signed-in state of one client. User is a copy of the
// account taken at sign-in; see Manager.Current for staleness.
type Session struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	User            *user.User `json:"user"`
}

// Credentials are the login input.
type Credentials struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate, translator ut.Translator) error {
	c.Email = core.CleanString(c.Email)
	return core.Validate(validate, translator, c)
}
