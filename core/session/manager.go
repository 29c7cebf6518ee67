package session

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/user"
)

// NowFunc gives the registration date of new accounts.
var NowFunc = time.Now

// Manager signs clients in and out. Its session lives in its own store under
// core.KeySession, or a tab-scoped variant of it (see Scope); accounts live in the user service.
type Manager struct {
	sessions   core.Store
	key        string
	users      *user.Service
	hasher     user.PasswordHasher
	validate   *validator.Validate
	translator ut.Translator
}

func NewManager(
	sessions core.Store,
	users *user.Service,
	hasher user.PasswordHasher,
	validate *validator.Validate,
	translator ut.Translator,
) *Manager {
	if hasher == nil {
		hasher = user.PlainHasher{}
	}
	return &Manager{
		sessions:   sessions,
		key:        core.KeySession,
		users:      users,
		hasher:     hasher,
		validate:   validate,
		translator: translator,
	}
}

// Scope returns a manager sharing m's stores whose session is the one of tabID.
func (m *Manager) Scope(tabID string) *Manager {
	scoped := *m
	scoped.key = core.KeySession + ":" + tabID
	return &scoped
}

func (m *Manager) establish(ctx context.Context, usr user.User) error {
	sess := Session{IsAuthenticated: true, User: &usr}
	return errors.Wrap(m.sessions.Save(ctx, m.key, sess), "saving session")
}

// Register validates nu, creates its account with the defaults of its role
// and signs it in. Nothing is written when validation fails.
func (m *Manager) Register(ctx context.Context, nu user.NewUser) (user.User, error) {
	if err := nu.Validate(ctx, m.validate, m.translator, m.users); err != nil {
		return user.User{}, err
	}

	usr := nu.Account(NowFunc())
	if err := usr.SetPassword(nu.Password, m.hasher); err != nil {
		return user.User{}, err
	}
	usr, err := m.users.Create(ctx, usr)
	if err != nil {
		return user.User{}, err
	}
	if err = m.establish(ctx, usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

// Login signs in the account matching creds.
func (m *Manager) Login(ctx context.Context, creds Credentials) (user.User, error) {
	if err := creds.Validate(m.validate, m.translator); err != nil {
		return user.User{}, err
	}

	usr, err := m.users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, ErrAccountNotFound
	} else if err != nil {
		return user.User{}, err
	}
	if !usr.CheckPassword(creds.Password, m.hasher) {
		return user.User{}, ErrIncorrectPassword
	}

	if err = m.establish(ctx, usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

// Logout clears the session. It is a no-op when signed out.
func (m *Manager) Logout(ctx context.Context) error {
	return errors.Wrap(m.sessions.Delete(ctx, m.key), "deleting session")
}

func (m *Manager) load(ctx context.Context) (Session, error) {
	var sess Session
	err := m.sessions.Load(ctx, m.key, &sess)
	if errors.Is(err, core.ErrSlotNotFound) {
		return Session{}, nil
	} else if err != nil {
		return Session{}, errors.Wrap(err, "loading session")
	}
	if !sess.IsAuthenticated || sess.User == nil {
		return Session{}, nil
	}
	return sess, nil
}

// Current returns the session, and whether its user snapshot differs from the stored account
// (including when the account no longer exists). A signed-out session is never stale.
func (m *Manager) Current(ctx context.Context) (Session, bool, error) {
	sess, err := m.load(ctx)
	if err != nil || !sess.IsAuthenticated {
		return sess, false, err
	}

	usr, err := m.users.GetByID(ctx, sess.User.ID)
	if errors.Is(err, user.ErrNotFound) {
		return sess, true, nil
	} else if err != nil {
		return sess, false, err
	}
	return sess, usr != *sess.User, nil
}

// User returns the signed-in user snapshot.
func (m *Manager) User(ctx context.Context) (user.User, error) {
	sess, err := m.load(ctx)
	if err != nil {
		return user.User{}, err
	}
	if !sess.IsAuthenticated {
		return user.User{}, ErrNotSignedIn
	}
	return *sess.User, nil
}

// Refresh replaces the session snapshot with the stored account.
func (m *Manager) Refresh(ctx context.Context) (Session, error) {
	sess, err := m.load(ctx)
	if err != nil {
		return Session{}, err
	}
	if !sess.IsAuthenticated {
		return Session{}, ErrNotSignedIn
	}

	usr, err := m.users.GetByID(ctx, sess.User.ID)
	if err != nil {
		return sess, err
	}
	if err = m.establish(ctx, usr); err != nil {
		return sess, err
	}
	return Session{IsAuthenticated: true, User: &usr}, nil
}

// UpdateProfile replaces the stored account having usr.ID, and the session snapshot
// when usr is the signed-in user. It reports false, and writes nothing, when no such account exists.
func (m *Manager) UpdateProfile(ctx context.Context, usr user.User) (bool, error) {
	updated, err := m.users.Update(ctx, usr)
	if err != nil || !updated {
		return updated, err
	}

	sess, err := m.load(ctx)
	if err != nil {
		return true, err
	}
	if sess.IsAuthenticated && sess.User.ID == usr.ID {
		return true, m.establish(ctx, usr)
	}
	return true, nil
}

func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	sess, err := m.load(ctx)
	return err == nil && sess.IsAuthenticated
}

func (m *Manager) IsAdmin(ctx context.Context) bool {
	sess, err := m.load(ctx)
	return err == nil && sess.IsAuthenticated && sess.User.IsAdmin()
}

func (m *Manager) IsEmployee(ctx context.Context) bool {
	sess, err := m.load(ctx)
	return err == nil && sess.IsAuthenticated && sess.User.IsEmployee()
}
