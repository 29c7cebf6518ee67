package user

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
)

var (
	// errors
	ErrNotFound          = errors.New("user not found")
	ErrEmailExists       = errors.New("An account with this email already exists")
	ErrEmployeeIDExists  = errors.New("This Employee ID is already registered")
	ErrMissingEmployeeID = errors.New("employee ID is required")
	ErrMissingEmail      = errors.New("email is required")
)

// Service is the accessor of the users collection.
// Every call reads the whole collection from the store; writes replace it.
type Service struct {
	store core.Store
	mu    sync.Mutex // serializes read-modify-write cycles within the process
}

func NewService(store core.Store) *Service {
	return &Service{store: store}
}

func (svc *Service) load(ctx context.Context) ([]User, error) {
	users := make([]User, 0)
	if err := core.LoadCollection(ctx, svc.store, core.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (svc *Service) save(ctx context.Context, users []User) error {
	return errors.Wrap(svc.store.Save(ctx, core.KeyUsers, users), "saving users")
}

// QueryAll returns every user in stored order.
func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.load(ctx)
}

func (svc *Service) find(ctx context.Context, match func(User) bool) (User, error) {
	users, err := svc.load(ctx)
	if err != nil {
		return User{}, err
	}
	for _, usr := range users {
		if match(usr) {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.find(ctx, func(u User) bool { return u.ID == id })
}

// GetByEmail and GetByEmployeeID match case-insensitively.
func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	email = core.CleanString(email)
	return svc.find(ctx, func(u User) bool { return strings.EqualFold(u.Email, email) })
}

func (svc *Service) GetByEmployeeID(ctx context.Context, employeeID string) (User, error) {
	employeeID = core.CleanString(employeeID)
	return svc.find(ctx, func(u User) bool { return strings.EqualFold(u.EmployeeID, employeeID) })
}

// CheckUniqueness returns a *core.ValidationError wrapping ErrEmailExists or ErrEmployeeIDExists
// when another user (not in excludedUsers) already holds the email or the employee ID.
// The email is checked first.
func (svc *Service) CheckUniqueness(ctx context.Context, email, employeeID string, excludedUsers ...User) error {
	users, err := svc.load(ctx)
	if err != nil {
		return err
	}
	return checkUniqueness(users, email, employeeID, excludedUsers...)
}

func checkUniqueness(users []User, email, employeeID string, excludedUsers ...User) error {
	isExcluded := func(usr User) bool {
		for _, excl := range excludedUsers {
			if excl.ID == usr.ID {
				return true
			}
		}
		return false
	}

	for _, usr := range users {
		if strings.EqualFold(usr.Email, email) && !isExcluded(usr) {
			return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
	}
	for _, usr := range users {
		if strings.EqualFold(usr.EmployeeID, employeeID) && !isExcluded(usr) {
			return core.NewValidationError(ErrEmployeeIDExists, core.FieldError{Field: "employeeId", Error: ErrEmployeeIDExists.Error()})
		}
	}
	return nil
}

// Create appends usr to the collection, assigning it an ID when it has none.
// Uniqueness is re-checked under the write lock.
func (svc *Service) Create(ctx context.Context, usr User) (User, error) {
	if usr.Email == "" {
		return User{}, ErrMissingEmail
	}
	if usr.EmployeeID == "" {
		return User{}, ErrMissingEmployeeID
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	users, err := svc.load(ctx)
	if err != nil {
		return User{}, err
	}
	if err := checkUniqueness(users, usr.Email, usr.EmployeeID); err != nil {
		return User{}, err
	}
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}

	users = append(users, usr)
	if err := svc.save(ctx, users); err != nil {
		return User{}, err
	}
	return usr, nil
}

// Update replaces the stored user having usr.ID. It reports false, and writes nothing,
// when no such user exists. Uniqueness is re-checked under the write lock.
func (svc *Service) Update(ctx context.Context, usr User) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	users, err := svc.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID == usr.ID {
			if err := checkUniqueness(users, usr.Email, usr.EmployeeID, usr); err != nil {
				return false, err
			}
			users[i] = usr
			return true, svc.save(ctx, users)
		}
	}
	return false, nil
}

// Filter applies AND operation on available QueryFilter fields.
// QueryFilter.Search does a case-insensitive match on the full name, email or employee ID.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	users, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	filter.Clean()
	if filter.IsEmpty() {
		return users, nil
	}

	filtered := make([]User, 0, len(users))
	for _, usr := range users {
		if filter.Role != "" && usr.Role != filter.Role {
			continue
		}
		if filter.Department != "" && !strings.EqualFold(usr.Department, filter.Department) {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(usr.FullName()), filter.Search) &&
			!strings.Contains(strings.ToLower(usr.Email), filter.Search) &&
			!strings.Contains(strings.ToLower(usr.EmployeeID), filter.Search) {
			continue
		}
		filtered = append(filtered, usr)
	}
	return filtered, nil
}

// Employees returns the users having the employee role.
func (svc *Service) Employees(ctx context.Context) ([]User, error) {
	return svc.Filter(ctx, QueryFilter{Role: RoleEmployee})
}
