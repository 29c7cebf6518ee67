package user

import (
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Password hashers
const (
	HasherPlain  = "plain"
	HasherBcrypt = "bcrypt"
)

var ErrUnknownHasher = errors.New("unknown password hasher")

// PasswordHasher turns a password into its stored credential and checks candidates against it.
type PasswordHasher interface {
	Hash(pwd string) (string, error)
	Compare(stored, pwd string) bool
}

// PlainHasher stores passwords as-is. It keeps stores written by earlier
// deployments (and the seed data) readable.
type PlainHasher struct{}

var _ PasswordHasher = PlainHasher{}

func (PlainHasher) Hash(pwd string) (string, error) { return pwd, nil }

func (PlainHasher) Compare(stored, pwd string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(pwd)) == 1
}

type BcryptHasher struct {
	Cost int
}

var _ PasswordHasher = BcryptHasher{}

func (h BcryptHasher) Hash(pwd string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

func (BcryptHasher) Compare(stored, pwd string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pwd)) == nil
}

// NewHasher returns the hasher configured by name ("plain" or "bcrypt").
func NewHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", HasherPlain:
		return PlainHasher{}, nil
	case HasherBcrypt:
		return BcryptHasher{}, nil
	}
	return nil, errors.Wrap(ErrUnknownHasher, name)
}
