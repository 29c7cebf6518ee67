package echoapi

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/session"
	"github.com/trezcool/hrms/core/user"
)

const (
	// headerTabID names the client tab owning a session. Sessions of different tabs are independent.
	headerTabID = "X-Tab-ID"

	audience          = "HRMS"
	contextUserKey    = "user"
	contextSessionKey = "session"
)

var nowFunc = time.Now

// Claims represents the authorization claims transmitted via a JWT.
// The session of TabID is the source of truth: a token outliving its session is rejected.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	TabID        string `json:"tab"`
	EmployeeID   string `json:"employeeId,omitempty"`
	Email        string `json:"email,omitempty"`
	IsAdmin      bool   `json:"isAdmin,omitempty"`
}

type authenticator struct {
	conf      *core.Config
	sessions  *session.Manager
	jwtConfig middleware.JWTConfig
}

func newAuthenticator(conf *core.Config, sessions *session.Manager) *authenticator {
	return &authenticator{
		conf:     conf,
		sessions: sessions,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    "userToken",
			Claims:        new(Claims),
		},
	}
}

func (a *authenticator) userClaims(usr user.User, tabID string, origIat ...int64) *Claims {
	now := nowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   usr.ID,
			Audience:  audience,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		TabID:        tabID,
		EmployeeID:   usr.EmployeeID,
		Email:        usr.Email,
		IsAdmin:      usr.IsAdmin(),
	}
}

// generateToken generates a signed JWT token string representing the user Claims.
func (a *authenticator) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// claimTab returns the tab a sign-in of email may use. The tab named by the request is kept
// when it has no session, or a session of the same account; otherwise a new tab is issued,
// so one client cannot take over the session of another.
// Sessions live until logout: a client reusing its tab id keeps a single slot.
func (a *authenticator) claimTab(ctx echo.Context, email string) (string, error) {
	id := core.CleanString(ctx.Request().Header.Get(headerTabID))
	if id == "" {
		return uuid.New().String(), nil
	}

	sess, _, err := a.sessions.Scope(id).Current(ctx.Request().Context())
	if errors.Is(err, core.ErrCorruptSlot) {
		return id, nil
	} else if err != nil {
		return "", errors.Wrap(err, "loading tab session")
	}
	if !sess.IsAuthenticated || (email != "" && strings.EqualFold(sess.User.Email, core.CleanString(email))) {
		return id, nil
	}
	return uuid.New().String(), nil
}

func getContextClaims(ctx echo.Context, key string) (Claims, error) {
	if token, ok := ctx.Get(key).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (*session.Manager, error) {
	if mgr, ok := ctx.Get(contextSessionKey).(*session.Manager); ok {
		return mgr, nil
	}
	return nil, errUnauthorized
}

// sessionMiddleware resolves the session of the token's tab and puts it, along with its user, in the context.
// A stale user snapshot is refreshed from the stored account; a removed account ends the session.
func (a *authenticator) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx, a.jwtConfig.ContextKey)
		if err != nil {
			return err
		}

		reqCtx := ctx.Request().Context()
		mgr := a.sessions.Scope(claims.TabID)
		sess, stale, err := mgr.Current(reqCtx)
		if err != nil {
			return errors.Wrap(err, "loading session")
		}
		if !sess.IsAuthenticated || sess.User.ID != claims.Subject {
			return errUnauthorized
		}
		if stale {
			if sess, err = mgr.Refresh(reqCtx); errors.Is(err, user.ErrNotFound) {
				if err = mgr.Logout(reqCtx); err != nil {
					return errors.Wrap(err, "ending session")
				}
				return errUnauthorized
			} else if err != nil {
				return errors.Wrap(err, "refreshing session")
			}
		}

		ctx.Set(contextSessionKey, mgr)
		ctx.Set(contextUserKey, *sess.User)
		return next(ctx)
	}
}

func adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := getContextUser(ctx)
		if err != nil {
			return err
		}
		if !usr.IsAdmin() {
			return errHttpForbidden
		}
		return next(ctx)
	}
}

// refreshToken issues a new token for the current session, unless the refresh window
// opened by the first token of the session has expired.
func (a *authenticator) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx, a.jwtConfig.ContextKey)
	if err != nil {
		return "", err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return "", err
	}

	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.conf.Server.JWTRefreshExpirationDelta)
	if nowFunc().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := a.generateToken(a.userClaims(usr, claims.TabID, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}
