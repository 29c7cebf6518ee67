package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core/session"
	"github.com/trezcool/hrms/core/user"
)

var errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")

type (
	authApi struct {
		auth     *authenticator
		sessions *session.Manager
	}

	userApi struct {
		svc        *user.Service
		validate   *validator.Validate
		translator ut.Translator
	}

	AuthResponse struct {
		Token string    `json:"token"`
		TabID string    `json:"tabId"`
		User  user.User `json:"user"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}
)

func registerAuthAPI(g *echo.Group, authed []echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := authApi{auth: auth, sessions: deps.Sessions}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)

	// authed endpoints
	sg := ag.Group("", authed...)
	sg.POST("/logout", api.logout)
	sg.POST("/refresh", api.refresh)
	sg.GET("/me", api.me)
}

func registerUserAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		svc:        deps.UserSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ug := g.Group("/users", authed...)
	ug.GET("", api.query, adminMiddleware)
	ug.GET("/roles", api.queryRoles)

	// detail endpoints
	dg := ug.Group("/:id", ctxUserOrAdminMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
}

// Handlers

func (api *authApi) signedIn(ctx echo.Context, code int, tab string, usr user.User) error {
	token, err := api.auth.generateToken(api.auth.userClaims(usr, tab))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, AuthResponse{Token: token, TabID: tab, User: usr.Public()})
}

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	tab, err := api.auth.claimTab(ctx, "")
	if err != nil {
		return err
	}
	usr, err := api.sessions.Scope(tab).Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return api.signedIn(ctx, http.StatusCreated, tab, usr)
}

func (api *authApi) login(ctx echo.Context) error {
	var data session.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	tab, err := api.auth.claimTab(ctx, data.Email)
	if err != nil {
		return err
	}
	usr, err := api.sessions.Scope(tab).Login(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return api.signedIn(ctx, http.StatusOK, tab, usr)
}

func (api *authApi) logout(ctx echo.Context) error {
	mgr, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = mgr.Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) refresh(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr.Public())
}

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}

	users, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	public := make([]user.User, 0, len(users))
	for _, usr := range users {
		public = append(public, usr.Public())
	}
	return ctx.JSON(http.StatusOK, public)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, usr.Public())
}

func (api *userApi) update(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	// department & designation can only be changed by admin
	if !ctxUsr.IsAdmin() && data.HasAdminFields() {
		return errHttpForbidden
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	mgr, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	usr = data.Apply(usr)
	updated, err := mgr.UpdateProfile(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	if !updated {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, usr.Public())
}

// ctxUserOrAdminMiddleware puts the user of the :id param in the context as "object".
// Employees may only reach themselves.
func ctxUserOrAdminMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx)
			if err != nil {
				return err
			}

			if ctx.Param("id") == ctxUsr.ID || ctxUsr.IsAdmin() {
				if usr, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set("object", usr)
					return next(ctx)
				} else if !errors.Is(err, user.ErrNotFound) {
					return errors.Wrap(err, "finding user by ID")
				}
			}
			return errHttpNotFound
		}
	}
}
