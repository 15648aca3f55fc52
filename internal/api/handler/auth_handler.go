package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/access"
	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/store"
)

// AuthHandler serves the public sign-in screens and sign-out.
type AuthHandler struct {
	log zerolog.Logger
}

func NewAuthHandler(log zerolog.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

// LoginPage handles GET /login. A signed-in user is sent to their home.
//
// @Summary      Sign-in screen
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Page
// @Success      302  "already signed in"
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.publicPage(c)
}

// Login handles POST /login.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      303   "redirect to the user's home"
// @Failure      401   {object}  Page
// @Failure      422   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	return h.afterSignIn(c, st.Auth, st.Auth.Login(ctx, req.Email, req.Password))
}

// RegisterPage handles GET /register.
//
// @Summary      Sign-up screen
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Page
// @Router       /register [get]
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.publicPage(c)
}

// Register handles POST /register. The new account is signed in right away.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      303   "redirect to the user's home"
// @Failure      400   {object}  Page
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = st.Auth.Register(ctx, domain.RegisterDraft{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	return h.afterSignIn(c, st.Auth, err)
}

// ForgotPasswordPage handles GET /forgot-password.
//
// @Summary      Password reset screen
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Page
// @Router       /forgot-password [get]
func (h *AuthHandler) ForgotPasswordPage(c echo.Context) error {
	return h.publicPage(c)
}

// ForgotPassword handles POST /forgot-password. The backend's confirmation
// is rendered as the status message.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  Page
// @Failure      404   {object}  Page
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = settled(st.Auth.ForgotPassword(ctx, req.Email))
	return render(c, failureStatus(err), nil, authPage{Status: authStatus(st.Auth.State())})
}

// Logout handles POST /logout. Every cached resource of the session is
// dropped along with the credential.
//
// @Summary      Sign out
// @Tags         auth
// @Success      303  "redirect to /login"
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	if err := st.SignOut(ctx); err != nil {
		h.log.Warn().Err(err).Msg("sign out left a persisted session behind")
	}
	return c.Redirect(http.StatusSeeOther, access.LoginPath)
}

// State handles GET /state: the raw snapshot of every slice of the session.
//
// @Summary      Session state snapshot
// @Tags         auth
// @Produce      json
// @Success      200  {object}  state.Snapshot
// @Router       /state [get]
func (h *AuthHandler) State(c echo.Context) error {
	st, _, err := stateOf(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st.Snapshot())
}

func (h *AuthHandler) publicPage(c echo.Context) error {
	st, _, err := stateOf(c)
	if err != nil {
		return err
	}
	if s := st.Auth.Session(); s != nil {
		return c.Redirect(http.StatusFound, access.Home(s))
	}
	// The message of the last attempt is shown once.
	page := authPage{Status: authStatus(st.Auth.State())}
	st.Auth.Reset()
	return render(c, http.StatusOK, nil, page)
}

func (h *AuthHandler) afterSignIn(c echo.Context, auth *store.AuthStore, err error) error {
	if err != nil && !errors.Is(err, store.ErrSuperseded) {
		return render(c, failureStatus(err), nil, authPage{Status: authStatus(auth.State())})
	}
	s := auth.Session()
	if s == nil {
		// Signed out while the request was in flight.
		return c.Redirect(http.StatusSeeOther, access.LoginPath)
	}
	return c.Redirect(http.StatusSeeOther, access.Home(s))
}
