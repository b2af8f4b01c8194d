package ecolife

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Flash texts for authentication outcomes. Wrong-email and wrong-password get
// distinct messages; both land back on the login form.
const (
	flashAlreadyRegistered = "You've already signed up with that email, log in instead!"
	flashNoSuchEmail       = "That email does not exist, please try again."
	flashWrongPassword     = "Password incorrect, please try again."
	flashLoginToComment    = "You need to login or register to comment."
)

func (a *App) handleRegisterForm(c echo.Context) error {
	return Render(c, a.RegisterPage(c, RegisterForm{}, nil))
}

func (a *App) handleRegister(c echo.Context) error {
	var f RegisterForm
	fields, err := bindForm(c, &f)
	if err != nil {
		return err
	}
	if fields != nil {
		return Render(c, a.RegisterPage(c, f, fields))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u, err := a.Store.CreateUser(f.Email, string(hash), f.Name)
	if errors.Is(err, ErrDuplicateEmail) {
		if err := flash(c, flashAlreadyRegistered); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err != nil {
		return err
	}
	if err := setSessionUser(c, u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleLoginForm(c echo.Context) error {
	return Render(c, a.LoginPage(c, LoginForm{}, nil))
}

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}

	var f LoginForm
	fields, err := bindForm(c, &f)
	if err != nil {
		return err
	}
	if fields != nil {
		return Render(c, a.LoginPage(c, f, fields))
	}

	u, err := a.Store.UserByEmail(f.Email)
	if errors.Is(err, ErrNotFound) {
		a.loginLimiter.Record(c.RealIP())
		if err := flash(c, flashNoSuchEmail); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(f.Password)) != nil {
		a.loginLimiter.Record(c.RealIP())
		if err := flash(c, flashWrongPassword); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := setSessionUser(c, u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearSessionUser(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// requireAdmin short-circuits with 403 before the wrapped handler builds any
// form or touches the store.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, ok := CurrentUser(c)
		if !ok || !u.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden)
		}
		return next(c)
	}
}
