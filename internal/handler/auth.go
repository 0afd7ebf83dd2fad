package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
	"github.com/recipebox/recipebox/internal/validation"
)

const (
	msgBadCredentials = "Invalid username or password."
	msgUsernameTaken  = "This username is already taken."
)

type authHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *authHandler {
	return &authHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *authHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.LoginPage(ui.LoginForm{Next: r.URL.Query().Get("next")}))
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := ui.LoginForm{
		Username: r.FormValue("username"),
		Next:     r.FormValue("next"),
	}

	user, err := h.authService.Login(form.Username, r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
		}
		form.Error = msgBadCredentials
		ui.RenderStatus(w, r, http.StatusUnauthorized, ui.LoginPage(form))
		return
	}

	err = h.authService.StartSession(w, user, checkbox(r, "remember_me"))
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		form.Error = "Could not log you in. Please try again."
		ui.RenderStatus(w, r, http.StatusInternalServerError, ui.LoginPage(form))
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	redirectWithFlash(w, r, safeRedirect(form.Next), middleware.FlashSuccess, "Welcome back, "+user.FirstName+"!")
}

// Logout works for anonymous visitors too.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSession(w)
	redirectWithFlash(w, r, "/login", middleware.FlashSuccess, "You have been logged out.")
}

func (h *authHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	form, err := h.registerForm()
	if err != nil {
		serverError(w, r, "failed to load roles", err)
		return
	}
	ui.Render(w, r, ui.RegisterPage(form))
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := h.registerForm()
	if err != nil {
		serverError(w, r, "failed to load roles", err)
		return
	}

	roleID, _ := strconv.ParseInt(r.FormValue("role_id"), 10, 64)
	form.Username = r.FormValue("username")
	form.LastName = r.FormValue("last_name")
	form.FirstName = r.FormValue("first_name")
	form.MiddleName = r.FormValue("middle_name")
	form.RoleID = roleID

	_, err = h.authService.Register(service.RegisterInput{
		Username:   form.Username,
		Password:   r.FormValue("password"),
		LastName:   form.LastName,
		FirstName:  form.FirstName,
		MiddleName: form.MiddleName,
		RoleID:     roleID,
	})

	var errs validation.Errors
	switch {
	case err == nil:
		redirectWithFlash(w, r, "/login", middleware.FlashSuccess, "Registration successful. You can now log in.")
	case errors.As(err, &errs):
		form.Errors = errs
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.RegisterPage(form))
	case errors.Is(err, service.ErrUsernameTaken):
		form.Errors = validation.Errors{"username": msgUsernameTaken}
		r = flashNow(r, middleware.FlashWarning, msgUsernameTaken)
		ui.RenderStatus(w, r, http.StatusConflict, ui.RegisterPage(form))
	default:
		slog.Error("registration failed", "error", err)
		r = flashNow(r, middleware.FlashDanger, genericFailure)
		ui.RenderStatus(w, r, http.StatusInternalServerError, ui.RegisterPage(form))
	}
}

func (h *authHandler) registerForm() (ui.RegisterForm, error) {
	roles, err := h.userService.Roles()
	if err != nil {
		return ui.RegisterForm{}, err
	}

	form := ui.RegisterForm{Roles: roles}
	for _, role := range roles {
		if role.IsDefault() {
			form.RoleID = role.ID
		}
	}
	return form, nil
}
