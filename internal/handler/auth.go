// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/techalpha/blog/internal/auth"
	"github.com/techalpha/blog/internal/middleware"
	"github.com/techalpha/blog/internal/render"
	"github.com/techalpha/blog/internal/store"
	"github.com/techalpha/blog/internal/util"
)

// AuthHandler handles admin signup, login and logout.
type AuthHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// SignupForm renders the signup page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}
	h.renderer.HTML(w, r, http.StatusOK, "admin/signup", map[string]any{
		"Title": "Signup",
	})
}

// Signup handles the signup form submission. A duplicate email is
// reported as a server error with a plain-text message.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := util.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		h.renderer.HTML(w, r, http.StatusBadRequest, "admin/signup", map[string]any{
			"Title": "Signup",
			"Error": "Name, email and password are required",
			"Name":  name,
			"Email": email,
		})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	admin, err := h.queries.CreateAdmin(r.Context(), store.CreateAdminParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if store.IsDuplicate(err) {
			logAndHTTPError(w, "This email has already been used", http.StatusInternalServerError,
				"signup with existing email", "email", email)
			return
		}
		logAndInternalError(w, "failed to create admin", "error", err)
		return
	}

	slog.Info("admin account created", "admin_id", admin.ID, "email", admin.Email)
	http.Redirect(w, r, RouteSignupThankYou, http.StatusSeeOther)
}

// LoginForm renders the login page. Authenticated admins are sent to the
// dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}
	h.renderer.HTML(w, r, http.StatusOK, "admin/login", map[string]any{
		"Title": "Login",
	})
}

// Login handles the login form submission. Bad credentials re-render the
// form with an error rather than redirecting.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	email := util.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	renderFailed := func(message string) {
		h.renderer.HTML(w, r, http.StatusUnauthorized, "admin/login", map[string]any{
			"Title": "Login",
			"Error": message,
			"Email": email,
		})
	}

	if email == "" || password == "" {
		renderFailed("Email and password are required")
		return
	}

	admin, err := h.queries.GetAdminByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn("login attempt for unknown email", "email", email)
			renderFailed("Invalid email or password")
			return
		}
		logAndInternalError(w, "failed to look up admin", "error", err)
		return
	}

	ok, err := auth.CheckPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		slog.Warn("failed login attempt", "admin_id", admin.ID)
		renderFailed("Invalid email or password")
		return
	}

	// Rotate the session token on privilege change.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyAdminID, admin.ID)

	if err := h.queries.UpdateAdminLastLogin(r.Context(), admin.ID, time.Now()); err != nil {
		slog.Error("failed to record last login", "error", err, "admin_id", admin.ID)
	}

	slog.Info("admin logged in", "admin_id", admin.ID)
	http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
}

// Logout destroys the session and redirects to the homepage.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

func (h *AuthHandler) redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	if adminID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyAdminID); adminID > 0 {
		http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
		return true
	}
	return false
}
