package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/models"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
	mux.HandleFunc("/invite", h.acceptInvite)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid != 0 {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	pass := r.FormValue("password")
	if email == "" || pass == "" {
		h.loginFailed(w, r)
		return
	}
	var user models.User
	if err := h.DB.Where("email = ? AND active = ?", email, true).First(&user).Error; err != nil {
		h.loginFailed(w, r)
		return
	}
	if !auth.CheckPassword(user.Password, pass) {
		h.loginFailed(w, r)
		return
	}
	auth.CreateSession(w, user.ID)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"user_id": user.ID})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid-login", nil)
		return
	}
	renderTemplate(w, r, "login", map[string]any{"Error": "invalid-login"})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// acceptInvite lets an invited client or employee set a first password.
// GET renders the form for ?token=..., POST consumes the token.
func (h *AuthHandler) acceptInvite(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "invite", map[string]any{"Token": token})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		token := strings.TrimSpace(r.FormValue("token"))
		pass := r.FormValue("password")
		if token == "" || len(pass) < 8 {
			renderTemplate(w, r, "invite", map[string]any{"Token": token, "Error": "validation-error"})
			return
		}
		var user models.User
		if err := h.DB.Where("invite_token = ?", token).First(&user).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, "invalid_token", nil)
			return
		}
		hash, err := auth.HashPassword(pass)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
		updates := map[string]any{"password": hash, "invite_token": "", "active": true}
		if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
		auth.CreateSession(w, user.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}
