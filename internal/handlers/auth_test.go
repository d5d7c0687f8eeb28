package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/models"
)

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req
}

func TestLoginSetsSession(t *testing.T) {
	db := openTestDB(t)
	user, _ := seedClientAccount(t, db) // password "s3cret-pass"
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	form := url.Values{"email": {user.Email}, "password": {"s3cret-pass"}}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, postForm("/login", form))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		UserID uint `json:"user_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.UserID != user.ID {
		t.Fatalf("user_id = %d, want %d", resp.UserID, user.ID)
	}

	sessionReq := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		sessionReq.AddCookie(c)
	}
	uid, ok := auth.ParseSession(sessionReq)
	if !ok || uid != user.ID {
		t.Fatalf("session cookie = %d, %v", uid, ok)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := openTestDB(t)
	user, _ := seedClientAccount(t, db)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	form := url.Values{"email": {user.Email}, "password": {"wrong"}}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, postForm("/login", form))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("failed login set a cookie")
	}
}

func TestLoginInactiveUser(t *testing.T) {
	db := openTestDB(t)
	user, _ := seedClientAccount(t, db)
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error; err != nil {
		t.Fatal(err)
	}
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	form := url.Values{"email": {user.Email}, "password": {"s3cret-pass"}}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, postForm("/login", form))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("inactive user logged in: status = %d", rec.Code)
	}
}

func TestInviteAcceptActivatesUser(t *testing.T) {
	db := openTestDB(t)
	token := auth.NewInviteToken()
	user := models.User{Email: "invited@example.com", Password: "!invited", Active: false, InviteToken: token}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	form := url.Values{"token": {token}, "password": {"fresh-password-1"}}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, postForm("/invite", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated models.User
	if err := db.First(&updated, user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !updated.Active || updated.InviteToken != "" {
		t.Fatalf("user not activated: %+v", updated)
	}
	if !auth.CheckPassword(updated.Password, "fresh-password-1") {
		t.Fatal("new password not stored")
	}
}

func TestInviteUnknownToken(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	form := url.Values{"token": {"nope"}, "password": {"fresh-password-1"}}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, postForm("/invite", form))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
