package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/view"
)

// Session is the resolved identity of a request: the credential plus
// the optional client or employee profile attached to it.
type Session struct {
	User     models.User
	Client   *models.Client
	Employee *models.Employee
}

// IsClient reports whether the session belongs to a wholesale client.
func (s *Session) IsClient() bool { return s != nil && s.Client != nil }

// IsEmployee reports whether the session belongs to back-office staff.
func (s *Session) IsEmployee() bool { return s != nil && s.Employee != nil }

// Locale returns the client's preferred locale, or empty when the
// session carries no client profile.
func (s *Session) Locale() string {
	if s.IsClient() {
		return s.Client.Locale
	}
	return ""
}

// sessionFrom loads the session for the authenticated user id in the
// request context. Returns nil when unauthenticated.
func sessionFrom(db *gorm.DB, r *http.Request) *Session {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok || uid == 0 {
		return nil
	}
	var user models.User
	if err := db.First(&user, uid).Error; err != nil || !user.Active {
		return nil
	}
	s := &Session{User: user}
	var client models.Client
	if err := db.Preload("ClientRole").Where("user_id = ?", uid).First(&client).Error; err == nil {
		s.Client = &client
	}
	var employee models.Employee
	if err := db.Preload("Role").Where("user_id = ?", uid).First(&employee).Error; err == nil {
		s.Employee = &employee
	}
	return s
}

// renderTemplate renders through the shared view with a plain-text
// fallback so a missing template never blanks the response.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template error"))
	}
}
