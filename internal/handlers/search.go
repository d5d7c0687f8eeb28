package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/i18n"
	"github.com/dvanheule/comptoir/internal/middleware"
	"github.com/dvanheule/comptoir/internal/services"
)

// SearchHandler serves the one JSON-only endpoint of the portal:
// GET /api/search?q=&type=&locale=
type SearchHandler struct {
	DB  *gorm.DB
	Svc *services.SearchService
}

func NewSearchHandler(db *gorm.DB, svc *services.SearchService) *SearchHandler {
	return &SearchHandler{DB: db, Svc: svc}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	q := r.URL.Query().Get("q")
	locale := r.URL.Query().Get("locale")
	if !i18n.Supported(locale) {
		locale = middleware.LangFrom(r)
	}

	// The requested scope never exceeds what the session allows: the
	// type parameter is advisory, the session decides.
	var scope string
	var clientID uint
	switch {
	case sess.IsClient():
		scope = services.ScopeClient
		clientID = sess.Client.ID
	case sess.IsEmployee():
		scope = services.ScopeEmployee
	default:
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}

	results := h.Svc.Search(r.Context(), q, scope, locale, clientID)
	if results == nil {
		results = []services.SearchResult{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": results})
}
