package server

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/config"
	"github.com/dvanheule/comptoir/internal/gate"
	"github.com/dvanheule/comptoir/internal/handlers"
	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/middleware"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
	"github.com/dvanheule/comptoir/internal/view"
)

// Deps bundles everything the router needs plus the pieces main keeps a
// handle on (the order service for the background sweep, the permission
// cache for invalidation on shutdown-free reloads).
type Deps struct {
	DB       *gorm.DB
	Settings *services.SettingsService
	Orders   *services.OrderService
	Search   *services.SearchService
	Gate     *gate.Gate
	Cache    *gate.CachedResolver
}

// NewDeps wires the service and gate graph for the given database.
func NewDeps(db *gorm.DB, cfg config.Config) *Deps {
	settings := services.NewSettingsService(db)
	cache := gate.NewCachedResolver(gate.NewDBProfileResolver(db), cfg.GateCacheTTL)
	return &Deps{
		DB:       db,
		Settings: settings,
		Orders:   services.NewOrderService(db, settings),
		Search:   services.NewSearchService(db),
		Gate:     gate.New(cache),
		Cache:    cache,
	}
}

// New constructs the root http.Handler with all routes and middleware
// applied.
func New(d *Deps) http.Handler {
	db := d.DB
	mux := http.NewServeMux()

	// Sessions referencing deleted or deactivated users are rejected.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		if err := db.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND active = ?", uid, true).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// Templates resolve the locale and permission checks through these
	// callbacks; the view package stays free of gate imports.
	view.SetLangResolver(middleware.LangFrom)
	view.SetCanResolver(func(r *http.Request, permission string) bool {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return false
		}
		return d.Gate.Can(r.Context(), uid, permission)
	})

	// Health endpoints.
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public: login, logout and invite acceptance.
	handlers.NewAuthHandler(db).Register(mux)

	authed := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(h)
	}

	// Client-facing routes. Each handler re-checks the session role, so
	// an employee hitting /catalog gets a 403 rather than a panic.
	ch := handlers.NewCatalogHandler(db, d.Settings)
	mux.Handle("GET /catalog", authed(ch.List))
	mux.Handle("GET /catalog/product", authed(ch.Detail))

	oh := handlers.NewOrderHandler(db, d.Orders)
	mux.Handle("GET /orders", authed(oh.List))
	mux.Handle("GET /orders/detail", authed(oh.Detail))
	mux.Handle("POST /orders/submit", authed(oh.Submit))

	fh := handlers.NewFavoriteHandler(db)
	mux.Handle("GET /favorites", authed(fh.List))
	mux.Handle("POST /favorites/toggle", authed(fh.Toggle))

	ph := handlers.NewProfileHandler(db, d.Settings)
	mux.Handle("GET /profile", authed(ph.Show))
	mux.Handle("POST /profile", authed(ph.Update))

	sh := handlers.NewSearchHandler(db, d.Search)
	mux.Handle("GET /api/search", authed(sh.Search))

	// Back office. Permission checks live inside the handlers so each
	// route maps to exactly one *:manage permission.
	ach := handlers.NewAdminClientHandler(db, d.Gate)
	mux.Handle("GET /admin/clients", authed(ach.List))
	mux.Handle("POST /admin/clients", authed(ach.Create))
	mux.Handle("GET /admin/clients/detail", authed(ach.Detail))
	mux.Handle("POST /admin/clients/update", authed(ach.Update))
	mux.Handle("/admin/client-roles", authed(ach.Roles))

	aph := handlers.NewAdminProductHandler(db, d.Gate)
	mux.Handle("GET /admin/products", authed(aph.List))
	mux.Handle("POST /admin/products", authed(aph.Save))
	mux.Handle("POST /admin/products/delete", authed(aph.Delete))

	acat := handlers.NewAdminCategoryHandler(db, d.Gate)
	mux.Handle("GET /admin/categories", authed(acat.List))
	mux.Handle("POST /admin/categories", authed(acat.Save))
	mux.Handle("POST /admin/categories/delete", authed(acat.Delete))

	aoh := handlers.NewAdminOrderHandler(db, d.Gate, d.Orders)
	mux.Handle("GET /admin/orders", authed(aoh.List))
	mux.Handle("GET /admin/orders/detail", authed(aoh.Detail))
	mux.Handle("POST /admin/orders/update", authed(aoh.Update))

	aeh := handlers.NewAdminEmployeeHandler(db, d.Gate, d.Cache, d.Settings)
	mux.Handle("GET /admin/employees", authed(aeh.List))
	mux.Handle("POST /admin/employees", authed(aeh.Create))
	mux.Handle("POST /admin/employees/update", authed(aeh.Update))
	mux.Handle("/admin/employee-roles", authed(aeh.Roles))

	ash := handlers.NewAdminSettingsHandler(db, d.Gate, d.Settings)
	mux.Handle("GET /admin/settings", authed(ash.Show))
	mux.Handle("POST /admin/settings", authed(ash.Update))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Clients land on the catalog, employees on the order board.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if profile, err := d.Gate.Resolve(r.Context(), uid); err == nil && profile != nil {
			http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/catalog", http.StatusSeeOther)
	})

	chain := auth.Middleware(mux)
	chain = middleware.Prefs(chain)
	chain = middleware.Logging(chain)
	return middleware.Recover(chain)
}
