package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/middleware"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
)

// CatalogHandler serves the client-facing catalog: products filtered by
// role visibility, priced with the client's discount already applied.
type CatalogHandler struct {
	DB       *gorm.DB
	Settings *services.SettingsService
}

func NewCatalogHandler(db *gorm.DB, settings *services.SettingsService) *CatalogHandler {
	return &CatalogHandler{DB: db, Settings: settings}
}

// catalogEntry is one product as shown to a client.
type catalogEntry struct {
	ID          uint     `json:"id"`
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Unit        string   `json:"unit"`
	Price       float64  `json:"price"` // discounted
	BasePrice   float64  `json:"base_price"`
	WeightKg    *float64 `json:"approx_weight_kg,omitempty"`
	IsFavorite  bool     `json:"is_favorite"`
}

// List: GET /catalog
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	locale := sess.Client.Locale
	if locale == "" {
		locale = middleware.LangFrom(r)
	}

	dbq := h.DB.Where("active = ?", true)
	if v := strings.TrimSpace(r.URL.Query().Get("category")); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			dbq = dbq.Where("category_id = ?", id)
		}
	}
	var products []models.Product
	if err := dbq.Preload("Category").Order("sku asc").Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}

	favIDs := map[uint]bool{}
	var favs []models.Favorite
	if err := h.DB.Where("client_id = ?", sess.Client.ID).Find(&favs).Error; err == nil {
		for _, f := range favs {
			favIDs[f.ProductID] = true
		}
	}

	discount := sess.Client.EffectiveDiscount()
	roleSlug := sess.Client.ClientRole.Slug
	entries := make([]catalogEntry, 0, len(products))
	for _, p := range products {
		if !p.VisibleTo(roleSlug) {
			continue
		}
		entries = append(entries, catalogEntry{
			ID:          p.ID,
			SKU:         p.SKU,
			Name:        p.Name.Resolve(locale),
			Description: p.Description.Resolve(locale),
			Category:    p.Category.Name.Resolve(locale),
			Unit:        p.Unit,
			Price:       services.DiscountedPrice(p.UnitPrice, discount),
			BasePrice:   p.UnitPrice,
			WeightKg:    p.ApproxWeightKg,
			IsFavorite:  favIDs[p.ID],
		})
	}

	// Delivery preview shown next to the cart.
	var nextDelivery *string
	if d, ok := services.NextDeliveryDate(time.Now(), sess.Client.EffectiveDeliveryDays(), h.Settings.CutoffTime(), h.Settings.CutoffDayOffset()); ok {
		s := d.Format("2006-01-02")
		nextDelivery = &s
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": entries, "next_delivery": nextDelivery})
		return
	}
	var categories []models.Category
	_ = h.DB.Order("id asc").Find(&categories).Error
	renderTemplate(w, r, "catalog", map[string]any{
		"Products":     entries,
		"Categories":   categories,
		"Locale":       locale,
		"NextDelivery": nextDelivery,
	})
}

// Detail: GET /catalog/product?id=...
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.Preload("Category").Where("active = ?", true).First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !p.VisibleTo(sess.Client.ClientRole.Slug) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	locale := sess.Client.Locale
	entry := catalogEntry{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name.Resolve(locale),
		Description: p.Description.Resolve(locale),
		Category:    p.Category.Name.Resolve(locale),
		Unit:        p.Unit,
		Price:       services.DiscountedPrice(p.UnitPrice, sess.Client.EffectiveDiscount()),
		BasePrice:   p.UnitPrice,
		WeightKg:    p.ApproxWeightKg,
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, entry)
		return
	}
	renderTemplate(w, r, "product", map[string]any{"Product": entry})
}
