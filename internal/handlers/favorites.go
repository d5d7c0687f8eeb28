package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
)

// FavoriteHandler manages the client's product bookmarks.
type FavoriteHandler struct{ DB *gorm.DB }

func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler { return &FavoriteHandler{DB: db} }

// List: GET /favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	var favs []models.Favorite
	if err := h.DB.Preload("Product").Where("client_id = ?", sess.Client.ID).Order("id desc").Find(&favs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_favorites", nil)
		return
	}
	locale := sess.Client.Locale
	discount := sess.Client.EffectiveDiscount()
	type favEntry struct {
		ProductID uint    `json:"product_id"`
		SKU       string  `json:"sku"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
	}
	entries := make([]favEntry, 0, len(favs))
	for _, f := range favs {
		entries = append(entries, favEntry{
			ProductID: f.ProductID,
			SKU:       f.Product.SKU,
			Name:      f.Product.Name.Resolve(locale),
			Price:     services.DiscountedPrice(f.Product.UnitPrice, discount),
		})
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": entries})
		return
	}
	renderTemplate(w, r, "favorites", map[string]any{"Favorites": entries})
}

// Toggle: POST /favorites/toggle?product_id=... adds the bookmark or
// removes it when already present.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	pidStr := r.URL.Query().Get("product_id")
	if pidStr == "" {
		pidStr = r.FormValue("product_id")
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.Where("active = ?", true).First(&product, pid).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if !product.VisibleTo(sess.Client.ClientRole.Slug) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	var existing models.Favorite
	err = h.DB.Where("client_id = ? AND product_id = ?", sess.Client.ID, product.ID).First(&existing).Error
	if err == nil {
		if err := h.DB.Delete(&existing).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"favorite": false})
		return
	}
	fav := models.Favorite{ClientID: sess.Client.ID, ProductID: product.ID}
	if err := h.DB.Create(&fav).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"favorite": true})
}
