package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/gate"
	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/validation"
)

// AdminProductHandler manages the product catalog from the employee
// side. Requires products:manage.
type AdminProductHandler struct {
	DB   *gorm.DB
	Gate *gate.Gate
}

func NewAdminProductHandler(db *gorm.DB, g *gate.Gate) *AdminProductHandler {
	return &AdminProductHandler{DB: db, Gate: g}
}

func (h *AdminProductHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if !h.Gate.Can(r.Context(), uid, models.PermManageProducts) {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return false
	}
	return true
}

// List: GET /admin/products. Includes inactive products, unlike the
// client catalog.
func (h *AdminProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	dbq := h.DB.Preload("Category")
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(sku) LIKE ? OR lower(name) LIKE ?", like, like)
	}
	if cid := r.URL.Query().Get("category_id"); cid != "" {
		if id, err := strconv.Atoi(cid); err == nil && id > 0 {
			dbq = dbq.Where("category_id = ?", id)
		}
	}
	var products []models.Product
	if err := dbq.Order("sku asc").Limit(500).Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": products})
		return
	}
	var categories []models.Category
	_ = h.DB.Order("id asc").Find(&categories).Error
	renderTemplate(w, r, "admin_products", map[string]any{"Products": products, "Categories": categories})
}

// Save: POST /admin/products. Creates when id is absent, updates
// otherwise. Localized fields come in as name_fr / name_nl / name_en.
func (h *AdminProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}

	sku := strings.TrimSpace(r.FormValue("sku"))
	nameFR := strings.TrimSpace(r.FormValue("name_fr"))
	price, priceErr := strconv.ParseFloat(r.FormValue("unit_price"), 64)
	categoryID, _ := strconv.Atoi(r.FormValue("category_id"))

	v := validation.Violations{}
	validation.Required("sku", sku, v)
	validation.Required("name_fr", nameFR, v)
	validation.PositiveInt("category_id", categoryID, v)
	if priceErr != nil || price < 0 {
		v["unit_price"] = "invalid_value"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
		return
	}
	var category models.Category
	if err := h.DB.First(&category, categoryID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"category_id": "invalid_value"})
		return
	}

	product := models.Product{
		SKU: sku,
		Name: models.LocalizedText{
			Fr: nameFR,
			Nl: strings.TrimSpace(r.FormValue("name_nl")),
			En: strings.TrimSpace(r.FormValue("name_en")),
		},
		Description: models.LocalizedText{
			Fr: strings.TrimSpace(r.FormValue("description_fr")),
			Nl: strings.TrimSpace(r.FormValue("description_nl")),
			En: strings.TrimSpace(r.FormValue("description_en")),
		},
		CategoryID:     category.ID,
		UnitPrice:      price,
		Unit:           strings.TrimSpace(r.FormValue("unit")),
		VisibleToRoles: parseRoleSlugs(r.Form["visible_to_roles"]),
		Active:         r.FormValue("active") != "false" && r.FormValue("active") != "0",
	}
	if wv := strings.TrimSpace(r.FormValue("approx_weight_kg")); wv != "" {
		if wf, err := strconv.ParseFloat(wv, 64); err == nil && wf >= 0 {
			product.ApproxWeightKg = &wf
		}
	}

	if idStr := r.FormValue("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		var existing models.Product
		if err := h.DB.First(&existing, id).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		product.ID = existing.ID
		if err := h.DB.Model(&existing).Select("sku", "name", "description", "category_id",
			"unit_price", "unit", "approx_weight_kg", "visible_to_roles", "active").
			Updates(&product).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"id": existing.ID})
		return
	}

	if err := h.DB.Create(&product).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": product.ID})
}

// Delete: POST /admin/products/delete?id=... does a soft delete; order item
// snapshots keep their name and price regardless.
func (h *AdminProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func parseRoleSlugs(vals []string) models.RoleSlugs {
	var out models.RoleSlugs
	for _, v := range vals {
		v = strings.TrimSpace(strings.ToLower(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
