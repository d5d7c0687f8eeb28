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

// AdminCategoryHandler manages catalog categories. Requires
// categories:manage.
type AdminCategoryHandler struct {
	DB   *gorm.DB
	Gate *gate.Gate
}

func NewAdminCategoryHandler(db *gorm.DB, g *gate.Gate) *AdminCategoryHandler {
	return &AdminCategoryHandler{DB: db, Gate: g}
}

func (h *AdminCategoryHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if !h.Gate.Can(r.Context(), uid, models.PermManageCategories) {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return false
	}
	return true
}

// List: GET /admin/categories
func (h *AdminCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	var categories []models.Category
	if err := h.DB.Order("id asc").Find(&categories).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_categories", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": categories})
		return
	}
	renderTemplate(w, r, "admin_categories", map[string]any{"Categories": categories})
}

// Save: POST /admin/categories, create or update.
func (h *AdminCategoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	nameFR := strings.TrimSpace(r.FormValue("name_fr"))
	v := validation.Violations{}
	validation.Required("name_fr", nameFR, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", v)
		return
	}

	category := models.Category{
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
	}

	if idStr := r.FormValue("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		var existing models.Category
		if err := h.DB.First(&existing, id).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		if err := h.DB.Model(&existing).Select("name", "description").Updates(&category).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"id": existing.ID})
		return
	}

	if err := h.DB.Create(&category).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": category.ID})
}

// Delete: POST /admin/categories/delete?id=..., refused while products
// still reference the category.
func (h *AdminCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "category_in_use", map[string]int64{"products": count})
		return
	}
	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
