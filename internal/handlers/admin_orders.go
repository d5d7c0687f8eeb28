package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/auth"
	"github.com/dvanheule/comptoir/internal/gate"
	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
)

// AdminOrderHandler is the employee view on all orders. Requires
// orders:manage.
type AdminOrderHandler struct {
	DB   *gorm.DB
	Gate *gate.Gate
	Svc  *services.OrderService
}

func NewAdminOrderHandler(db *gorm.DB, g *gate.Gate, svc *services.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{DB: db, Gate: g, Svc: svc}
}

func (h *AdminOrderHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if !h.Gate.Can(r.Context(), uid, models.PermManageOrders) {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return false
	}
	return true
}

// List: GET /admin/orders, filterable by status and client. The
// auto-confirm sweep runs first so the listing is current.
func (h *AdminOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if _, err := h.Svc.AutoConfirmPastDeadline(r.Context()); err != nil {
		log.Error().Err(err).Msg("auto-confirm sweep")
	}

	dbq := h.DB.Preload("Client")
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"status": "invalid_value"})
			return
		}
		dbq = dbq.Where("status = ?", status)
	}
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		if id, err := strconv.Atoi(cid); err == nil && id > 0 {
			dbq = dbq.Where("client_id = ?", id)
		}
	}
	var orders []models.Order
	if err := dbq.Order("id desc").Limit(200).Find(&orders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": orders})
		return
	}
	renderTemplate(w, r, "admin_orders", map[string]any{
		"Orders":   orders,
		"Statuses": models.OrderStatuses,
	})
}

// Detail: GET /admin/orders/detail?id=...
func (h *AdminOrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	if _, err := h.Svc.AutoConfirmPastDeadline(r.Context()); err != nil {
		log.Error().Err(err).Msg("auto-confirm sweep")
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var order models.Order
	if err := h.DB.Preload("Items").Preload("Client").First(&order, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, order)
		return
	}
	renderTemplate(w, r, "admin_order", map[string]any{
		"Order":    order,
		"Statuses": models.OrderStatuses,
	})
}

// Update: POST /admin/orders/update?id=... for status, final total and
// notes; absent fields are left untouched.
func (h *AdminOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}

	var in services.EmployeeUpdateInput
	if v, ok := formValue(r, "status"); ok && v != "" {
		in.Status = &v
	}
	if v, ok := formValue(r, "final_total"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"final_total": "invalid_value"})
			return
		}
		in.FinalTotal = &f
	}
	if v, ok := formValue(r, "notes"); ok {
		in.Notes = &v
	}

	switch err := h.Svc.EmployeeUpdate(r.Context(), uint(id), in); {
	case err == nil:
		if httpx.WantsJSON(r) {
			httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
			return
		}
		http.Redirect(w, r, "/admin/orders/detail?id="+strconv.Itoa(id), http.StatusSeeOther)
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrInvalidStatus):
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"status": "invalid_value"})
	case errors.Is(err, services.ErrNegativeAmount):
		httpx.JSONError(w, http.StatusBadRequest, "validation-error", map[string]string{"final_total": "invalid_value"})
	default:
		log.Error().Err(err).Int("order_id", id).Msg("employee order update")
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
	}
}
