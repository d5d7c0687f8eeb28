package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/httpx"
	"github.com/dvanheule/comptoir/internal/middleware"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
)

// OrderHandler serves the client-side order pages and the submit form.
type OrderHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Svc: svc}
}

// List: GET /orders. The sweep runs first so past-deadline pending
// orders are shown confirmed.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	if _, err := h.Svc.AutoConfirmPastDeadline(r.Context()); err != nil {
		log.Error().Err(err).Msg("auto-confirm sweep")
	}

	var orders []models.Order
	if err := h.DB.Where("client_id = ?", sess.Client.ID).Order("id desc").Limit(100).Find(&orders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": orders})
		return
	}
	renderTemplate(w, r, "orders", map[string]any{"Orders": orders})
}

// Detail: GET /orders/detail?id=...
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
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
	if err := h.DB.Preload("Items").Where("client_id = ?", sess.Client.ID).First(&order, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, order)
		return
	}
	renderTemplate(w, r, "order", map[string]any{"Order": order})
}

// submitReq is the JSON body for POST /orders/submit. The form path
// carries the same fields as items[i].product_id / items[i].quantity.
type submitReq struct {
	Items           []services.SubmitItem `json:"items"`
	Notes           string                `json:"notes"`
	DeliveryDate    string                `json:"delivery_date"` // "2006-01-02", optional
	ExistingOrderID uint                  `json:"existing_order_id"`
}

// Submit: POST /orders/submit
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(h.DB, r)
	if sess == nil || !sess.IsClient() {
		httpx.JSONError(w, http.StatusForbidden, services.CodeUnauthorized, nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req submitReq
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, services.CodeValidationError, nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, services.CodeValidationError, nil)
			return
		}
		req = submitFromForm(r)
	}

	in := services.SubmitInput{
		ClientID:        sess.Client.ID,
		Locale:          middleware.LangFrom(r),
		Items:           req.Items,
		Notes:           req.Notes,
		ExistingOrderID: req.ExistingOrderID,
	}
	if sess.Client.Locale != "" {
		in.Locale = sess.Client.Locale
	}
	if req.DeliveryDate != "" {
		if d, err := time.ParseInLocation("2006-01-02", req.DeliveryDate, time.Local); err == nil {
			in.DeliveryDate = &d
		}
	}

	res := h.Svc.Submit(r.Context(), in)
	if !res.OK() {
		httpx.JSONError(w, statusForCode(res.Code), res.Code, nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]any{"order_id": res.OrderID})
		return
	}
	middleware.Flash(w, r, "order-submitted")
	http.Redirect(w, r, "/orders/detail?id="+strconv.FormatUint(uint64(res.OrderID), 10), http.StatusSeeOther)
}

func submitFromForm(r *http.Request) submitReq {
	req := submitReq{
		Notes:        strings.TrimSpace(r.FormValue("notes")),
		DeliveryDate: strings.TrimSpace(r.FormValue("delivery_date")),
	}
	if v := r.FormValue("existing_order_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			req.ExistingOrderID = uint(id)
		}
	}
	for i := 0; ; i++ {
		pid := r.FormValue("items[" + strconv.Itoa(i) + "].product_id")
		if pid == "" {
			break
		}
		id, err := strconv.Atoi(pid)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(r.FormValue("items[" + strconv.Itoa(i) + "].quantity"))
		if err != nil {
			qty = 0
		}
		req.Items = append(req.Items, services.SubmitItem{ProductID: uint(id), Quantity: qty})
	}
	return req
}

func statusForCode(code string) int {
	switch code {
	case services.CodeCartEmpty, services.CodeValidationError, services.CodeProductMismatch:
		return http.StatusBadRequest
	case services.CodeUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
