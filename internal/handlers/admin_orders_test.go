package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dvanheule/comptoir/internal/gate"
	"github.com/dvanheule/comptoir/internal/models"
	"github.com/dvanheule/comptoir/internal/services"
)

func newAdminOrderHandler(t *testing.T) (*AdminOrderHandler, *services.OrderService, *testAdminFixture) {
	t.Helper()
	db := openTestDB(t)
	svc := services.NewOrderService(db, services.NewSettingsService(db))
	svc.Now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.Local) }
	g := gate.New(gate.NewDBProfileResolver(db))
	h := NewAdminOrderHandler(db, g, svc)

	clientUser, client := seedClientAccount(t, db)
	manager, _ := seedEmployeeAccount(t, db, models.PermissionSet{models.PermManageOrders: true})
	return h, svc, &testAdminFixture{clientUser: clientUser, client: client, manager: manager}
}

type testAdminFixture struct {
	clientUser models.User
	client     models.Client
	manager    models.User
}

func TestAdminOrderListRequiresPermission(t *testing.T) {
	h, _, fx := newAdminOrderHandler(t)

	// A client credential has no employee profile at all.
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.List(rec, asUser(req, fx.clientUser.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client reached admin listing: status = %d", rec.Code)
	}

	// An employee whose role lacks orders:manage is refused too.
	staff, _ := seedEmployeeWith(t, h.DB, "catalog@example.com", "catalog-only", models.PermissionSet{models.PermManageProducts: true})
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Accept", "application/json")
	h.List(rec, asUser(req, staff.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unpermitted employee reached admin listing: status = %d", rec.Code)
	}
}

func TestAdminOrderListAndStatusFilter(t *testing.T) {
	h, svc, fx := newAdminOrderHandler(t)
	p := seedActiveProduct(t, h.DB, "TOM-1", 10, nil)
	res := svc.Submit(httptest.NewRequest(http.MethodGet, "/", nil).Context(), services.SubmitInput{
		ClientID: fx.client.ID,
		Items:    []services.SubmitItem{{ProductID: p.ID, Quantity: 1}},
	})
	if !res.OK() {
		t.Fatalf("submit: %q", res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=pending", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.List(rec, asUser(req, fx.manager.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Items []models.Order `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != res.OrderID {
		t.Fatalf("items = %+v", resp.Items)
	}

	// Unknown status values are rejected, not silently ignored.
	req = httptest.NewRequest(http.MethodGet, "/admin/orders?status=teleported", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	h.List(rec, asUser(req, fx.manager.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status filter: status = %d", rec.Code)
	}
}

func TestAdminOrderDetailConfirmsPastDeadline(t *testing.T) {
	h, svc, fx := newAdminOrderHandler(t)
	p := seedActiveProduct(t, h.DB, "TOM-1", 10, nil)
	res := svc.Submit(httptest.NewRequest(http.MethodGet, "/", nil).Context(), services.SubmitInput{
		ClientID: fx.client.ID,
		Items:    []services.SubmitItem{{ProductID: p.ID, Quantity: 1}},
	})
	if !res.OK() {
		t.Fatalf("submit: %q", res.Code)
	}

	// Two days past the delivery date the order is no longer pending,
	// even when opened directly by id.
	svc.Now = func() time.Time { return time.Date(2026, 1, 8, 10, 0, 0, 0, time.Local) }
	req := httptest.NewRequest(http.MethodGet, "/admin/orders/detail?id="+itoa(res.OrderID), nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Detail(rec, asUser(req, fx.manager.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var order models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatal(err)
	}
	if order.Status != models.OrderStatusConfirmed {
		t.Fatalf("status = %q, want %q", order.Status, models.OrderStatusConfirmed)
	}
}

func TestAdminOrderUpdate(t *testing.T) {
	h, svc, fx := newAdminOrderHandler(t)
	p := seedActiveProduct(t, h.DB, "TOM-1", 10, nil)
	res := svc.Submit(httptest.NewRequest(http.MethodGet, "/", nil).Context(), services.SubmitInput{
		ClientID: fx.client.ID,
		Items:    []services.SubmitItem{{ProductID: p.ID, Quantity: 1}},
	})
	if !res.OK() {
		t.Fatalf("submit: %q", res.Code)
	}

	form := url.Values{"status": {models.OrderStatusShipped}, "final_total": {"42.5"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/orders/update?id="+itoa(res.OrderID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Update(rec, asUser(req, fx.manager.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	if err := h.DB.First(&order, res.OrderID).Error; err != nil {
		t.Fatal(err)
	}
	if order.Status != models.OrderStatusShipped || order.FinalTotal == nil || *order.FinalTotal != 42.5 {
		t.Fatalf("order = %+v", order)
	}
}

func TestAdminOrderUpdateInvalidStatus(t *testing.T) {
	h, svc, fx := newAdminOrderHandler(t)
	p := seedActiveProduct(t, h.DB, "TOM-1", 10, nil)
	res := svc.Submit(httptest.NewRequest(http.MethodGet, "/", nil).Context(), services.SubmitInput{
		ClientID: fx.client.ID,
		Items:    []services.SubmitItem{{ProductID: p.ID, Quantity: 1}},
	})
	if !res.OK() {
		t.Fatalf("submit: %q", res.Code)
	}

	form := url.Values{"status": {"teleported"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/orders/update?id="+itoa(res.OrderID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Update(rec, asUser(req, fx.manager.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
