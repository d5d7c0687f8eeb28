package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dvanheule/comptoir/internal/models"
)

func toggleFavorite(t *testing.T, h *FavoriteHandler, uid, productID uint) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/favorites/toggle?product_id="+itoa(productID), nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Toggle(rec, asUser(req, uid))
	return rec
}

func TestFavoriteToggle(t *testing.T) {
	db := openTestDB(t)
	user, client := seedClientAccount(t, db)
	p := seedActiveProduct(t, db, "TOM-1", 5, nil)
	h := NewFavoriteHandler(db)

	rec := toggleFavorite(t, h, user.ID, p.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Favorite {
		t.Fatal("first toggle should add the favorite")
	}
	var count int64
	db.Model(&models.Favorite{}).Where("client_id = ?", client.ID).Count(&count)
	if count != 1 {
		t.Fatalf("favorites = %d, want 1", count)
	}

	rec = toggleFavorite(t, h, user.ID, p.ID)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Favorite {
		t.Fatal("second toggle should remove the favorite")
	}
	db.Model(&models.Favorite{}).Where("client_id = ?", client.ID).Count(&count)
	if count != 0 {
		t.Fatalf("favorites = %d, want 0", count)
	}
}

func TestFavoriteToggleInvisibleProduct(t *testing.T) {
	db := openTestDB(t)
	user, _ := seedClientAccount(t, db) // role "horeca"
	p := seedActiveProduct(t, db, "VIP-1", 5, models.RoleSlugs{"wholesale"})
	h := NewFavoriteHandler(db)

	rec := toggleFavorite(t, h, user.ID, p.ID)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("invisible product toggled: status = %d", rec.Code)
	}
}

func TestFavoriteListPricesUseDiscount(t *testing.T) {
	db := openTestDB(t)
	user, client := seedClientAccount(t, db)
	discount := 10.0
	if err := db.Model(&models.Client{}).Where("id = ?", client.ID).Update("discount_percent", discount).Error; err != nil {
		t.Fatal(err)
	}
	p := seedActiveProduct(t, db, "TOM-1", 100, nil)
	if err := db.Create(&models.Favorite{ClientID: client.ID, ProductID: p.ID}).Error; err != nil {
		t.Fatal(err)
	}
	h := NewFavoriteHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.List(rec, asUser(req, user.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []struct {
			ProductID uint    `json:"product_id"`
			Price     float64 `json:"price"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Price != 90 {
		t.Fatalf("items = %+v, want discounted price 90", resp.Items)
	}
}
