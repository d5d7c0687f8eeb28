package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dvanheule/comptoir/internal/models"
)

func TestSearchQueryTooShort(t *testing.T) {
	db := openTestDB(t)
	svc := NewSearchService(db)
	if got := svc.Search(context.Background(), "a", ScopeEmployee, "fr", 0); got != nil {
		t.Fatalf("one-letter query returned %d results", len(got))
	}
	if got := svc.Search(context.Background(), "   ", ScopeEmployee, "fr", 0); got != nil {
		t.Fatalf("blank query returned %d results", len(got))
	}
}

func TestSearchUnknownScope(t *testing.T) {
	db := openTestDB(t)
	seedProduct(t, db, "TOM-1", 5, nil)
	svc := NewSearchService(db)
	if got := svc.Search(context.Background(), "tom", "visitor", "fr", 0); got != nil {
		t.Fatalf("unknown scope returned %d results", len(got))
	}
}

func TestSearchExactSKUOutranksSubstring(t *testing.T) {
	db := openTestDB(t)
	exact := seedProduct(t, db, "TOM-1", 5, nil)
	p := models.Product{
		SKU:       "CON-1",
		Name:      models.LocalizedText{Fr: "Concombre tom-1 bis"},
		UnitPrice: 3,
		Active:    true,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}

	svc := NewSearchService(db)
	got := svc.Search(context.Background(), "TOM-1", ScopeEmployee, "fr", 0)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != exact.ID || got[0].Type != "product" {
		t.Fatalf("first result = %+v, want exact SKU match", got[0])
	}
	if got[1].ID != p.ID {
		t.Fatalf("second result = %+v, want substring match", got[1])
	}
}

func TestSearchClientScopeHonorsRoleVisibility(t *testing.T) {
	db := openTestDB(t)
	client := seedClient(t, db) // role slug "horeca"
	visible := seedProduct(t, db, "TOM-1", 5, models.RoleSlugs{"horeca"})
	seedProduct(t, db, "TOM-2", 5, models.RoleSlugs{"wholesale"})

	svc := NewSearchService(db)
	got := svc.Search(context.Background(), "tom", ScopeClient, "fr", client.ID)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].ID != visible.ID {
		t.Fatalf("got product %d, want %d", got[0].ID, visible.ID)
	}
}

func TestSearchResultCap(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 15; i++ {
		seedProduct(t, db, fmt.Sprintf("TOM-%d", i), 5, nil)
	}
	svc := NewSearchService(db)
	got := svc.Search(context.Background(), "tom", ScopeEmployee, "fr", 0)
	if len(got) != 10 {
		t.Fatalf("got %d results, want the cap of 10", len(got))
	}
}

func TestSearchEmployeeScopeFindsClients(t *testing.T) {
	db := openTestDB(t)
	client := seedClient(t, db) // "Brasserie Midi"
	svc := NewSearchService(db)
	got := svc.Search(context.Background(), "brasserie", ScopeEmployee, "fr", 0)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Type != "client" || got[0].ID != client.ID {
		t.Fatalf("unexpected result: %+v", got[0])
	}
	if got[0].Href != fmt.Sprintf("/admin/clients/detail?id=%d", client.ID) {
		t.Fatalf("href = %q", got[0].Href)
	}
}

func TestSearchClientScopeExcludesOtherClientsOrders(t *testing.T) {
	db := openTestDB(t)
	client := seedClient(t, db)
	p := seedProduct(t, db, "AB-1", 10, nil)
	svc := newOrderService(db, mustDate(t, "2026-01-05 10:00"))
	res := svc.Submit(context.Background(), SubmitInput{
		ClientID: client.ID,
		Items:    []SubmitItem{{ProductID: p.ID, Quantity: 1}},
	})
	if !res.OK() {
		t.Fatalf("submit: %q", res.Code)
	}

	otherUser := models.User{Email: "other@example.com", Password: "x", Active: true}
	if err := db.Create(&otherUser).Error; err != nil {
		t.Fatal(err)
	}
	other := models.Client{UserID: otherUser.ID, CompanyName: "Autre", Locale: "fr", ClientRoleID: client.ClientRoleID}
	if err := db.Create(&other).Error; err != nil {
		t.Fatal(err)
	}

	search := NewSearchService(db)
	got := search.Search(context.Background(), "pending", ScopeClient, "fr", other.ID)
	for _, r := range got {
		if r.Type == "order" {
			t.Fatalf("foreign order leaked into client scope: %+v", r)
		}
	}
}
