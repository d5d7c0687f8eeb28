package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/models"
)

// Scoring tiers. Coarse integers on purpose: many candidates share a
// tier and ties resolve by insertion order.
const (
	scoreExact     = 100
	scorePrefix    = 75
	scoreSubstring = 50
	scoreSecondary = 25
)

const (
	searchMinQueryLen = 2
	searchPerTypeCap  = 20
	searchResultCap   = 10
)

// Search scopes.
const (
	ScopeClient   = "client"
	ScopeEmployee = "employee"
)

// SearchResult is one ranked hit.
type SearchResult struct {
	ID       uint   `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Href     string `json:"href"`
	Score    int    `json:"-"`
}

// SearchService ranks free-text matches across the entity types visible
// to the caller's scope. Candidates are fetched in small bounded sets
// and scored in process; this is not an indexed search engine.
type SearchService struct {
	DB *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{DB: db}
}

// Search returns at most 10 results with score > 0, sorted by score
// descending. Client scope sees products, its own orders and its own
// favorites; employee scope sees clients, orders, products, employees
// and categories. clientID is required for the client scope only.
func (s *SearchService) Search(ctx context.Context, query, scope, locale string, clientID uint) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < searchMinQueryLen {
		return nil
	}

	var results []SearchResult
	switch scope {
	case ScopeClient:
		results = append(results, s.searchProducts(ctx, q, locale, clientID)...)
		results = append(results, s.searchOrders(ctx, q, clientID, "/orders/detail?id=%d")...)
		results = append(results, s.searchFavorites(ctx, q, locale, clientID)...)
	case ScopeEmployee:
		results = append(results, s.searchClients(ctx, q)...)
		results = append(results, s.searchOrders(ctx, q, 0, "/admin/orders/detail?id=%d")...)
		results = append(results, s.searchProducts(ctx, q, locale, 0)...)
		results = append(results, s.searchEmployees(ctx, q)...)
		results = append(results, s.searchCategories(ctx, q, locale)...)
	default:
		return nil
	}

	kept := results[:0]
	for _, r := range results {
		if r.Score > 0 {
			kept = append(kept, r)
		}
	}
	// Stable: equal scores keep type/iteration order.
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if len(kept) > searchResultCap {
		kept = kept[:searchResultCap]
	}
	return kept
}

// scoreField rates a primary field: exact > prefix > substring.
func scoreField(q, field string) int {
	f := strings.ToLower(field)
	switch {
	case f == "":
		return 0
	case f == q:
		return scoreExact
	case strings.HasPrefix(f, q):
		return scorePrefix
	case strings.Contains(f, q):
		return scoreSubstring
	}
	return 0
}

// scoreSecondaryField rates a secondary field: substring only, lowest
// non-zero tier.
func scoreSecondaryField(q, field string) int {
	if field != "" && strings.Contains(strings.ToLower(field), q) {
		return scoreSecondary
	}
	return 0
}

func best(scores ...int) int {
	m := 0
	for _, s := range scores {
		if s > m {
			m = s
		}
	}
	return m
}

// searchProducts scores active products. With a clientID the candidate
// set is additionally filtered by the client's role visibility.
func (s *SearchService) searchProducts(ctx context.Context, q, locale string, clientID uint) []SearchResult {
	var roleSlug string
	if clientID != 0 {
		var client models.Client
		if err := s.DB.WithContext(ctx).Preload("ClientRole").First(&client, clientID).Error; err != nil {
			return nil
		}
		roleSlug = client.ClientRole.Slug
	}
	var products []models.Product
	if err := s.DB.WithContext(ctx).Where("active = ?", true).Limit(searchPerTypeCap).Find(&products).Error; err != nil {
		return nil
	}
	var out []SearchResult
	for _, p := range products {
		if clientID != 0 && !p.VisibleTo(roleSlug) {
			continue
		}
		name := p.Name.Resolve(locale)
		score := best(
			scoreField(q, p.SKU),
			scoreField(q, name),
			scoreSecondaryField(q, p.Description.Resolve(locale)),
		)
		out = append(out, SearchResult{
			ID:       p.ID,
			Type:     "product",
			Title:    name,
			Subtitle: p.SKU,
			Href:     fmt.Sprintf("/catalog/product?id=%d", p.ID),
			Score:    score,
		})
	}
	return out
}

func (s *SearchService) searchOrders(ctx context.Context, q string, clientID uint, hrefFormat string) []SearchResult {
	dbq := s.DB.WithContext(ctx).Model(&models.Order{})
	if clientID != 0 {
		dbq = dbq.Where("client_id = ?", clientID)
	}
	var orders []models.Order
	if err := dbq.Order("id desc").Limit(searchPerTypeCap).Find(&orders).Error; err != nil {
		return nil
	}
	var out []SearchResult
	for _, o := range orders {
		score := best(
			scoreField(q, fmt.Sprintf("%d", o.ID)),
			scoreField(q, o.Status),
			scoreSecondaryField(q, o.Notes),
		)
		out = append(out, SearchResult{
			ID:       o.ID,
			Type:     "order",
			Title:    fmt.Sprintf("#%d", o.ID),
			Subtitle: o.Status,
			Href:     fmt.Sprintf(hrefFormat, o.ID),
			Score:    score,
		})
	}
	return out
}

func (s *SearchService) searchFavorites(ctx context.Context, q, locale string, clientID uint) []SearchResult {
	var favs []models.Favorite
	if err := s.DB.WithContext(ctx).Preload("Product").Where("client_id = ?", clientID).Limit(searchPerTypeCap).Find(&favs).Error; err != nil {
		return nil
	}
	var out []SearchResult
	for _, f := range favs {
		name := f.Product.Name.Resolve(locale)
		score := best(
			scoreField(q, name),
			scoreField(q, f.Product.SKU),
		)
		out = append(out, SearchResult{
			ID:       f.ProductID,
			Type:     "favorite",
			Title:    name,
			Subtitle: f.Product.SKU,
			Href:     fmt.Sprintf("/catalog/product?id=%d", f.ProductID),
			Score:    score,
		})
	}
	return out
}

func (s *SearchService) searchClients(ctx context.Context, q string) []SearchResult {
	var clients []models.Client
	if err := s.DB.WithContext(ctx).Limit(searchPerTypeCap).Find(&clients).Error; err != nil {
		return nil
	}
	var out []SearchResult
	for _, c := range clients {
		score := best(
			scoreField(q, c.CompanyName),
			scoreSecondaryField(q, c.Contact),
			scoreSecondaryField(q, c.Email),
		)
		out = append(out, SearchResult{
			ID:       c.ID,
			Type:     "client",
			Title:    c.CompanyName,
			Subtitle: c.Contact,
			Href:     fmt.Sprintf("/admin/clients/detail?id=%d", c.ID),
			Score:    score,
		})
	}
	return out
}

func (s *SearchService) searchEmployees(ctx context.Context, q string) []SearchResult {
	var employees []models.Employee
	if err := s.DB.WithContext(ctx).Preload("Role").Limit(searchPerTypeCap).Find(&employees).Error; err != nil {
		return nil
	}
	var out []SearchResult
	for _, e := range employees {
		score := best(
			scoreField(q, e.FullName()),
			scoreSecondaryField(q, e.Role.Name),
		)
		out = append(out, SearchResult{
			ID:       e.ID,
			Type:     "employee",
			Title:    e.FullName(),
			Subtitle: e.Role.Name,
			Href:     fmt.Sprintf("/admin/employees/detail?id=%d", e.ID),
			Score:    score,
		})
	}
	return out
}

func (s *SearchService) searchCategories(ctx context.Context, q, locale string) []SearchResult {
	var categories []models.Category
	if err := s.DB.WithContext(ctx).Limit(searchPerTypeCap).Find(&categories).Error; err != nil {
		return nil
	}
	var out []SearchResult
	for _, c := range categories {
		name := c.Name.Resolve(locale)
		score := best(
			scoreField(q, name),
			scoreSecondaryField(q, c.Description.Resolve(locale)),
		)
		out = append(out, SearchResult{
			ID:       c.ID,
			Type:     "category",
			Title:    name,
			Href:     fmt.Sprintf("/admin/categories/detail?id=%d", c.ID),
			Score:    score,
		})
	}
	return out
}
