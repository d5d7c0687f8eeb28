package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// RoleSlugs restricts product visibility to a set of client role slugs.
// Empty means visible to every client. Stored as a JSON array column.
type RoleSlugs []string

// Contains reports whether slug is listed.
func (r RoleSlugs) Contains(slug string) bool {
	for _, s := range r {
		if s == slug {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (r RoleSlugs) Value() (driver.Value, error) {
	if r == nil {
		r = RoleSlugs{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *RoleSlugs) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("role slugs: unsupported column type")
	}
	if len(raw) == 0 {
		*r = nil
		return nil
	}
	return json.Unmarshal(raw, r)
}

// Category groups products; names and descriptions are localized.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        LocalizedText `gorm:"type:text;not null" json:"name"`
	Description LocalizedText `gorm:"type:text" json:"description,omitempty"`
}

// Product is a catalog entry priced per unit before client discount.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SKU         string        `gorm:"size:40;uniqueIndex;not null" json:"sku"`
	Name        LocalizedText `gorm:"type:text;not null" json:"name"`
	Description LocalizedText `gorm:"type:text" json:"description,omitempty"`

	CategoryID uint     `gorm:"index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	UnitPrice      float64  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Unit           string   `gorm:"size:20;default:'piece'" json:"unit"`
	ApproxWeightKg *float64 `gorm:"type:decimal(8,3)" json:"approx_weight_kg,omitempty"`

	VisibleToRoles RoleSlugs `gorm:"type:text" json:"visible_to_roles,omitempty"`
	Active         bool      `gorm:"default:true" json:"active"`
}

// VisibleTo reports whether a client with the given role slug may see
// the product. An empty restriction list means visible to all.
func (p *Product) VisibleTo(roleSlug string) bool {
	if len(p.VisibleToRoles) == 0 {
		return true
	}
	return p.VisibleToRoles.Contains(roleSlug)
}
