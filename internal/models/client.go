package models

import (
	"time"

	"gorm.io/gorm"
)

// ClientRole is a named template: clients without their own delivery
// days or discount inherit the role defaults.
type ClientRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name            string     `gorm:"size:100;not null" json:"name"`
	Slug            string     `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	DeliveryDays    WeekdaySet `gorm:"type:text" json:"delivery_days"`
	DiscountPercent float64    `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
}

// Client is a wholesale customer. Never hard-deleted while orders
// reference it; soft delete only.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	CompanyName string `gorm:"size:255;not null;index" json:"company_name"`
	Contact     string `gorm:"size:255" json:"contact,omitempty"`
	Phone       string `gorm:"size:50" json:"phone,omitempty"`
	Email       string `gorm:"size:255" json:"email,omitempty"`
	VATNumber   string `gorm:"size:20" json:"vat_number,omitempty"`
	Locale      string `gorm:"size:5;default:'fr'" json:"locale"`

	// DiscountPercent overrides the role tier when set.
	DiscountPercent *float64 `gorm:"type:decimal(5,2)" json:"discount_percent,omitempty"`
	// DeliveryDays overrides the role default when non-empty.
	DeliveryDays WeekdaySet `gorm:"type:text" json:"delivery_days,omitempty"`

	ClientRoleID uint       `gorm:"index;not null" json:"client_role_id"`
	ClientRole   ClientRole `gorm:"foreignKey:ClientRoleID" json:"client_role,omitempty"`

	BillingAddress  Address `gorm:"type:text" json:"billing_address"`
	ShippingAddress Address `gorm:"type:text" json:"shipping_address"`
}

// EffectiveDiscount returns the client's own discount or the role tier.
func (c *Client) EffectiveDiscount() float64 {
	if c.DiscountPercent != nil {
		return *c.DiscountPercent
	}
	return c.ClientRole.DiscountPercent
}

// EffectiveDeliveryDays returns the client's own weekdays or the role
// default. May be empty, which means no delivery can be scheduled.
func (c *Client) EffectiveDeliveryDays() WeekdaySet {
	if !c.DeliveryDays.Empty() {
		return c.DeliveryDays
	}
	return c.ClientRole.DeliveryDays
}
