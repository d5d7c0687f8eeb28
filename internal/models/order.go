package models

import "time"

// Order lifecycle statuses. An employee may set any status directly;
// there is no validated transition table beyond the value set itself.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every status in lifecycle order, for filters and
// select inputs.
var OrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order belongs to exactly one client. The partial unique index on
// client_id enforces the one-pending-order-per-client invariant at the
// database level, so a double submit from two tabs cannot create two
// pending orders.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint   `gorm:"not null;index;index:idx_orders_client_pending,unique,where:status = 'pending'" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID" json:"-"`

	Status       string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"` // date only, local midnight
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`
	Locale       string     `gorm:"size:5;default:'fr'" json:"locale"`

	// EstimatedTotal is recomputed from the line items on every submit.
	// FinalTotal is set by an employee after confirmation.
	EstimatedTotal *float64 `gorm:"type:decimal(12,2)" json:"estimated_total,omitempty"`
	FinalTotal     *float64 `gorm:"type:decimal(12,2)" json:"final_total,omitempty"`

	StatusRefreshedAt time.Time `json:"status_refreshed_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem snapshots product name, discounted unit price and subtotal
// at submit time. Snapshots are immutable: a resubmit replaces the
// whole item set instead of editing rows.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`

	Quantity    int     `gorm:"not null" json:"quantity"`
	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal    float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// Favorite bookmarks a product for a client, unique per pair.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ClientID  uint    `gorm:"not null;uniqueIndex:idx_fav_client_product" json:"client_id"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_fav_client_product" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
