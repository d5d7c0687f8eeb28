package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dvanheule/comptoir/internal/i18n"
	"github.com/dvanheule/comptoir/internal/models"
)

// Result codes returned by Submit. They are part of the form contract:
// the UI maps each code to a translated message.
const (
	CodeCartEmpty       = "cart-empty"
	CodeValidationError = "validation-error"
	CodeProductMismatch = "product-mismatch"
	CodeUnauthorized    = "unauthorized"
	CodeOrderError      = "order-error"
	CodeItemsError      = "items-error"
	CodeUnknown         = "unknown"
)

// Sentinel errors for employee-side order updates.
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrNegativeAmount = errors.New("negative amount")
)

// SubmitItem is one cart line as submitted by the client.
type SubmitItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// SubmitInput is a cart snapshot. When ExistingOrderID is zero a new
// pending order is created; otherwise the caller's pending order is
// overwritten in place.
type SubmitInput struct {
	ClientID        uint
	Locale          string
	Items           []SubmitItem
	Notes           string
	DeliveryDate    *time.Time
	ExistingOrderID uint
}

// SubmitResult is a discriminated result value: Code is empty on
// success and one of the Code* constants otherwise.
type SubmitResult struct {
	OrderID uint
	Code    string
}

// OK reports success.
func (r SubmitResult) OK() bool { return r.Code == "" }

// OrderService owns the order lifecycle: submit, employee update and
// the auto-confirmation sweep.
type OrderService struct {
	DB       *gorm.DB
	Settings *SettingsService

	// Now is the clock, replaceable in tests.
	Now func() time.Time
}

func NewOrderService(db *gorm.DB, settings *SettingsService) *OrderService {
	return &OrderService{DB: db, Settings: settings, Now: time.Now}
}

// Submit validates a cart snapshot and writes it as the client's single
// pending order. The whole update/delete/insert sequence runs in one
// transaction; item snapshots (localized name, discounted unit price,
// subtotal) and the estimated total are stamped here, inside that
// transaction.
func (s *OrderService) Submit(ctx context.Context, in SubmitInput) SubmitResult {
	if len(in.Items) == 0 {
		return SubmitResult{Code: CodeCartEmpty}
	}
	for _, it := range in.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return SubmitResult{Code: CodeValidationError}
		}
	}

	var client models.Client
	if err := s.DB.WithContext(ctx).Preload("ClientRole").First(&client, in.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitResult{Code: CodeUnauthorized}
		}
		log.Error().Err(err).Uint("client_id", in.ClientID).Msg("order submit: load client")
		return SubmitResult{Code: CodeUnknown}
	}

	locale := in.Locale
	if !i18n.Supported(locale) {
		locale = s.Settings.DefaultLocale()
	}

	ids := distinctProductIDs(in.Items)
	var products []models.Product
	if err := s.DB.WithContext(ctx).Where("id IN ? AND active = ?", ids, true).Find(&products).Error; err != nil {
		log.Error().Err(err).Msg("order submit: load products")
		return SubmitResult{Code: CodeUnknown}
	}
	if len(products) != len(ids) {
		return SubmitResult{Code: CodeProductMismatch}
	}
	prodByID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		if !p.VisibleTo(client.ClientRole.Slug) {
			// A product the client cannot see is treated like one that
			// does not exist.
			return SubmitResult{Code: CodeProductMismatch}
		}
		prodByID[p.ID] = p
	}

	now := s.Now()
	var order models.Order
	if in.ExistingOrderID != 0 {
		if err := s.DB.WithContext(ctx).First(&order, in.ExistingOrderID).Error; err != nil {
			return SubmitResult{Code: CodeUnauthorized}
		}
		if order.ClientID != in.ClientID || order.Status != models.OrderStatusPending {
			return SubmitResult{Code: CodeUnauthorized}
		}
	}

	deliveryDate := in.DeliveryDate
	if deliveryDate == nil {
		if d, ok := NextDeliveryDate(now, client.EffectiveDeliveryDays(), s.Settings.CutoffTime(), s.Settings.CutoffDayOffset()); ok {
			deliveryDate = &d
		}
	} else {
		d := midnight(*deliveryDate)
		deliveryDate = &d
	}

	discount := client.EffectiveDiscount()
	items := make([]models.OrderItem, 0, len(in.Items))
	var estimated float64
	for _, it := range in.Items {
		p := prodByID[it.ProductID]
		unit := DiscountedPrice(p.UnitPrice, discount)
		sub := Round2(unit * float64(it.Quantity))
		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			Quantity:    it.Quantity,
			ProductName: p.Name.Resolve(locale),
			UnitPrice:   unit,
			Subtotal:    sub,
		})
		estimated += sub
	}
	estimated = Round2(estimated)

	errOrderWrite := errors.New("order write")
	errItemsWrite := errors.New("items write")

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ExistingOrderID != 0 {
			updates := map[string]any{
				"delivery_date":       deliveryDate,
				"notes":               in.Notes,
				"locale":              locale,
				"estimated_total":     estimated,
				"status_refreshed_at": now,
			}
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return errors.Join(errOrderWrite, err)
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return errors.Join(errItemsWrite, err)
			}
		} else {
			order = models.Order{
				ClientID:          in.ClientID,
				Status:            models.OrderStatusPending,
				DeliveryDate:      deliveryDate,
				Notes:             in.Notes,
				Locale:            locale,
				EstimatedTotal:    &estimated,
				StatusRefreshedAt: now,
			}
			if err := tx.Create(&order).Error; err != nil {
				return errors.Join(errOrderWrite, err)
			}
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return errors.Join(errItemsWrite, err)
		}
		return nil
	})
	if txErr != nil {
		log.Error().Err(txErr).Uint("client_id", in.ClientID).Msg("order submit failed")
		switch {
		case errors.Is(txErr, errItemsWrite):
			return SubmitResult{Code: CodeItemsError}
		case errors.Is(txErr, errOrderWrite):
			return SubmitResult{Code: CodeOrderError}
		default:
			return SubmitResult{Code: CodeUnknown}
		}
	}
	return SubmitResult{OrderID: order.ID}
}

func distinctProductIDs(items []SubmitItem) []uint {
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}

// EmployeeUpdateInput sets order fields directly. Nil fields are left
// untouched. Status changes are an open field: any valid status value
// may be set regardless of the current one.
type EmployeeUpdateInput struct {
	Status     *string
	FinalTotal *float64
	Notes      *string
}

// EmployeeUpdate applies an employee edit to any order.
func (s *OrderService) EmployeeUpdate(ctx context.Context, orderID uint, in EmployeeUpdateInput) error {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	updates := map[string]any{}
	if in.Status != nil {
		if !models.ValidOrderStatus(*in.Status) {
			return ErrInvalidStatus
		}
		updates["status"] = *in.Status
		updates["status_refreshed_at"] = s.Now()
	}
	if in.FinalTotal != nil {
		if *in.FinalTotal < 0 {
			return ErrNegativeAmount
		}
		updates["final_total"] = Round2(*in.FinalTotal)
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Model(&order).Updates(updates).Error
}

// AutoConfirmPastDeadline flips every pending order whose delivery date
// is strictly before today to confirmed. The statement is idempotent,
// so concurrent sweeps are harmless (merely redundant). Called before
// order listing/detail reads and by the background scheduler.
func (s *OrderService) AutoConfirmPastDeadline(ctx context.Context) (int64, error) {
	today := midnight(s.Now())
	res := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND delivery_date IS NOT NULL AND delivery_date < ?", models.OrderStatusPending, today).
		Updates(map[string]any{"status": models.OrderStatusConfirmed, "status_refreshed_at": s.Now()})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Info().Int64("orders", res.RowsAffected).Msg("auto-confirmed past-deadline orders")
	}
	return res.RowsAffected, nil
}
