package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"index:idx_cart_user_product,unique" json:"user_id"`
	ProductID uuid.UUID `gorm:"index:idx_cart_user_product,unique" json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type CartPutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

// CartLineInput is one locally persisted (product, quantity) pair submitted
// for reconciliation. Both fields are deliberately unvalidated here:
// reconciliation drops unparseable ids and repairs out-of-range quantities
// instead of rejecting the whole cart, while checkout re-validates each
// line itself.
type CartLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartReconcileRequest struct {
	Items []CartLineInput `json:"items" validate:"dive"`
}

// CartLine is a reconciled cart entry priced for the requesting user.
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	ImageURL    *string         `json:"image_url,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	StockLeft   int             `json:"stock_left"`
	QtyAdjusted bool            `json:"qty_adjusted"`
}

type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
