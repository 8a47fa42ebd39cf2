package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SKU            string          `gorm:"uniqueIndex" json:"sku"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	Category       string          `gorm:"index" json:"category"`
	ImageURL       *string         `json:"image_url,omitempty"`
	PriceRetail    decimal.Decimal `gorm:"type:decimal(18,2)" json:"price_retail"`
	PriceWholesale decimal.Decimal `gorm:"type:decimal(18,2)" json:"price_wholesale"`
	Stock          int             `json:"stock"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
}

// PriceFor returns the unit price a user with the given role pays.
// Wholesale pricing applies to every upgraded role.
func (p *Product) PriceFor(role UserRole) decimal.Decimal {
	if role == UserRoleBasic {
		return p.PriceRetail
	}
	return p.PriceWholesale
}

type ProductCreateRequest struct {
	SKU            string          `json:"sku" validate:"required,max=64"`
	Name           string          `json:"name" validate:"required,max=255"`
	Description    *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category       string          `json:"category" validate:"required,max=100"`
	ImageURL       *string         `json:"image_url,omitempty" validate:"omitempty,url"`
	PriceRetail    decimal.Decimal `json:"price_retail" validate:"required"`
	PriceWholesale decimal.Decimal `json:"price_wholesale" validate:"required"`
	Stock          int             `json:"stock" validate:"min=0"`
}

type ProductUpdateRequest struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Description    *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category       *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL       *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	PriceRetail    *decimal.Decimal `json:"price_retail,omitempty"`
	PriceWholesale *decimal.Decimal `json:"price_wholesale,omitempty"`
	Stock          *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
}

// ProductView is a Product with the price resolved for the requesting role.
type ProductView struct {
	Product
	Price decimal.Decimal `json:"price"`
}

func NewProductView(p Product, role UserRole) ProductView {
	return ProductView{Product: p, Price: p.PriceFor(role)}
}
