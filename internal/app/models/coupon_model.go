package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a single-use role-upgrade voucher. Coupons are never deleted;
// once IsUsed flips to true the row is permanently inert and UsedBy is
// immutable.
type Coupon struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code      string     `gorm:"index" json:"code"`
	Role      UserRole   `json:"role"`
	IsUsed    bool       `gorm:"default:false" json:"is_used"`
	UsedBy    *uuid.UUID `json:"used_by,omitempty"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type CouponGenerateRequest struct {
	Code      *string  `json:"code,omitempty" validate:"omitempty,min=4,max=50"`
	Role      UserRole `json:"role" validate:"required,oneof=wholesaler shop-owner"`
	CreatedBy *string  `json:"created_by,omitempty" validate:"omitempty,uuid"`
}

type CouponRedeemRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}

type CouponRedeemResult struct {
	NewRole UserRole `json:"new_role"`
}
