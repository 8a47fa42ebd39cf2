package services

import (
	"strings"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const generatedCodeLength = 10

type CouponService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
}

func NewCouponService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService) *CouponService {
	return &CouponService{
		db:           db,
		validator:    validator,
		auditService: auditService,
	}
}

// GenerateCoupon creates a role-upgrade coupon. Codes must be unique among
// unused coupons: a spent code may be reissued, a live one may not, so a
// code can never match two redeemable coupons at once.
func (s *CouponService) GenerateCoupon(req *models.CouponGenerateRequest) (*models.Coupon, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var code string
	if req.Code != nil {
		code = strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, errors.NewBadRequestError("Coupon code must not be blank")
		}

		var existing models.Coupon
		err := s.db.Where("code = ? AND is_used = ?", code, false).First(&existing).Error
		if err == nil {
			return nil, errors.NewBadRequestError("An unused coupon with this code already exists")
		}
	} else {
		generated, err := s.generateUniqueCode()
		if err != nil {
			return nil, err
		}
		code = generated
	}

	coupon := &models.Coupon{
		Code:   code,
		Role:   req.Role,
		IsUsed: false,
	}

	if req.CreatedBy != nil {
		createdBy, err := uuid.Parse(*req.CreatedBy)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid created by ID format")
		}
		coupon.CreatedBy = &createdBy
	}

	if err := s.db.Create(coupon).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create coupon")
	}

	s.auditService.LogAudit("coupons", coupon.ID, models.AuditActionCreate, nil, coupon, coupon.CreatedBy)

	return coupon, nil
}

func (s *CouponService) generateUniqueCode() (string, error) {
	for i := 0; i < 5; i++ {
		code := pkg.RandomCouponCode(generatedCodeLength)

		var existing models.Coupon
		err := s.db.Where("code = ? AND is_used = ?", code, false).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return code, nil
		}
		if err != nil {
			return "", errors.NewInternalServerError(err, "Failed to check coupon code")
		}
	}
	return "", errors.NewInternalServerError(gorm.ErrDuplicatedKey, "Failed to generate a unique coupon code")
}

func (s *CouponService) GetCoupon(couponId string) (*models.Coupon, error) {
	couponUUID, err := uuid.Parse(couponId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid coupon ID format")
	}

	var coupon models.Coupon
	err = s.db.Where("id = ?", couponUUID).First(&coupon).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Coupon not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get coupon")
	}

	return &coupon, nil
}

func (s *CouponService) GetCoupons(pagination *models.PaginationRequest, used *bool) (*models.Pagination[[]models.Coupon], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Coupon{})
	query := s.db.Order("created_at DESC").Limit(pagination.Limit).Offset(offset)
	if used != nil {
		countQuery = countQuery.Where("is_used = ?", *used)
		query = query.Where("is_used = ?", *used)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count coupons")
	}

	var coupons []models.Coupon
	if err := query.Find(&coupons).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get coupons")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Coupon]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      coupons,
	}, nil
}
