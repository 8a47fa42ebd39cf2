package services

import (
	"strings"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponRedemptionService atomically exchanges an unused coupon for a role
// upgrade. All reads and writes happen inside one database transaction with
// the user and coupon rows locked, so two racing redemptions of the same
// coupon serialize: one commits, the other sees the coupon as used or gone.
type CouponRedemptionService struct {
	db *gorm.DB
}

func NewCouponRedemptionService(db *gorm.DB) *CouponRedemptionService {
	return &CouponRedemptionService{
		db: db,
	}
}

// normalizeRedeemInput trims the code and rejects blank inputs before any
// store access happens.
func normalizeRedeemInput(code, userId string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.NewBadRequestError("Coupon code must not be blank").WithCode(errors.CodeInvalidInput)
	}
	if strings.TrimSpace(userId) == "" {
		return "", errors.NewBadRequestError("User ID must not be blank").WithCode(errors.CodeInvalidInput)
	}
	return code, nil
}

// checkUpgradable rejects users that are not plain basic accounts. Calling
// redeem twice for the same user therefore fails the second time no matter
// which coupon is offered.
func checkUpgradable(user *models.User) error {
	if user.Role != models.UserRoleBasic {
		return errors.NewConflictError("Account has already been upgraded").WithCode(errors.CodeAlreadyUpgraded)
	}
	return nil
}

// applyRedemption flips both sides of the exchange in memory. The coupon
// must still be unused and must grant an upgradable role.
func applyRedemption(user *models.User, coupon *models.Coupon) error {
	if coupon.IsUsed {
		return errors.NewConflictError("Coupon has already been used").WithCode(errors.CodeAlreadyUsed)
	}
	if !coupon.Role.GrantableRole() {
		return errors.NewConflictError("Coupon does not grant a valid role").WithCode(errors.CodeInvalidCode)
	}

	user.Role = coupon.Role
	coupon.IsUsed = true
	coupon.UsedBy = &user.ID
	return nil
}

// Redeem validates the (code, user) pair and commits the role upgrade and
// coupon consumption as one atomic unit. Matching is exact and
// case-sensitive on the trimmed code. When duplicate unused codes exist the
// oldest coupon wins; creation prevents new duplicates, so this only
// matters for rows that predate that check.
//
// Redeem never retries internally. Contention aborts surface as
// TRANSIENT_FAILURE and retry policy belongs to the caller.
func (s *CouponRedemptionService) Redeem(userId, code string) (*models.CouponRedeemResult, error) {
	code, err := normalizeRedeemInput(code, userId)
	if err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(userId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid user ID format").WithCode(errors.CodeInvalidInput)
	}

	var result *models.CouponRedeemResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userUUID).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewNotFoundError("User not found").WithCode(errors.CodeUserNotFound)
			}
			return err
		}

		if err := checkUpgradable(&user); err != nil {
			return err
		}

		var coupon models.Coupon
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND is_used = ?", code, false).
			Order("created_at ASC").First(&coupon).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewNotFoundError("Invalid coupon code").WithCode(errors.CodeInvalidCode)
			}
			return err
		}

		if err := applyRedemption(&user, &coupon); err != nil {
			return err
		}

		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if err := tx.Save(&coupon).Error; err != nil {
			return err
		}

		result = &models.CouponRedeemResult{NewRole: coupon.Role}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		if pkg.IsTransient(err) {
			return nil, errors.NewServiceUnavailableError(err, "Redemption aborted by contention, please retry")
		}
		return nil, errors.NewInternalServerError(err, "Failed to redeem coupon")
	}

	return result, nil
}
