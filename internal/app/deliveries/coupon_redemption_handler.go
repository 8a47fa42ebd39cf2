package deliveries

import (
	"time"

	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

// Transient redemption failures are retried here, not inside the service:
// the transaction itself must stay single-shot.
const (
	redeemRetryAttempts = 3
	redeemRetryBackoff  = 50 * time.Millisecond
)

type CouponRedemptionHandler struct {
	couponRedemptionService *services.CouponRedemptionService
	authMiddleware          *middlewares.AuthMiddleware
	rateLimitMiddleware     *middlewares.RateLimitMiddleware
}

func NewCouponRedemptionHandler(couponRedemptionService *services.CouponRedemptionService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *CouponRedemptionHandler {
	return &CouponRedemptionHandler{
		couponRedemptionService: couponRedemptionService,
		authMiddleware:          authMiddleware,
		rateLimitMiddleware:     rateLimitMiddleware,
	}
}

func (h *CouponRedemptionHandler) RegisterRoutes(router fiber.Router) {
	redemptionGroup := router.Group("/coupon-redemptions")
	redemptionGroup.Use(h.authMiddleware.AuthToken, h.authMiddleware.AuthUser)
	redemptionGroup.Use(h.rateLimitMiddleware.LimitByUser(middlewares.RedemptionLimit))

	redemptionGroup.Post("/redeem", h.RedeemCoupon)
}

func (h *CouponRedemptionHandler) RedeemCoupon(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req models.CouponRedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	var result *models.CouponRedeemResult
	err := pkg.Retry(redeemRetryAttempts, redeemRetryBackoff, func() error {
		var redeemErr error
		result, redeemErr = h.couponRedemptionService.Redeem(user.ID.String(), req.Code)
		return redeemErr
	})
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
