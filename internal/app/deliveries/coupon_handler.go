package deliveries

import (
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

type CouponHandler struct {
	couponService      *services.CouponService
	adminKeyMiddleware *middlewares.AdminKeyMiddleware
}

func NewCouponHandler(couponService *services.CouponService, adminKeyMiddleware *middlewares.AdminKeyMiddleware) *CouponHandler {
	return &CouponHandler{
		couponService:      couponService,
		adminKeyMiddleware: adminKeyMiddleware,
	}
}

func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	couponGroup := router.Group("/coupons")
	couponGroup.Use(h.adminKeyMiddleware.RequireAdminKey)

	couponGroup.Post("/", h.GenerateCoupon)
	couponGroup.Get("/", h.GetCoupons)
	couponGroup.Get("/:id", h.GetCoupon)
}

func (h *CouponHandler) GenerateCoupon(c *fiber.Ctx) error {
	var req models.CouponGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	coupon, err := h.couponService.GenerateCoupon(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, coupon)
}

func (h *CouponHandler) GetCoupons(c *fiber.Ctx) error {
	pagination := &models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}

	var used *bool
	if usedStr := c.Query("used"); usedStr != "" {
		u := usedStr == "true"
		used = &u
	}

	coupons, err := h.couponService.GetCoupons(pagination, used)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, coupons)
}

func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	coupon, err := h.couponService.GetCoupon(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, coupon)
}
