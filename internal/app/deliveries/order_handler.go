package deliveries

import (
	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService        *services.OrderService
	authMiddleware      *middlewares.AuthMiddleware
	adminKeyMiddleware  *middlewares.AdminKeyMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewOrderHandler(orderService *services.OrderService, authMiddleware *middlewares.AuthMiddleware, adminKeyMiddleware *middlewares.AdminKeyMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *OrderHandler {
	return &OrderHandler{
		orderService:        orderService,
		authMiddleware:      authMiddleware,
		adminKeyMiddleware:  adminKeyMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderGroup := router.Group("/orders")

	userLimit := h.rateLimitMiddleware.LimitByUser(middlewares.AuthenticatedAPILimit)
	orderGroup.Post("/checkout", h.authMiddleware.AuthToken, userLimit, h.authMiddleware.AuthUser, h.Checkout)
	orderGroup.Get("/me", h.authMiddleware.AuthToken, userLimit, h.authMiddleware.AuthUser, h.GetMyOrders)
	orderGroup.Get("/:id", h.authMiddleware.AuthToken, userLimit, h.authMiddleware.AuthUser, h.GetOrder)

	// Back-office
	orderGroup.Get("/", h.adminKeyMiddleware.RequireAdminKey, h.GetOrders)
	orderGroup.Patch("/:id/status", h.adminKeyMiddleware.RequireAdminKey, h.UpdateStatus)
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	order, err := h.orderService.Checkout(user, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, order)
}

func (h *OrderHandler) GetMyOrders(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	pagination := &models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}

	orders, err := h.orderService.GetOrdersByUser(user.ID, pagination)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, orders)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	order, err := h.orderService.GetOrder(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	// Customers only see their own orders.
	if order.UserID != user.ID && user.Role != models.UserRoleDeveloper {
		return pkg.ErrorResponse(c, errors.NewNotFoundError("Order not found"))
	}

	return pkg.SuccessResponse(c, order)
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	pagination := &models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}

	var status *models.OrderStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.OrderStatus(statusStr)
		status = &s
	}

	orders, err := h.orderService.GetOrders(pagination, status)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, orders)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req models.OrderStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	order, err := h.orderService.UpdateStatus(c.Params("id"), &req, changedBy(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, order)
}
