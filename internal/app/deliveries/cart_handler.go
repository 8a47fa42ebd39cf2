package deliveries

import (
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	cartService         *services.CartService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewCartHandler(cartService *services.CartService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *CartHandler {
	return &CartHandler{
		cartService:         cartService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartGroup := router.Group("/carts")
	cartGroup.Use(h.authMiddleware.AuthToken,
		h.rateLimitMiddleware.LimitByUser(middlewares.AuthenticatedAPILimit),
		h.authMiddleware.AuthUser)

	cartGroup.Get("/me", h.GetCart)
	cartGroup.Put("/me/items", h.PutItem)
	cartGroup.Post("/me/reconcile", h.Reconcile)
	cartGroup.Delete("/me", h.ClearCart)
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	cart, err := h.cartService.GetCart(user)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, cart)
}

func (h *CartHandler) PutItem(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req models.CartPutItemRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	cart, err := h.cartService.PutItem(user, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, cart)
}

func (h *CartHandler) Reconcile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req models.CartReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	cart, err := h.cartService.Reconcile(user, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, cart)
}

func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := h.cartService.ClearCart(user); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
