package deliveries

import (
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService         *services.AuthService
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewAuthHandler(authService *services.AuthService, rateLimitMiddleware *middlewares.RateLimitMiddleware) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authGroup := router.Group("/auth")
	authGroup.Use(h.rateLimitMiddleware.LimitByIP(middlewares.AuthLimit))

	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	tokens, err := h.authService.Login(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, tokens)
}
