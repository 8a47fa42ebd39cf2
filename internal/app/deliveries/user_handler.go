package deliveries

import (
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService         *services.UserService
	authMiddleware      *middlewares.AuthMiddleware
	adminKeyMiddleware  *middlewares.AdminKeyMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewUserHandler(userService *services.UserService, authMiddleware *middlewares.AuthMiddleware, adminKeyMiddleware *middlewares.AdminKeyMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *UserHandler {
	return &UserHandler{
		userService:         userService,
		authMiddleware:      authMiddleware,
		adminKeyMiddleware:  adminKeyMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userGroup := router.Group("/users")

	userLimit := h.rateLimitMiddleware.LimitByUser(middlewares.AuthenticatedAPILimit)
	userGroup.Get("/me", h.authMiddleware.AuthToken, userLimit, h.authMiddleware.AuthUser, h.GetMe)
	userGroup.Patch("/me", h.authMiddleware.AuthToken, userLimit, h.authMiddleware.AuthUser, h.UpdateMe)

	// Console reads are for logged-in developer accounts; only deletion
	// stays behind the operator key.
	userGroup.Get("/", h.authMiddleware.AuthToken, userLimit, h.authMiddleware.AuthUser, h.authMiddleware.RequireDeveloper, h.GetUsers)
	userGroup.Get("/:id", h.authMiddleware.AuthToken, userLimit, h.authMiddleware.AuthUser, h.authMiddleware.RequireDeveloper, h.GetUser)
	userGroup.Delete("/:id", h.adminKeyMiddleware.RequireAdminKey, h.DeleteUser)
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return pkg.SuccessResponse(c, user)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req models.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	updated, err := h.userService.UpdateUser(user.ID.String(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, updated)
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	pagination := &models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}

	var role *models.UserRole
	if roleStr := c.Query("role"); roleStr != "" {
		r := models.UserRole(roleStr)
		role = &r
	}

	users, err := h.userService.GetUsers(pagination, role)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, users)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, user)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Params("id")); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
