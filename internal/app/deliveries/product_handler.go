package deliveries

import (
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService     *services.ProductService
	authMiddleware     *middlewares.AuthMiddleware
	adminKeyMiddleware *middlewares.AdminKeyMiddleware
}

func NewProductHandler(productService *services.ProductService, authMiddleware *middlewares.AuthMiddleware, adminKeyMiddleware *middlewares.AdminKeyMiddleware) *ProductHandler {
	return &ProductHandler{
		productService:     productService,
		authMiddleware:     authMiddleware,
		adminKeyMiddleware: adminKeyMiddleware,
	}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productGroup := router.Group("/products")

	// Public catalog; pricing follows the caller's role when a token is sent
	productGroup.Get("/", h.authMiddleware.OptionalAuth, h.GetProducts)
	productGroup.Get("/search", h.authMiddleware.OptionalAuth, h.SearchProducts)
	productGroup.Get("/:id", h.authMiddleware.OptionalAuth, h.GetProduct)

	// Back-office
	productGroup.Post("/", h.adminKeyMiddleware.RequireAdminKey, h.CreateProduct)
	productGroup.Patch("/:id", h.adminKeyMiddleware.RequireAdminKey, h.UpdateProduct)
	productGroup.Delete("/:id", h.adminKeyMiddleware.RequireAdminKey, h.DeleteProduct)
}

// requestRole resolves the pricing role for the current request.
func requestRole(c *fiber.Ctx) models.UserRole {
	if user, ok := c.Locals("user").(*models.User); ok && user != nil {
		return user.Role
	}
	return models.UserRoleBasic
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	pagination := &models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}

	var category *string
	if cat := c.Query("category"); cat != "" {
		category = &cat
	}

	products, err := h.productService.GetProducts(pagination, category, requestRole(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, products)
}

func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	pagination := &models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}

	products, err := h.productService.SearchProducts(c.Query("q"), pagination, requestRole(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, models.NewProductView(*product, requestRole(c)))
}

// changedBy extracts the acting user for audit attribution, when known.
func changedBy(c *fiber.Ctx) *uuid.UUID {
	if user, ok := c.Locals("user").(*models.User); ok && user != nil {
		return &user.ID
	}
	return nil
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	product, err := h.productService.CreateProduct(&req, changedBy(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req models.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	product, err := h.productService.UpdateProduct(c.Params("id"), &req, changedBy(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Params("id"), changedBy(c)); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
