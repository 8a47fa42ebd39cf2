package injector

import (
	"github.com/gerailabs/gerai-core/internal/app/deliveries"
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gofiber/fiber/v2"
)

// Application represents the main application container for gerai-core
type Application struct {
	HealthHandler           *deliveries.HealthHandler
	AuthHandler             *deliveries.AuthHandler
	UserHandler             *deliveries.UserHandler
	ProductHandler          *deliveries.ProductHandler
	CartHandler             *deliveries.CartHandler
	OrderHandler            *deliveries.OrderHandler
	CouponHandler           *deliveries.CouponHandler
	CouponRedemptionHandler *deliveries.CouponRedemptionHandler
	AuditHandler            *deliveries.AuditHandler
	RateLimitMiddleware     *middlewares.RateLimitMiddleware
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	// Apply global rate limit for public API
	router.Use(app.RateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit))

	app.HealthHandler.RegisterRoutes(router)
	app.AuthHandler.RegisterRoutes(router)
	app.UserHandler.RegisterRoutes(router)
	app.ProductHandler.RegisterRoutes(router)
	app.CartHandler.RegisterRoutes(router)
	app.OrderHandler.RegisterRoutes(router)
	app.CouponHandler.RegisterRoutes(router)
	app.CouponRedemptionHandler.RegisterRoutes(router)
	app.AuditHandler.RegisterRoutes(router)
}
