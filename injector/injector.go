//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/gerailabs/gerai-core/internal/app/deliveries"
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/wire"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	wire.Value("gerai"),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewAuditService,
	services.NewAuthService,
	services.NewUserService,
	services.NewProductService,
	services.NewCartService,
	services.NewOrderService,
	services.NewCouponService,
	services.NewCouponRedemptionService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewAdminKeyMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewAuthHandler,
	deliveries.NewUserHandler,
	deliveries.NewProductHandler,
	deliveries.NewCartHandler,
	deliveries.NewOrderHandler,
	deliveries.NewCouponHandler,
	deliveries.NewCouponRedemptionHandler,
	deliveries.NewAuditHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}
