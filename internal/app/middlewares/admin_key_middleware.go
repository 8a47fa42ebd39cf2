package middlewares

import (
	"crypto/subtle"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/gofiber/fiber/v2"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware guards the back-office endpoints with the single
// operator key from configuration.
type AdminKeyMiddleware struct {
	adminKey string
}

func NewAdminKeyMiddleware() *AdminKeyMiddleware {
	return &AdminKeyMiddleware{
		adminKey: infrastructures.Config.ADMIN_API_KEY,
	}
}

func (m *AdminKeyMiddleware) RequireAdminKey(c *fiber.Ctx) error {
	if m.adminKey == "" {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Admin access is not configured"))
	}

	provided := c.Get(adminKeyHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(m.adminKey)) != 1 {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid admin key"))
	}

	return c.Next()
}
