package middlewares

import (
	"strings"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

type AuthMiddleware struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthMiddleware(authService *services.AuthService, userService *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, userService: userService}
}

// AuthToken verifies the Bearer token and stores its claims in Locals.
func (m *AuthMiddleware) AuthToken(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	token = strings.Replace(token, "Bearer ", "", 1)

	claims, err := m.authService.VerifyToken(token)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Locals("claims", claims)

	return c.Next()
}

// AuthUser loads the full user row for the authenticated claims. The role in
// the token may be stale (it was minted before an upgrade), so authorization
// always uses the stored role.
func (m *AuthMiddleware) AuthUser(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*services.TokenClaims)
	if !ok || claims == nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("User is not authenticated"))
	}

	user, err := m.userService.GetUser(claims.UserID.String())
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Account no longer exists"))
	}

	c.Locals("user", user)

	return c.Next()
}

// OptionalAuth loads the user when a valid token is present and lets the
// request through either way. Catalog endpoints use it to resolve
// wholesale pricing for upgraded accounts while staying public.
func (m *AuthMiddleware) OptionalAuth(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return c.Next()
	}

	token = strings.Replace(token, "Bearer ", "", 1)

	claims, err := m.authService.VerifyToken(token)
	if err != nil {
		return c.Next()
	}

	if user, err := m.userService.GetUser(claims.UserID.String()); err == nil {
		c.Locals("claims", claims)
		c.Locals("user", user)
	}

	return c.Next()
}

// RequireDeveloper guards routes reserved for the developer role.
func (m *AuthMiddleware) RequireDeveloper(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user == nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("User is not authenticated"))
	}

	if user.Role != models.UserRoleDeveloper {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Developer role required"))
	}

	return c.Next()
}
