package middlewares

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubLimiter struct {
	allow   bool
	lastKey string
}

func (s *stubLimiter) Allow(key string, limit Rate) (bool, RateLimitInfo) {
	s.lastKey = key
	return s.allow, RateLimitInfo{Limit: limit.Requests, Remaining: limit.Requests - 1}
}

func (s *stubLimiter) Reset(key string) error { return nil }

func TestLimitByUserKeysOnAuthenticatedUser(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	m := NewRateLimitMiddleware(limiter)
	userID := uuid.New()

	app := fiber.New()
	app.Get("/ping",
		func(c *fiber.Ctx) error {
			c.Locals("claims", &services.TokenClaims{UserID: userID})
			return c.Next()
		},
		m.LimitByUser(AuthenticatedAPILimit),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := "user:" + userID.String()
	if limiter.lastKey != want {
		t.Fatalf("expected limiter key %q, got %q", want, limiter.lastKey)
	}
	if resp.Header.Get("X-RateLimit-Limit") == "" {
		t.Fatal("expected X-RateLimit-Limit header")
	}
}

func TestLimitByUserFallsBackToIPWithoutClaims(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	m := NewRateLimitMiddleware(limiter)

	app := fiber.New()
	app.Get("/ping",
		m.LimitByUser(AuthenticatedAPILimit),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	if _, err := app.Test(httptest.NewRequest("GET", "/ping", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(limiter.lastKey, "ip:") {
		t.Fatalf("expected ip-keyed limit, got %q", limiter.lastKey)
	}
}

func TestLimitByUserRejectsWhenWindowExhausted(t *testing.T) {
	limiter := &stubLimiter{allow: false}
	m := NewRateLimitMiddleware(limiter)

	app := fiber.New()
	app.Get("/ping",
		func(c *fiber.Ctx) error {
			c.Locals("claims", &services.TokenClaims{UserID: uuid.New()})
			return c.Next()
		},
		m.LimitByUser(AuthenticatedAPILimit),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}

func TestRequireDeveloper(t *testing.T) {
	m := &AuthMiddleware{}

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"developer passes", &models.User{ID: uuid.New(), Role: models.UserRoleDeveloper}, fiber.StatusOK},
		{"basic forbidden", &models.User{ID: uuid.New(), Role: models.UserRoleBasic}, fiber.StatusForbidden},
		{"wholesaler forbidden", &models.User{ID: uuid.New(), Role: models.UserRoleWholesaler}, fiber.StatusForbidden},
		{"unauthenticated", nil, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/console",
				func(c *fiber.Ctx) error {
					if tt.user != nil {
						c.Locals("user", tt.user)
					}
					return c.Next()
				},
				m.RequireDeveloper,
				func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

			resp, err := app.Test(httptest.NewRequest("GET", "/console", nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}
