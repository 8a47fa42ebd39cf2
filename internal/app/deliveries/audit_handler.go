package deliveries

import (
	"github.com/gerailabs/gerai-core/internal/app/middlewares"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/app/services"
	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	auditService   *services.AuditService
	authMiddleware *middlewares.AuthMiddleware
}

func NewAuditHandler(auditService *services.AuditService, authMiddleware *middlewares.AuthMiddleware) *AuditHandler {
	return &AuditHandler{
		auditService:   auditService,
		authMiddleware: authMiddleware,
	}
}

func (h *AuditHandler) RegisterRoutes(router fiber.Router) {
	auditGroup := router.Group("/audit-logs")
	auditGroup.Use(h.authMiddleware.AuthToken, h.authMiddleware.AuthUser, h.authMiddleware.RequireDeveloper)

	auditGroup.Get("/:table/:record_id", h.GetAuditLogs)
}

func (h *AuditHandler) GetAuditLogs(c *fiber.Ctx) error {
	logs, err := h.auditService.GetAuditLogs(c.Params("table"), c.Params("record_id"), c.QueryInt("limit", 50))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, logs)
}
