package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/analytics"
	"github.com/jhoicas/suministros-api/internal/application/audit"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// AdminHandler dashboard y registro de auditoría.
type AdminHandler struct {
	dashboard *analytics.DashboardUseCase
	audit     *audit.Logger
	log       *logger.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(dashboard *analytics.DashboardUseCase, auditLog *audit.Logger, log *logger.Logger) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, audit: auditLog, log: log}
}

// Dashboard godoc
// @Summary      Resumen para administración
// @Description  Totales, solicitudes por estado, resumen de seis meses y suministros con menor stock.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AuditLogs godoc
// @Summary      Registro de auditoría
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.AuditLogPage
// @Router       /api/admin/audit-logs [get]
func (h *AdminHandler) AuditLogs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	out, err := h.audit.List(c.Context(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
