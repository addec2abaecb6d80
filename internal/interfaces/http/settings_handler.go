package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// SettingsHandler configuración del sistema (solo administradores).
type SettingsHandler struct {
	svc *settings.Service
	log *logger.Logger
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(svc *settings.Service, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: log}
}

// List godoc
// @Summary      Listar configuración
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SettingResponse
// @Router       /api/admin/settings [get]
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar configuración
// @Description  Acepta un arreglo de {id, value} o un objeto {"settings": [...]}.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.SettingUpdate  true  "cambios"
// @Success      200   {array}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	updates, ok := parseSettingUpdates(c.Body())
	if !ok {
		return invalidBody(c)
	}
	out, err := h.svc.Update(c.Context(), GetUserID(c), updates)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func parseSettingUpdates(body []byte) ([]dto.SettingUpdate, bool) {
	var list []dto.SettingUpdate
	if err := json.Unmarshal(body, &list); err == nil {
		return list, true
	}
	var wrapped struct {
		Settings []dto.SettingUpdate `json:"settings"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, false
	}
	return wrapped.Settings, true
}
