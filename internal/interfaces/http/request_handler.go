package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/requests"
	"github.com/jhoicas/suministros-api/internal/domain/authz"
	"github.com/jhoicas/suministros-api/internal/infrastructure/metrics"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// RequestHandler endpoints de solicitudes de suministros.
type RequestHandler struct {
	uc      *requests.UseCase
	policy  authz.Policy
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewRequestHandler construye el handler. m puede ser nil.
func NewRequestHandler(uc *requests.UseCase, policy authz.Policy, m *metrics.Metrics, log *logger.Logger) *RequestHandler {
	return &RequestHandler{uc: uc, policy: policy, metrics: m, log: log}
}

func (h *RequestHandler) viewer(c *fiber.Ctx) requests.Viewer {
	return requests.Viewer{
		UserID:     GetUserID(c),
		CanReadAll: h.policy.Allows(GetRole(c), authz.RequestsReadAll),
	}
}

// List godoc
// @Summary      Listar solicitudes visibles
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPROVED | DENIED"
// @Param        userId  query  string  false  "solo administradores"
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var q dto.RequestListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.Context(), h.viewer(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get solicitud por id si es visible.
// GET /api/requests/:id
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), h.viewer(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestInput  true  "supplyId, quantity"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transition godoc
// @Summary      Aprobar o rechazar una solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateRequestStatusInput  true  "id, status"
// @Success      200   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests [put]
func (h *RequestHandler) Transition(c *fiber.Ctx) error {
	var in dto.UpdateRequestStatusInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.ID == "" {
		in.ID = c.Params("id")
	}
	out, err := h.uc.Transition(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if h.metrics != nil {
		h.metrics.RequestTransitions.WithLabelValues(out.Status).Inc()
	}
	return c.JSON(out)
}
