package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/inventory"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

// SupplyHandler endpoints de suministros.
type SupplyHandler struct {
	uc  *inventory.SupplyUseCase
	log *logger.Logger
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *inventory.SupplyUseCase, log *logger.Logger) *SupplyHandler {
	return &SupplyHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar suministros
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        low_stock  query  bool  false  "solo los que están en o bajo el mínimo"
// @Success      200  {array}  dto.SupplyResponse
// @Router       /api/supplies [get]
func (h *SupplyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.QueryBool("low_stock", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener suministro con sus solicitudes recientes
// @Tags         supplies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del suministro"
// @Success      200  {object}  dto.SupplyDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [get]
func (h *SupplyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear suministro
// @Tags         supplies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplyInput  true  "Datos del suministro"
// @Success      201   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supplies [post]
func (h *SupplyHandler) Create(c *fiber.Ctx) error {
	var in dto.SupplyInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update reemplaza un suministro. El id viene en la ruta o en el cuerpo.
// PUT /api/supplies/:id, PUT /api/supplies
func (h *SupplyHandler) Update(c *fiber.Ctx) error {
	var in dto.SupplyInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id := c.Params("id")
	if id == "" {
		id = in.ID
	}
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetQuantity fija la cantidad en existencia.
// PATCH /api/supplies/:id
func (h *SupplyHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetQuantity(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete elimina un suministro sin solicitudes pendientes.
// DELETE /api/supplies/:id, DELETE /api/supplies?id=
func (h *SupplyHandler) Delete(c *fiber.Ctx) error {
	id := idParam(c)
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.Context(), GetUserID(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Success: true})
}

// Report PDF del inventario.
// GET /api/admin/reports/inventory.pdf
func (h *SupplyHandler) Report(c *fiber.Ctx) error {
	doc, err := h.uc.Report(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.pdf"`)
	return c.Send(doc)
}
