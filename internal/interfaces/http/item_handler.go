package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
)

// ItemHandler catálogo de ítems y sus umbrales.
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "SKU, nombre y umbrales"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetBranchID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateThresholds godoc
// @Summary      Actualizar umbrales de stock
// @Description  Reevalúa las alertas del ítem en todas sus bodegas.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del ítem"
// @Param        body  body  dto.UpdateThresholdsRequest  true  "min, reorden, max"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/thresholds [put]
func (h *ItemHandler) UpdateThresholds(c *fiber.Ctx) error {
	var in dto.UpdateThresholdsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateThresholds(c.UserContext(), GetBranchID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
