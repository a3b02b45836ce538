package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// PurchaseOrderHandler órdenes de compra: creación, envío, recepción y cancelación.
type PurchaseOrderHandler struct {
	uc *documents.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *documents.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (draft)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                          false  "Clave de idempotencia"
// @Param        body             body    dto.CreatePurchaseOrderRequest  true   "Bodega, proveedor y líneas"
// @Success      201  {object}  dto.PurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetBranchID(c), GetUserID(c), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        status        query  string  false  "Estado"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetBranchID(c), documentQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar orden al proveedor (draft → sent)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir mercancía (sent → received)
// @Description  Registra una entrada PURCHASE_RECEIVE por línea en una sola transacción.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	out, err := h.uc.Receive(c.UserContext(), GetBranchID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la orden"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	reason, err := reasonBody(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Cancel(c.UserContext(), GetBranchID(c), c.Params("id"), reason)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
