package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	movements  *inventory.RegisterMovementUseCase
	stock      *inventory.StockQueryUseCase
	alerts     *inventory.AlertUseCase
	rebuild    *inventory.RebuildUseCase
	warehouses *usecase.WarehouseUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	stock *inventory.StockQueryUseCase,
	alerts *inventory.AlertUseCase,
	rebuild *inventory.RebuildUseCase,
	warehouses *usecase.WarehouseUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, stock: stock, alerts: alerts, rebuild: rebuild, warehouses: warehouses}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, warehouse_id (o from/to para TRANSFER), type, quantity, unit_cost (entradas)"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.movements.RegisterMovement(c.UserContext(), GetBranchID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id    query  string  false  "Bodega"
// @Param        item_id         query  string  false  "Ítem"
// @Param        type            query  string  false  "Tipo de movimiento"
// @Param        reference_type  query  string  false  "Tipo de documento origen"
// @Param        reference_id    query  string  false  "ID del documento origen"
// @Param        from            query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, to, err := inventory.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}
	q := dto.MovementQuery{
		WarehouseID:   c.Query("warehouse_id"),
		ItemID:        c.Query("item_id"),
		Type:          c.Query("type"),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		From:          from,
		To:            to,
		PageRequest:   pageFrom(c),
	}
	out, err := h.stock.ListMovements(c.UserContext(), GetBranchID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPosition godoc
// @Summary      Posición de stock de un ítem en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Bodega"
// @Param        item_id       path  string  true  "Ítem"
// @Success      200  {object}  dto.StockPositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/positions/{warehouse_id}/{item_id} [get]
func (h *InventoryHandler) GetPosition(c *fiber.Ctx) error {
	out, err := h.stock.GetStockPosition(c.UserContext(), GetBranchID(c), c.Params("warehouse_id"), c.Params("item_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListPositions godoc
// @Summary      Posiciones de stock de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path  string  true  "Bodega"
// @Success      200  {array}   dto.StockPositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/positions/{warehouse_id} [get]
func (h *InventoryHandler) ListPositions(c *fiber.Ctx) error {
	out, err := h.stock.ListStockPositions(c.UserContext(), GetBranchID(c), c.Params("warehouse_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListAlerts godoc
// @Summary      Alertas de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        type          query  string  false  "LOW_STOCK, OUT_OF_STOCK, OVERSTOCK"
// @Param        acknowledged  query  bool    false  "Filtrar por reconocidas"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	q := dto.AlertQuery{
		WarehouseID: c.Query("warehouse_id"),
		Type:        c.Query("type"),
		PageRequest: pageFrom(c),
	}
	if raw := c.Query("acknowledged"); raw != "" {
		ack, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.NewValidationError("acknowledged", "debe ser true o false")
		}
		q.Acknowledged = &ack
	}
	out, err := h.alerts.ListAlerts(c.UserContext(), GetBranchID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AcknowledgeAlert godoc
// @Summary      Reconocer alerta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/acknowledge [post]
func (h *InventoryHandler) AcknowledgeAlert(c *fiber.Ctx) error {
	out, err := h.alerts.AcknowledgeAlert(c.UserContext(), GetBranchID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Comparar posiciones contra el libro
// @Description  Solo lectura. Reporta las posiciones cuya cantidad o costo difiere del libro.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.RebuildResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	warehouseID, err := h.ownWarehouse(c)
	if err != nil {
		return err
	}
	out, err := h.rebuild.ReconcilePositions(c.UserContext(), warehouseID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Rebuild godoc
// @Summary      Reconstruir posiciones desde el libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.RebuildResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	warehouseID, err := h.ownWarehouse(c)
	if err != nil {
		return err
	}
	out, err := h.rebuild.RebuildPositions(c.UserContext(), warehouseID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ownWarehouse exige warehouse_id y que la bodega sea de la sucursal del token.
func (h *InventoryHandler) ownWarehouse(c *fiber.Ctx) (string, error) {
	id := c.Query("warehouse_id")
	if id == "" {
		return "", domain.NewValidationError("warehouse_id", "requerido")
	}
	if _, err := h.warehouses.GetByID(c.UserContext(), GetBranchID(c), id); err != nil {
		return "", err
	}
	return id, nil
}
