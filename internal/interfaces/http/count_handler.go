package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// CountHandler conteos físicos.
type CountHandler struct {
	uc      *documents.CountUseCase
	reports *documents.ReportUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(uc *documents.CountUseCase, reports *documents.ReportUseCase) *CountHandler {
	return &CountHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Crear conteo físico
// @Description  Con start=true el conteo se crea en in_progress con las cantidades del sistema congeladas.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia"
// @Param        body             body    dto.CreateCountRequest  true   "Bodega e ítems"
// @Success      201  {object}  dto.CountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/counts [post]
func (h *CountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCountRequest
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
// @Summary      Obtener conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id} [get]
func (h *CountHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar conteos
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        status        query  string  false  "Estado"
// @Success      200  {object}  dto.CountListResponse
// @Router       /api/counts [get]
func (h *CountHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetBranchID(c), documentQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar conteo (draft → in_progress)
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/start [post]
func (h *CountHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Registrar cantidad contada
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del conteo"
// @Param        body  body  dto.RecordCountRequest  true  "Ítem y cantidad"
// @Success      200   {object}  dto.CountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/lines [post]
func (h *CountHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RecordCountedQuantity(c.UserContext(), GetBranchID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Cerrar conteo (in_progress → completed)
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/complete [post]
func (h *CountHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar conteo y ajustar el stock
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/approve [post]
func (h *CountHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetBranchID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar conteo
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del conteo"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.CountResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/reject [post]
func (h *CountHandler) Reject(c *fiber.Ctx) error {
	reason, err := reasonBody(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Reject(c.UserContext(), GetBranchID(c), c.Params("id"), reason)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Hoja de diferencias del conteo (PDF)
// @Tags         counts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/report [get]
func (h *CountHandler) Report(c *fiber.Ctx) error {
	r, err := h.reports.CountReport(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return sendReport(c, r)
}

func sendReport(c *fiber.Ctx, r *documents.Report) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+r.Filename+`"`)
	return c.Send(r.Content)
}
