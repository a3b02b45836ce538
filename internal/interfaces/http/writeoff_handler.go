package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// WriteoffHandler bajas de inventario.
type WriteoffHandler struct {
	uc      *documents.WriteoffUseCase
	reports *documents.ReportUseCase
}

// NewWriteoffHandler construye el handler.
func NewWriteoffHandler(uc *documents.WriteoffUseCase, reports *documents.ReportUseCase) *WriteoffHandler {
	return &WriteoffHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Crear baja (draft)
// @Tags         writeoffs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                     false  "Clave de idempotencia"
// @Param        body             body    dto.CreateWriteoffRequest  true   "Bodega, motivo y líneas"
// @Success      201  {object}  dto.WriteoffResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/writeoffs [post]
func (h *WriteoffHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWriteoffRequest
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
// @Summary      Obtener baja
// @Tags         writeoffs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la baja"
// @Success      200  {object}  dto.WriteoffResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/writeoffs/{id} [get]
func (h *WriteoffHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar bajas
// @Tags         writeoffs
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        status        query  string  false  "Estado"
// @Success      200  {object}  dto.WriteoffListResponse
// @Router       /api/writeoffs [get]
func (h *WriteoffHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetBranchID(c), documentQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar baja a aprobación (draft → submitted)
// @Tags         writeoffs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la baja"
// @Success      200  {object}  dto.WriteoffResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/writeoffs/{id}/submit [post]
func (h *WriteoffHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar baja y descontar el stock
// @Tags         writeoffs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la baja"
// @Success      200  {object}  dto.WriteoffResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/writeoffs/{id}/approve [post]
func (h *WriteoffHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetBranchID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar baja
// @Tags         writeoffs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la baja"
// @Param        body  body  dto.ReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.WriteoffResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/writeoffs/{id}/reject [post]
func (h *WriteoffHandler) Reject(c *fiber.Ctx) error {
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
// @Summary      Acta de baja (PDF)
// @Tags         writeoffs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la baja"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/writeoffs/{id}/report [get]
func (h *WriteoffHandler) Report(c *fiber.Ctx) error {
	r, err := h.reports.WriteoffReport(c.UserContext(), GetBranchID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return sendReport(c, r)
}
