package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// ErrorHandler traduce los errores de dominio devueltos por los handlers a {code, message, details}.
// Los 500 se registran con el error completo y responden un mensaje genérico.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.WithStr("method", c.Method(), "path", c.Path()).Error().Err(err).Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		fe *fiber.Error
		cf *domain.CommitFailedError
		ve *domain.ValidationError
		te *domain.TransitionError
		nf *domain.NotFoundError
	)
	switch {
	case errors.As(err, &fe):
		code := "HTTP_ERROR"
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return fe.Code, dto.ErrorResponse{Code: code, Message: fe.Message}
	case errors.As(err, &cf):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "COMMIT_FAILED", Message: cf.Error(), Details: cf.Lines}
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: ve.Error(),
			Details: fiber.Map{"field": ve.Field, "insufficient_stock": errors.Is(err, domain.ErrInsufficientStock)},
		}
	case errors.As(err, &te):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INVALID_TRANSITION",
			Message: te.Error(),
			Details: fiber.Map{"document": te.Document, "from": te.From, "event": te.Event},
		}
	case errors.As(err, &nf):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: nf.Error(), Details: fiber.Map{"kind": nf.Kind, "id": nf.ID}}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"}
	case errors.Is(err, domain.ErrInProgress):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}
