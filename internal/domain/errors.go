package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Los tipos estructurados de abajo envuelven estos sentinelas para que errors.Is funcione en todas las capas.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrCommitFailed      = errors.New("confirmación del documento fallida")
	ErrInProgress        = errors.New("operación en curso con la misma clave de idempotencia")
)

// ValidationError entrada mal formada: cantidad cero/negativa, costo faltante, stock negativo no permitido.
type ValidationError struct {
	Field  string
	Reason string
	cause  error
}

// NewValidationError construye un ValidationError sobre ErrInvalidInput.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, cause: ErrInvalidInput}
}

// NewStockValidationError marca un stock resultante negativo; también es ErrInsufficientStock.
func NewStockValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, cause: ErrInsufficientStock}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, ErrInvalidInput) además de la causa concreta.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput || target == e.cause
}

// TransitionError transición no permitida desde el estado actual (incluye doble confirmación).
type TransitionError struct {
	Document string
	From     string
	Event    string
	Reason   string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: no se puede aplicar %q desde el estado %q", e.Document, e.Event, e.From)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// LineFailure describe una línea que falló durante una confirmación atómica.
type LineFailure struct {
	LineID string `json:"line_id"`
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// CommitFailedError una o más líneas fallaron; la confirmación se revirtió completa.
type CommitFailedError struct {
	DocumentID string
	Lines      []LineFailure
}

func (e *CommitFailedError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("item %s: %s", l.ItemID, l.Reason))
	}
	return fmt.Sprintf("documento %s: %d línea(s) fallida(s): %s", e.DocumentID, len(e.Lines), strings.Join(parts, "; "))
}

func (e *CommitFailedError) Unwrap() error { return ErrCommitFailed }

// NotFoundError referencia desconocida a documento, ítem o bodega.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound atajo para NotFoundError.
func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
