// Package workflow implementa la máquina de estados genérica de los documentos de inventario.
// Cada tipo de documento la instancia con su propia tabla de transiciones; solo la arista de
// confirmación (Commit) toca el libro de stock.
package workflow

import (
	"strings"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// Event evento que dispara una transición.
type Event string

// Eventos usados por las tablas de transición.
const (
	EventSend     Event = "send"
	EventReceive  Event = "receive"
	EventCancel   Event = "cancel"
	EventStart    Event = "start"
	EventComplete Event = "complete"
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventSubmit   Event = "submit"
)

// Transition arista de la tabla: estados de origen permitidos, destino y guardas.
type Transition[S ~string] struct {
	From           []S
	To             S
	RequiresReason bool
	Commit         bool // arista terminal que afecta el libro
}

// Machine máquina de estados con guardas, parametrizada por el tipo de estado del documento.
type Machine[S ~string] struct {
	document    string
	transitions map[Event]Transition[S]
	terminal    map[S]struct{}
}

// NewMachine construye la máquina a partir de la tabla de transiciones y los estados terminales.
func NewMachine[S ~string](document string, table map[Event]Transition[S], terminal ...S) *Machine[S] {
	m := &Machine[S]{
		document:    document,
		transitions: make(map[Event]Transition[S], len(table)),
		terminal:    make(map[S]struct{}, len(terminal)),
	}
	for ev, t := range table {
		m.transitions[ev] = t
	}
	for _, s := range terminal {
		m.terminal[s] = struct{}{}
	}
	return m
}

// Document nombre del tipo de documento.
func (m *Machine[S]) Document() string { return m.document }

// IsTerminal indica si el estado ya no admite transiciones.
func (m *Machine[S]) IsTerminal(s S) bool {
	_, ok := m.terminal[s]
	return ok
}

// IsCommit indica si el evento es la arista de confirmación.
func (m *Machine[S]) IsCommit(ev Event) bool {
	t, ok := m.transitions[ev]
	return ok && t.Commit
}

// Can indica si el evento es aplicable desde el estado (sin validar el motivo).
func (m *Machine[S]) Can(from S, ev Event) bool {
	if m.IsTerminal(from) {
		return false
	}
	t, ok := m.transitions[ev]
	if !ok {
		return false
	}
	for _, s := range t.From {
		if s == from {
			return true
		}
	}
	return false
}

// Fire valida la transición y devuelve el estado destino.
// Un documento en estado terminal siempre responde ErrInvalidTransition: reintentar una
// confirmación no vuelve a aplicarla.
func (m *Machine[S]) Fire(from S, ev Event, reason string) (S, error) {
	if m.IsTerminal(from) {
		return from, &domain.TransitionError{
			Document: m.document, From: string(from), Event: string(ev),
			Reason: "el documento está en un estado terminal",
		}
	}
	if !m.Can(from, ev) {
		return from, &domain.TransitionError{Document: m.document, From: string(from), Event: string(ev)}
	}
	t := m.transitions[ev]
	if t.RequiresReason && strings.TrimSpace(reason) == "" {
		return from, domain.NewValidationError("reason", "el motivo es obligatorio para "+string(ev))
	}
	return t.To, nil
}
