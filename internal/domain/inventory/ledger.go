// Package inventory contiene la lógica pura del libro de stock: costeo, aplicación de
// movimientos, reconstrucción de posiciones, varianza de conteos y evaluación de alertas.
package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Entry datos de entrada para agregar un movimiento al libro.
type Entry struct {
	WarehouseID   string
	ItemID        string
	Type          entity.MovementType
	Quantity      decimal.Decimal // con signo, distinta de cero
	UnitCost      *decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedBy     string
}

// Validate revisa la entrada sin mirar la posición.
func (e Entry) Validate() error {
	if e.WarehouseID == "" {
		return domain.NewValidationError("warehouse_id", "es obligatorio")
	}
	if e.ItemID == "" {
		return domain.NewValidationError("item_id", "es obligatorio")
	}
	if !e.Type.IsValid() {
		return domain.NewValidationError("type", fmt.Sprintf("tipo de movimiento desconocido %q", e.Type))
	}
	if e.Quantity.IsZero() {
		return domain.NewValidationError("quantity", "no puede ser cero")
	}
	switch e.Type.Direction() {
	case 1:
		if e.Quantity.IsNegative() {
			return domain.NewValidationError("quantity", fmt.Sprintf("%s requiere cantidad positiva", e.Type))
		}
	case -1:
		if e.Quantity.IsPositive() {
			return domain.NewValidationError("quantity", fmt.Sprintf("%s requiere cantidad negativa", e.Type))
		}
	}
	if e.UnitCost == nil && e.Type.RequiresUnitCost() {
		return domain.NewValidationError("unit_cost", fmt.Sprintf("%s requiere costo unitario", e.Type))
	}
	if e.UnitCost != nil && e.UnitCost.IsNegative() {
		return domain.NewValidationError("unit_cost", "no puede ser negativo")
	}
	return nil
}

// ApplyMovement aplica la entrada sobre la posición (ya bloqueada por el llamador) y devuelve
// el movimiento con la foto previousQuantity/newQuantity. Muta pos solo si no hay error.
// Las recepciones mezclan su costo en el promedio; el resto se valoriza al promedio vigente
// salvo que el llamador fije el costo.
func ApplyMovement(pos *entity.StockPosition, allowNegative bool, e Entry, now time.Time) (*entity.StockMovement, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if pos.WarehouseID != e.WarehouseID || pos.ItemID != e.ItemID {
		return nil, fmt.Errorf("posición %s/%s no corresponde a la entrada %s/%s",
			pos.WarehouseID, pos.ItemID, e.WarehouseID, e.ItemID)
	}

	prev := pos.Quantity
	next := prev.Add(e.Quantity)
	if next.IsNegative() && !allowNegative {
		return nil, domain.NewStockValidationError("quantity",
			fmt.Sprintf("stock insuficiente: disponible %s, solicitado %s", prev.String(), e.Quantity.Neg().String()))
	}

	unitCost := pos.AverageCost
	if e.UnitCost != nil {
		unitCost = *e.UnitCost
	}
	avg := pos.AverageCost
	last := pos.LastCost
	if e.Type.AffectsAverageCost() {
		avg = WeightedAverageCost(prev, pos.AverageCost, e.Quantity, unitCost)
		last = unitCost
	}

	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		WarehouseID:      e.WarehouseID,
		ItemID:           e.ItemID,
		Type:             e.Type,
		Quantity:         e.Quantity,
		PreviousQuantity: prev,
		NewQuantity:      next,
		UnitCost:         unitCost,
		TotalCost:        e.Quantity.Mul(unitCost),
		ReferenceType:    e.ReferenceType,
		ReferenceID:      e.ReferenceID,
		Notes:            e.Notes,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        now,
	}

	pos.Quantity = next
	pos.AverageCost = avg
	pos.LastCost = last
	at := now
	pos.LastMovementAt = &at
	pos.UpdatedAt = now
	return mov, nil
}
