package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType código enumerado del motivo de un movimiento del libro de stock.
type MovementType string

// Tipos de movimiento del libro de stock.
const (
	MovementPurchaseReceive    MovementType = "PURCHASE_RECEIVE"
	MovementSaleDeduction      MovementType = "SALE_DEDUCTION"
	MovementSaleReversal       MovementType = "SALE_REVERSAL"
	MovementWriteoff           MovementType = "WRITEOFF"
	MovementCountAdjustment    MovementType = "COUNT_ADJUSTMENT"
	MovementTransferIn         MovementType = "TRANSFER_IN"
	MovementTransferOut        MovementType = "TRANSFER_OUT"
	MovementProductionIn       MovementType = "PRODUCTION_IN"
	MovementProductionOut      MovementType = "PRODUCTION_OUT"
	MovementProductionReversal MovementType = "PRODUCTION_REVERSAL"
	MovementOpeningBalance     MovementType = "OPENING_BALANCE"
	MovementManualAdjustment   MovementType = "MANUAL_ADJUSTMENT"
)

func (t MovementType) String() string { return string(t) }

// IsValid indica si el tipo pertenece al catálogo.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementPurchaseReceive, MovementSaleDeduction, MovementSaleReversal,
		MovementWriteoff, MovementCountAdjustment,
		MovementTransferIn, MovementTransferOut,
		MovementProductionIn, MovementProductionOut, MovementProductionReversal,
		MovementOpeningBalance, MovementManualAdjustment:
		return true
	}
	return false
}

// RequiresUnitCost tipos que siempre llevan costo unitario explícito.
func (t MovementType) RequiresUnitCost() bool {
	switch t {
	case MovementPurchaseReceive, MovementWriteoff, MovementCountAdjustment,
		MovementProductionOut, MovementProductionIn, MovementOpeningBalance:
		return true
	}
	return false
}

// AffectsAverageCost solo las recepciones mezclan su costo en el promedio ponderado.
// El resto se valoriza al costo promedio vigente.
func (t MovementType) AffectsAverageCost() bool {
	switch t {
	case MovementPurchaseReceive, MovementOpeningBalance, MovementProductionIn, MovementTransferIn:
		return true
	}
	return false
}

// Direction signo exigido a la cantidad: 1 entradas, -1 salidas, 0 cualquiera (ajustes).
func (t MovementType) Direction() int {
	switch t {
	case MovementPurchaseReceive, MovementSaleReversal, MovementTransferIn,
		MovementProductionIn, MovementOpeningBalance:
		return 1
	case MovementSaleDeduction, MovementWriteoff, MovementTransferOut, MovementProductionOut:
		return -1
	}
	return 0
}

// Tipos de documento de origen (ReferenceType).
const (
	ReferencePurchaseOrder  = "PURCHASE_ORDER"
	ReferenceInventoryCount = "INVENTORY_COUNT"
	ReferenceWriteoff       = "WRITEOFF"
	ReferenceManual         = "MANUAL"
)

// StockMovement entrada inmutable del libro de stock. Nunca se actualiza ni se borra;
// las correcciones son movimientos nuevos de signo contrario.
type StockMovement struct {
	ID               string
	Sequence         int64 // orden total de inserción; desempata CreatedAt en la reconstrucción
	WarehouseID      string
	ItemID           string
	Type             MovementType
	Quantity         decimal.Decimal // con signo
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal // Quantity * UnitCost (con signo)
	ReferenceType    string
	ReferenceID      string
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
}

// MovementFilter filtros para listar movimientos. Campos vacíos/nil no filtran.
type MovementFilter struct {
	BranchID      string // solo movimientos de bodegas de la sucursal
	WarehouseID   string
	ItemID        string
	Type          MovementType
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}
