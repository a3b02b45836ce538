package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition stock actual de un ítem en una bodega (proyección materializada del libro).
// Quantity siempre es la suma de los movimientos de la clave; se puede reconstruir con replay.
type StockPosition struct {
	WarehouseID      string
	ItemID           string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	AverageCost      decimal.Decimal
	LastCost         decimal.Decimal
	LastMovementAt   *time.Time
	UpdatedAt        time.Time
}

// NewStockPosition posición vacía para una clave sin movimientos.
func NewStockPosition(warehouseID, itemID string) *StockPosition {
	return &StockPosition{
		WarehouseID:      warehouseID,
		ItemID:           itemID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
		AverageCost:      decimal.Zero,
		LastCost:         decimal.Zero,
	}
}

// AvailableQuantity cantidad no reservada.
func (p *StockPosition) AvailableQuantity() decimal.Decimal {
	return p.Quantity.Sub(p.ReservedQuantity)
}

// TotalValue valor del stock al costo promedio.
func (p *StockPosition) TotalValue() decimal.Decimal {
	return p.Quantity.Mul(p.AverageCost)
}

// StockKey identifica una posición (bodega, ítem).
type StockKey struct {
	WarehouseID string
	ItemID      string
}

// Less orden estable de claves; los bloqueos se toman en este orden para evitar deadlocks.
func (k StockKey) Less(o StockKey) bool {
	if k.WarehouseID != o.WarehouseID {
		return k.WarehouseID < o.WarehouseID
	}
	return k.ItemID < o.ItemID
}
