package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem ítem del catálogo con sus umbrales de stock.
// La identidad es inmutable; los umbrales se pueden actualizar.
type InventoryItem struct {
	ID             string
	BranchID       string
	SKU            string
	Name           string
	UnitOfMeasure  string
	MinStockLevel  decimal.Decimal
	ReorderPoint   decimal.Decimal
	MaxStockLevel  *decimal.Decimal // nil = sin máximo
	IsSemiFinished bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ItemThresholds umbrales mutables de un ítem.
type ItemThresholds struct {
	MinStockLevel decimal.Decimal
	ReorderPoint  decimal.Decimal
	MaxStockLevel *decimal.Decimal
}
