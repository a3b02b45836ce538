package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountStatus estado de un conteo físico.
type CountStatus string

const (
	CountDraft      CountStatus = "draft"
	CountInProgress CountStatus = "in_progress"
	CountCompleted  CountStatus = "completed"
	CountApproved   CountStatus = "approved"
)

// InventoryCount conteo físico de una bodega.
type InventoryCount struct {
	ID           string
	BranchID     string
	WarehouseID  string
	CountNumber  string
	Status       CountStatus
	Lines        []InventoryCountLine
	Summary      VarianceSummary
	Notes        string
	RejectReason string
	CreatedBy    string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedBy   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InventoryCountLine línea del conteo; SystemQuantity es la foto al iniciar.
type InventoryCountLine struct {
	ID              string
	CountID         string
	ItemID          string
	SystemQuantity  decimal.Decimal
	CountedQuantity *decimal.Decimal
	IsCounted       bool
	UnitCost        decimal.Decimal
}

// Variance diferencia contada - sistema; cero si la línea no tiene cantidad contada.
func (l InventoryCountLine) Variance() decimal.Decimal {
	if l.CountedQuantity == nil {
		return decimal.Zero
	}
	return l.CountedQuantity.Sub(l.SystemQuantity)
}

// LineByItem busca la línea de un ítem.
func (c *InventoryCount) LineByItem(itemID string) (*InventoryCountLine, bool) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return &c.Lines[i], true
		}
	}
	return nil, false
}

// VarianceSummary resumen de diferencias valorizado al costo promedio.
// AccuracyPct es una fracción en [0,1].
type VarianceSummary struct {
	ItemsWithVariance  int
	ShortageValue      decimal.Decimal
	SurplusValue       decimal.Decimal
	NetAdjustmentValue decimal.Decimal
	AccuracyPct        decimal.Decimal
}

// CountFilter filtros de listado.
type CountFilter struct {
	BranchID    string
	WarehouseID string
	Status      CountStatus
	Limit       int
	Offset      int
}
