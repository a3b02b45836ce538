package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WriteoffStatus estado de una baja de inventario.
type WriteoffStatus string

const (
	WriteoffDraft     WriteoffStatus = "draft"
	WriteoffSubmitted WriteoffStatus = "submitted"
	WriteoffApproved  WriteoffStatus = "approved"
)

// WriteoffReason motivo de la baja.
type WriteoffReason string

const (
	WriteoffDamaged WriteoffReason = "DAMAGED"
	WriteoffExpired WriteoffReason = "EXPIRED"
	WriteoffLost    WriteoffReason = "LOST"
	WriteoffTheft   WriteoffReason = "THEFT"
	WriteoffQuality WriteoffReason = "QUALITY"
	WriteoffOther   WriteoffReason = "OTHER"
)

// IsValid indica si el motivo es conocido.
func (r WriteoffReason) IsValid() bool {
	switch r {
	case WriteoffDamaged, WriteoffExpired, WriteoffLost, WriteoffTheft, WriteoffQuality, WriteoffOther:
		return true
	}
	return false
}

// Writeoff baja de inventario (daño, vencimiento, pérdida...).
type Writeoff struct {
	ID             string
	BranchID       string
	WarehouseID    string
	WriteoffNumber string
	Status         WriteoffStatus
	Reason         WriteoffReason
	Notes          string
	Lines          []WriteoffLine
	TotalValue     decimal.Decimal
	RejectReason   string
	CreatedBy      string
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	ApprovedBy     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WriteoffLine línea de la baja; Quantity es positiva y se descuenta al aprobar.
type WriteoffLine struct {
	ID         string
	WriteoffID string
	ItemID     string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	TotalCost  decimal.Decimal
}

// RecalculateTotal recalcula TotalCost de cada línea y TotalValue.
func (w *Writeoff) RecalculateTotal() {
	total := decimal.Zero
	for i := range w.Lines {
		w.Lines[i].TotalCost = w.Lines[i].Quantity.Mul(w.Lines[i].UnitCost)
		total = total.Add(w.Lines[i].TotalCost)
	}
	w.TotalValue = total
}

// WriteoffFilter filtros de listado.
type WriteoffFilter struct {
	BranchID    string
	WarehouseID string
	Status      WriteoffStatus
	Limit       int
	Offset      int
}
