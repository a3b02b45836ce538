package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderSent      PurchaseOrderStatus = "sent"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrder orden de compra; recibirla es la única transición que afecta el libro.
type PurchaseOrder struct {
	ID           string
	BranchID     string
	WarehouseID  string
	OrderNumber  string
	SupplierID   string
	Status       PurchaseOrderStatus
	Lines        []PurchaseOrderLine
	TotalAmount  decimal.Decimal
	CancelReason string
	Notes        string
	CreatedBy    string
	SentAt       *time.Time
	ReceivedAt   *time.Time
	ReceivedBy   string
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseOrderLine línea de la orden (recepción completa de OrderedQty).
type PurchaseOrderLine struct {
	ID              string
	PurchaseOrderID string
	ItemID          string
	OrderedQty      decimal.Decimal
	UnitCost        decimal.Decimal
	LineTotal       decimal.Decimal
}

// RecalculateTotal recalcula LineTotal de cada línea y TotalAmount.
func (po *PurchaseOrder) RecalculateTotal() {
	total := decimal.Zero
	for i := range po.Lines {
		po.Lines[i].LineTotal = po.Lines[i].OrderedQty.Mul(po.Lines[i].UnitCost)
		total = total.Add(po.Lines[i].LineTotal)
	}
	po.TotalAmount = total
}

// PurchaseOrderFilter filtros de listado.
type PurchaseOrderFilter struct {
	BranchID    string
	WarehouseID string
	Status      PurchaseOrderStatus
	Limit       int
	Offset      int
}
