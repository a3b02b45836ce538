package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderLineRequest línea de una orden de compra.
type PurchaseOrderLineRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	OrderedQty decimal.Decimal `json:"ordered_qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	WarehouseID string                     `json:"warehouse_id" validate:"required"`
	SupplierID  string                     `json:"supplier_id" validate:"required"`
	Notes       string                     `json:"notes" validate:"max=1000"`
	Lines       []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderLineResponse línea de salida.
type PurchaseOrderLineResponse struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	OrderedQty decimal.Decimal `json:"ordered_qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID           string                      `json:"id"`
	BranchID     string                      `json:"branch_id"`
	WarehouseID  string                      `json:"warehouse_id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierID   string                      `json:"supplier_id"`
	Status       string                      `json:"status"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	CancelReason string                      `json:"cancel_reason,omitempty"`
	Notes        string                      `json:"notes,omitempty"`
	CreatedBy    string                      `json:"created_by"`
	SentAt       *time.Time                  `json:"sent_at,omitempty"`
	ReceivedAt   *time.Time                  `json:"received_at,omitempty"`
	ReceivedBy   string                      `json:"received_by,omitempty"`
	CancelledAt  *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// DocumentQuery filtros comunes de listado de documentos.
type DocumentQuery struct {
	WarehouseID string `query:"warehouse_id"`
	Status      string `query:"status"`
	PageRequest
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// CreateCountRequest body para POST /api/counts. ItemIDs vacío = todos los ítems con posición.
// Start = true crea e inicia el conteo en una sola llamada.
type CreateCountRequest struct {
	WarehouseID string   `json:"warehouse_id" validate:"required"`
	ItemIDs     []string `json:"item_ids" validate:"omitempty,dive,required"`
	Notes       string   `json:"notes" validate:"max=1000"`
	Start       bool     `json:"start"`
}

// RecordCountRequest cantidad contada de un ítem.
type RecordCountRequest struct {
	ItemID          string          `json:"item_id" validate:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// CountLineResponse línea de conteo.
type CountLineResponse struct {
	ID              string           `json:"id"`
	ItemID          string           `json:"item_id"`
	SystemQuantity  decimal.Decimal  `json:"system_quantity"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity"`
	IsCounted       bool             `json:"is_counted"`
	Variance        decimal.Decimal  `json:"variance"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
}

// VarianceSummaryResponse resumen de diferencias.
type VarianceSummaryResponse struct {
	ItemsWithVariance  int             `json:"items_with_variance"`
	ShortageValue      decimal.Decimal `json:"shortage_value"`
	SurplusValue       decimal.Decimal `json:"surplus_value"`
	NetAdjustmentValue decimal.Decimal `json:"net_adjustment_value"`
	AccuracyPct        decimal.Decimal `json:"accuracy_pct"`
}

// CountResponse salida de un conteo.
type CountResponse struct {
	ID           string                  `json:"id"`
	BranchID     string                  `json:"branch_id"`
	WarehouseID  string                  `json:"warehouse_id"`
	CountNumber  string                  `json:"count_number"`
	Status       string                  `json:"status"`
	Lines        []CountLineResponse     `json:"lines"`
	Summary      VarianceSummaryResponse `json:"summary"`
	Notes        string                  `json:"notes,omitempty"`
	RejectReason string                  `json:"reject_reason,omitempty"`
	CreatedBy    string                  `json:"created_by"`
	StartedAt    *time.Time              `json:"started_at,omitempty"`
	CompletedAt  *time.Time              `json:"completed_at,omitempty"`
	ApprovedAt   *time.Time              `json:"approved_at,omitempty"`
	ApprovedBy   string                  `json:"approved_by,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// CountListResponse lista paginada de conteos.
type CountListResponse struct {
	Items []CountResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// WriteoffLineRequest línea de una baja.
type WriteoffLineRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateWriteoffRequest body para POST /api/writeoffs.
type CreateWriteoffRequest struct {
	WarehouseID string                `json:"warehouse_id" validate:"required"`
	Reason      string                `json:"reason" validate:"required,oneof=DAMAGED EXPIRED LOST THEFT QUALITY OTHER"`
	Notes       string                `json:"notes" validate:"max=1000"`
	Lines       []WriteoffLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// WriteoffLineResponse línea de salida.
type WriteoffLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// WriteoffResponse salida de una baja.
type WriteoffResponse struct {
	ID             string                 `json:"id"`
	BranchID       string                 `json:"branch_id"`
	WarehouseID    string                 `json:"warehouse_id"`
	WriteoffNumber string                 `json:"writeoff_number"`
	Status         string                 `json:"status"`
	Reason         string                 `json:"reason"`
	Notes          string                 `json:"notes,omitempty"`
	Lines          []WriteoffLineResponse `json:"lines"`
	TotalValue     decimal.Decimal        `json:"total_value"`
	RejectReason   string                 `json:"reject_reason,omitempty"`
	CreatedBy      string                 `json:"created_by"`
	SubmittedAt    *time.Time             `json:"submitted_at,omitempty"`
	ApprovedAt     *time.Time             `json:"approved_at,omitempty"`
	ApprovedBy     string                 `json:"approved_by,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// WriteoffListResponse lista paginada de bajas.
type WriteoffListResponse struct {
	Items []WriteoffResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
