package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para TRANSFER se usan from_warehouse_id/to_warehouse_id; en salidas la cantidad puede venir positiva.
type RegisterMovementRequest struct {
	ItemID          string           `json:"item_id" validate:"required"`
	WarehouseID     string           `json:"warehouse_id,omitempty"`
	FromWarehouseID string           `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string           `json:"to_warehouse_id,omitempty"`
	Type            string           `json:"type" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes           string           `json:"notes,omitempty" validate:"max=500"`
}

// MovementResponse entrada del libro.
type MovementResponse struct {
	ID               string          `json:"id"`
	Sequence         int64           `json:"sequence"`
	WarehouseID      string          `json:"warehouse_id"`
	ItemID           string          `json:"item_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	ReferenceID      string          `json:"reference_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos (más recientes primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	WarehouseID   string     `query:"warehouse_id"`
	ItemID        string     `query:"item_id"`
	Type          string     `query:"type"`
	ReferenceType string     `query:"reference_type"`
	ReferenceID   string     `query:"reference_id"`
	From          *time.Time `query:"-"`
	To            *time.Time `query:"-"`
	PageRequest
}

// StockPositionResponse posición actual de un ítem en una bodega.
type StockPositionResponse struct {
	WarehouseID       string          `json:"warehouse_id"`
	ItemID            string          `json:"item_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	LastCost          decimal.Decimal `json:"last_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	LastMovementAt    *time.Time      `json:"last_movement_at,omitempty"`
}

// DriftResponse diferencia entre la posición almacenada y el libro.
type DriftResponse struct {
	WarehouseID    string          `json:"warehouse_id"`
	ItemID         string          `json:"item_id"`
	StoredQuantity decimal.Decimal `json:"stored_quantity"`
	LedgerQuantity decimal.Decimal `json:"ledger_quantity"`
	StoredAvgCost  decimal.Decimal `json:"stored_average_cost"`
	LedgerAvgCost  decimal.Decimal `json:"ledger_average_cost"`
}

// RebuildResponse resultado de reconciliar o reconstruir posiciones.
type RebuildResponse struct {
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Movements   int             `json:"movements"`
	Positions   int             `json:"positions"`
	Drifts      []DriftResponse `json:"drifts"`
	Applied     bool            `json:"applied"`
}

// AlertResponse alerta de stock.
type AlertResponse struct {
	ID             string          `json:"id"`
	WarehouseID    string          `json:"warehouse_id"`
	ItemID         string          `json:"item_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Threshold      decimal.Decimal `json:"threshold"`
	IsAcknowledged bool            `json:"is_acknowledged"`
	AcknowledgedBy string          `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AlertQuery filtros de GET /api/inventory/alerts.
type AlertQuery struct {
	WarehouseID  string `query:"warehouse_id"`
	Type         string `query:"type"`
	Acknowledged *bool  `query:"acknowledged"`
	PageRequest
}

// AlertListResponse lista de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
