package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertType tipo de alerta de stock.
type AlertType string

const (
	AlertOutOfStock AlertType = "OUT_OF_STOCK"
	AlertLowStock   AlertType = "LOW_STOCK"
	AlertOverstock  AlertType = "OVERSTOCK"
)

// IsValid indica si el tipo es conocido.
func (t AlertType) IsValid() bool {
	return t == AlertOutOfStock || t == AlertLowStock || t == AlertOverstock
}

// StockAlert alerta derivada de umbrales. No se resuelve sola: requiere reconocimiento explícito.
type StockAlert struct {
	ID             string
	WarehouseID    string
	ItemID         string
	Type           AlertType
	Quantity       decimal.Decimal // cantidad al detectar
	Threshold      decimal.Decimal
	IsAcknowledged bool
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	CreatedAt      time.Time
}

// AlertFilter filtros de listado; nil = sin filtro.
type AlertFilter struct {
	BranchID     string // solo alertas de bodegas de la sucursal
	WarehouseID  string
	Type         AlertType
	Acknowledged *bool
	Limit        int
	Offset       int
}
