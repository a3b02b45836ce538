package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para registrar un ítem de inventario.
type CreateItemRequest struct {
	SKU            string           `json:"sku" validate:"required,max=64"`
	Name           string           `json:"name" validate:"required,max=200"`
	UnitOfMeasure  string           `json:"unit_of_measure" validate:"required,max=20"`
	MinStockLevel  decimal.Decimal  `json:"min_stock_level"`
	ReorderPoint   decimal.Decimal  `json:"reorder_point"`
	MaxStockLevel  *decimal.Decimal `json:"max_stock_level,omitempty"`
	IsSemiFinished bool             `json:"is_semi_finished"`
}

// UpdateThresholdsRequest nuevos umbrales de un ítem.
type UpdateThresholdsRequest struct {
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	ReorderPoint  decimal.Decimal  `json:"reorder_point"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level,omitempty"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID             string           `json:"id"`
	BranchID       string           `json:"branch_id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	UnitOfMeasure  string           `json:"unit_of_measure"`
	MinStockLevel  decimal.Decimal  `json:"min_stock_level"`
	ReorderPoint   decimal.Decimal  `json:"reorder_point"`
	MaxStockLevel  *decimal.Decimal `json:"max_stock_level,omitempty"`
	IsSemiFinished bool             `json:"is_semi_finished"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
