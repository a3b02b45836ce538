package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name               string `json:"name" validate:"required,min=1,max=200"`
	Address            string `json:"address"`
	AllowNegativeStock bool   `json:"allow_negative_stock"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID                 string    `json:"id"`
	BranchID           string    `json:"branch_id"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	AllowNegativeStock bool      `json:"allow_negative_stock"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
