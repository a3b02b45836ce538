package entity

import "time"

// Warehouse bodega donde se almacena inventario (multi-bodega).
// AllowNegativeStock permite que el libro deje cantidades negativas (por defecto no).
type Warehouse struct {
	ID                 string
	BranchID           string
	Name               string
	Address            string
	AllowNegativeStock bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
