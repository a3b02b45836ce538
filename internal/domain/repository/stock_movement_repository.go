package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockMovementRepository puerto del libro de stock: solo inserción y lectura.
type StockMovementRepository interface {
	// Create agrega el movimiento y le asigna Sequence.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos del filtro, más recientes primero.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.StockMovement, error)
	// ListForReplay devuelve todos los movimientos (de una bodega, o todas si warehouseID es "")
	// en orden de CreatedAt y Sequence.
	ListForReplay(ctx context.Context, warehouseID string) ([]entity.StockMovement, error)
}
