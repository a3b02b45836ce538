package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockPositionRepository define el puerto para consultar/actualizar la posición por bodega+ítem.
// Usado dentro de transacciones para garantizar consistencia con el libro.
type StockPositionRepository interface {
	// Get devuelve nil, nil si la clave no tiene posición.
	Get(ctx context.Context, warehouseID, itemID string) (*entity.StockPosition, error)
	// LockForUpdate crea las filas faltantes y las bloquea (SELECT FOR UPDATE) en orden de StockKey.
	LockForUpdate(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]*entity.StockPosition, error)
	Upsert(ctx context.Context, position *entity.StockPosition) error
	// List posiciones de una bodega; warehouseID "" = todas.
	List(ctx context.Context, warehouseID string) ([]*entity.StockPosition, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.StockPosition, error)
}
