package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia del catálogo de ítems.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	UpdateThresholds(ctx context.Context, id string, thresholds entity.ItemThresholds) error
}
