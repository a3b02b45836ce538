package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// PurchaseOrderRepository persistencia de órdenes de compra con sus líneas.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la fila del documento (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update guarda la cabecera (estado, fechas, motivo); las líneas son inmutables tras crear.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	List(ctx context.Context, filter entity.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
}

// InventoryCountRepository persistencia de conteos físicos con sus líneas.
type InventoryCountRepository interface {
	Create(ctx context.Context, count *entity.InventoryCount) error
	GetByID(ctx context.Context, id string) (*entity.InventoryCount, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error)
	// Update guarda cabecera, resumen y líneas (reemplazo completo de líneas).
	Update(ctx context.Context, count *entity.InventoryCount) error
	List(ctx context.Context, filter entity.CountFilter) ([]*entity.InventoryCount, error)
}

// WriteoffRepository persistencia de bajas con sus líneas.
type WriteoffRepository interface {
	Create(ctx context.Context, w *entity.Writeoff) error
	GetByID(ctx context.Context, id string) (*entity.Writeoff, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Writeoff, error)
	// Update guarda cabecera y líneas (los costos se fijan al aprobar).
	Update(ctx context.Context, w *entity.Writeoff) error
	List(ctx context.Context, filter entity.WriteoffFilter) ([]*entity.Writeoff, error)
}

// DocumentSequenceRepository numeración consecutiva por tipo de documento.
type DocumentSequenceRepository interface {
	Next(ctx context.Context, kind string) (int64, error)
}
