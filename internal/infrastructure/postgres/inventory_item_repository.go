package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo catálogo de ítems sobre PostgreSQL.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, branch_id, sku, name, unit_of_measure,
			min_stock_level, reorder_point, max_stock_level, is_semi_finished, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.BranchID, item.SKU, item.Name, item.UnitOfMeasure,
		item.MinStockLevel, item.ReorderPoint, item.MaxStockLevel, item.IsSemiFinished,
		item.CreatedAt, item.UpdatedAt,
	)
	return wrapWrite("insert item", err)
}

func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `
		SELECT id, branch_id, sku, name, unit_of_measure,
			min_stock_level, reorder_point, max_stock_level, is_semi_finished, created_at, updated_at
		FROM inventory_items WHERE id = $1`
	var it entity.InventoryItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.BranchID, &it.SKU, &it.Name, &it.UnitOfMeasure,
		&it.MinStockLevel, &it.ReorderPoint, &it.MaxStockLevel, &it.IsSemiFinished,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (r *InventoryItemRepo) UpdateThresholds(ctx context.Context, id string, th entity.ItemThresholds) error {
	query := `
		UPDATE inventory_items
		SET min_stock_level = $2, reorder_point = $3, max_stock_level = $4, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, th.MinStockLevel, th.ReorderPoint, th.MaxStockLevel)
	if err != nil {
		return fmt.Errorf("update item thresholds: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("item", id)
	}
	return nil
}
