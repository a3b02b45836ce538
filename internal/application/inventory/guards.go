package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// EnsureBranch rechaza recursos de otra sucursal. branchID vacío = llamador interno (CLI, sweeper).
func EnsureBranch(branchID, ownerBranchID string) error {
	if branchID != "" && ownerBranchID != "" && branchID != ownerBranchID {
		return domain.ErrForbidden
	}
	return nil
}

// LoadWarehouse obtiene una bodega validando existencia y sucursal.
func LoadWarehouse(ctx context.Context, repo repository.WarehouseRepository, branchID, id string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, domain.NewValidationError("warehouse_id", "es obligatorio")
	}
	wh, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NewNotFound("warehouse", id)
	}
	if err := EnsureBranch(branchID, wh.BranchID); err != nil {
		return nil, err
	}
	return wh, nil
}

// LoadItem obtiene un ítem validando existencia y sucursal.
func LoadItem(ctx context.Context, repo repository.InventoryItemRepository, branchID, id string) (*entity.InventoryItem, error) {
	if id == "" {
		return nil, domain.NewValidationError("item_id", "es obligatorio")
	}
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFound("item", id)
	}
	if err := EnsureBranch(branchID, item.BranchID); err != nil {
		return nil, err
	}
	return item, nil
}
