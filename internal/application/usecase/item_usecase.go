package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// ItemSweeper reevalúa alertas de un ítem tras cambiar sus umbrales.
type ItemSweeper interface {
	SweepItem(ctx context.Context, itemID string) ([]*entity.StockAlert, error)
}

// ItemUseCase catálogo de ítems de inventario.
type ItemUseCase struct {
	repo    repository.InventoryItemRepository
	sweeper ItemSweeper
}

// NewItemUseCase construye el caso de uso. sweeper puede ser nil.
func NewItemUseCase(repo repository.InventoryItemRepository, sweeper ItemSweeper) *ItemUseCase {
	return &ItemUseCase{repo: repo, sweeper: sweeper}
}

// Create registra un ítem con sus umbrales.
func (uc *ItemUseCase) Create(ctx context.Context, branchID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if strings.TrimSpace(in.SKU) == "" {
		return nil, domain.NewValidationError("sku", "es obligatorio")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	th := entity.ItemThresholds{MinStockLevel: in.MinStockLevel, ReorderPoint: in.ReorderPoint, MaxStockLevel: in.MaxStockLevel}
	if err := validateThresholds(th); err != nil {
		return nil, err
	}
	now := time.Now()
	item := &entity.InventoryItem{
		ID:             uuid.New().String(),
		BranchID:       branchID,
		SKU:            strings.TrimSpace(in.SKU),
		Name:           strings.TrimSpace(in.Name),
		UnitOfMeasure:  in.UnitOfMeasure,
		MinStockLevel:  th.MinStockLevel,
		ReorderPoint:   th.ReorderPoint,
		MaxStockLevel:  th.MaxStockLevel,
		IsSemiFinished: in.IsSemiFinished,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// GetByID obtiene un ítem.
func (uc *ItemUseCase) GetByID(ctx context.Context, branchID, id string) (*dto.ItemResponse, error) {
	item, err := inventory.LoadItem(ctx, uc.repo, branchID, id)
	if err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// UpdateThresholds cambia los umbrales y reevalúa las alertas de sus posiciones.
func (uc *ItemUseCase) UpdateThresholds(ctx context.Context, branchID, id string, in dto.UpdateThresholdsRequest) (*dto.ItemResponse, error) {
	item, err := inventory.LoadItem(ctx, uc.repo, branchID, id)
	if err != nil {
		return nil, err
	}
	th := entity.ItemThresholds{MinStockLevel: in.MinStockLevel, ReorderPoint: in.ReorderPoint, MaxStockLevel: in.MaxStockLevel}
	if err := validateThresholds(th); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateThresholds(ctx, id, th); err != nil {
		return nil, err
	}
	item.MinStockLevel = th.MinStockLevel
	item.ReorderPoint = th.ReorderPoint
	item.MaxStockLevel = th.MaxStockLevel
	item.UpdatedAt = time.Now()
	if uc.sweeper != nil {
		if _, err := uc.sweeper.SweepItem(ctx, id); err != nil {
			return nil, err
		}
	}
	return dto.ToItemResponse(item), nil
}

func validateThresholds(th entity.ItemThresholds) error {
	if th.MinStockLevel.IsNegative() {
		return domain.NewValidationError("min_stock_level", "no puede ser negativo")
	}
	if th.ReorderPoint.IsNegative() {
		return domain.NewValidationError("reorder_point", "no puede ser negativo")
	}
	if th.MaxStockLevel != nil && th.MaxStockLevel.LessThan(decimal.Max(th.MinStockLevel, th.ReorderPoint)) {
		return domain.NewValidationError("max_stock_level", "debe ser mayor o igual al mínimo y al punto de reorden")
	}
	return nil
}
