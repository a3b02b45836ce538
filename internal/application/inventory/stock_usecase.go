package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// StockQueryUseCase lecturas del libro y de las posiciones.
type StockQueryUseCase struct {
	positionRepo  repository.StockPositionRepository
	movementRepo  repository.StockMovementRepository
	itemRepo      repository.InventoryItemRepository
	warehouseRepo repository.WarehouseRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	positionRepo repository.StockPositionRepository,
	movementRepo repository.StockMovementRepository,
	itemRepo repository.InventoryItemRepository,
	warehouseRepo repository.WarehouseRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		positionRepo:  positionRepo,
		movementRepo:  movementRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
	}
}

// GetStockPosition devuelve la posición de (bodega, ítem); una clave sin movimientos es cero.
func (uc *StockQueryUseCase) GetStockPosition(ctx context.Context, branchID, warehouseID, itemID string) (*dto.StockPositionResponse, error) {
	if _, err := LoadWarehouse(ctx, uc.warehouseRepo, branchID, warehouseID); err != nil {
		return nil, err
	}
	if _, err := LoadItem(ctx, uc.itemRepo, branchID, itemID); err != nil {
		return nil, err
	}
	pos, err := uc.positionRepo.Get(ctx, warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		pos = entity.NewStockPosition(warehouseID, itemID)
	}
	out := dto.ToStockPositionResponse(pos)
	return &out, nil
}

// ListStockPositions posiciones de una bodega.
func (uc *StockQueryUseCase) ListStockPositions(ctx context.Context, branchID, warehouseID string) ([]dto.StockPositionResponse, error) {
	if _, err := LoadWarehouse(ctx, uc.warehouseRepo, branchID, warehouseID); err != nil {
		return nil, err
	}
	list, err := uc.positionRepo.List(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockPositionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToStockPositionResponse(p))
	}
	return out, nil
}

// ListMovements lista movimientos con filtros, más recientes primero.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, branchID string, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	if q.WarehouseID != "" {
		if _, err := LoadWarehouse(ctx, uc.warehouseRepo, branchID, q.WarehouseID); err != nil {
			return nil, err
		}
	}
	if q.Type != "" && !entity.MovementType(q.Type).IsValid() {
		return nil, domain.NewValidationError("type", "tipo de movimiento desconocido")
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.NewValidationError("to", "el rango de fechas está invertido")
	}
	list, err := uc.movementRepo.List(ctx, entity.MovementFilter{
		BranchID:      branchID,
		WarehouseID:   q.WarehouseID,
		ItemID:        q.ItemID,
		Type:          entity.MovementType(q.Type),
		ReferenceType: q.ReferenceType,
		ReferenceID:   q.ReferenceID,
		From:          q.From,
		To:            q.To,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Items: dto.ToMovementResponses(list),
		Page:  q.Result(len(list)),
	}, nil
}

// ParseDateRange interpreta from/to (RFC3339 o YYYY-MM-DD; to con fecha sola incluye el día completo).
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	parse := func(field, s string, endOfDay bool) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, domain.NewValidationError(field, "fecha inválida (RFC3339 o YYYY-MM-DD)")
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	f, err := parse("from", from, false)
	if err != nil {
		return nil, nil, err
	}
	t, err := parse("to", to, true)
	if err != nil {
		return nil, nil, err
	}
	return f, t, nil
}
