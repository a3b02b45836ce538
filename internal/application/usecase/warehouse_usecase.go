package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// WarehouseUseCase casos de uso para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una nueva bodega en la sucursal.
func (uc *WarehouseUseCase) Create(ctx context.Context, branchID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:                 uuid.New().String(),
		BranchID:           branchID,
		Name:               strings.TrimSpace(in.Name),
		Address:            in.Address,
		AllowNegativeStock: in.AllowNegativeStock,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, branchID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := inventory.LoadWarehouse(ctx, uc.repo, branchID, id)
	if err != nil {
		return nil, err
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// List lista bodegas de la sucursal con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, branchID string, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByBranch(ctx, branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *dto.ToWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  page.Result(len(items)),
	}, nil
}
