package documents

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/domain/workflow"
)

// CountUseCase conteos físicos: foto del sistema al iniciar, registro de cantidades,
// cálculo de diferencias y ajuste COUNT_ADJUSTMENT al aprobar.
type CountUseCase struct {
	repo      repository.InventoryCountRepository
	committer *Committer
	keys      *Keys
	policy    invdomain.UncountedPolicy
}

// NewCountUseCase construye el caso de uso con la política de líneas no contadas.
func NewCountUseCase(repo repository.InventoryCountRepository, committer *Committer, keys *Keys, policy invdomain.UncountedPolicy) *CountUseCase {
	if policy == "" {
		policy = invdomain.UncountedAsZero
	}
	return &CountUseCase{repo: repo, committer: committer, keys: keys, policy: policy}
}

// Create crea el conteo en borrador (o lo inicia si in.Start). Sin ItemIDs, al iniciar se
// incluyen todos los ítems con posición en la bodega.
func (uc *CountUseCase) Create(ctx context.Context, branchID, userID, idemKey string, in dto.CreateCountRequest) (*dto.CountResponse, error) {
	if in.WarehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "es obligatorio")
	}
	if err := checkDistinctItems(in.ItemIDs); err != nil {
		return nil, err
	}
	get := func(ctx context.Context, id string) (*dto.CountResponse, error) {
		return uc.Get(ctx, branchID, id)
	}
	return idempotent(ctx, uc.keys, scopeOf(KindInventoryCount, branchID), idemKey, get, func(ctx context.Context) (*dto.CountResponse, string, error) {
		c, err := uc.create(ctx, branchID, userID, in)
		if err != nil {
			return nil, "", err
		}
		return dto.ToCountResponse(c), c.ID, nil
	})
}

// StartCount crea e inicia un conteo de toda la bodega.
func (uc *CountUseCase) StartCount(ctx context.Context, branchID, userID, warehouseID string) (*dto.CountResponse, error) {
	return uc.Create(ctx, branchID, userID, "", dto.CreateCountRequest{WarehouseID: warehouseID, Start: true})
}

func (uc *CountUseCase) create(ctx context.Context, branchID, userID string, in dto.CreateCountRequest) (*entity.InventoryCount, error) {
	now := uc.committer.Now()
	c := &entity.InventoryCount{
		ID:          uuid.New().String(),
		BranchID:    branchID,
		WarehouseID: in.WarehouseID,
		Status:      entity.CountDraft,
		Notes:       in.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, itemID := range in.ItemIDs {
		c.Lines = append(c.Lines, entity.InventoryCountLine{ID: uuid.New().String(), CountID: c.ID, ItemID: itemID})
	}
	err := uc.committer.Tx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := inventory.LoadWarehouse(ctx, repos.Warehouses, branchID, c.WarehouseID); err != nil {
			return err
		}
		for _, l := range c.Lines {
			if _, err := inventory.LoadItem(ctx, repos.Items, branchID, l.ItemID); err != nil {
				return err
			}
		}
		number, err := nextNumber(ctx, repos, KindInventoryCount)
		if err != nil {
			return err
		}
		c.CountNumber = number
		if in.Start {
			if err := uc.start(ctx, repos, c); err != nil {
				return err
			}
		}
		return repos.Counts.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Start draft -> in_progress: fija SystemQuantity y UnitCost de cada línea.
func (uc *CountUseCase) Start(ctx context.Context, branchID, id string) (*dto.CountResponse, error) {
	return uc.mutate(ctx, branchID, id, func(ctx context.Context, repos repository.Repos, c *entity.InventoryCount) error {
		return uc.start(ctx, repos, c)
	})
}

func (uc *CountUseCase) start(ctx context.Context, repos repository.Repos, c *entity.InventoryCount) error {
	next, err := workflow.InventoryCounts.Fire(c.Status, workflow.EventStart, "")
	if err != nil {
		return err
	}
	if len(c.Lines) == 0 {
		positions, err := repos.Positions.List(ctx, c.WarehouseID)
		if err != nil {
			return err
		}
		sort.Slice(positions, func(i, j int) bool { return positions[i].ItemID < positions[j].ItemID })
		for _, p := range positions {
			c.Lines = append(c.Lines, entity.InventoryCountLine{
				ID:             uuid.New().String(),
				CountID:        c.ID,
				ItemID:         p.ItemID,
				SystemQuantity: p.Quantity,
				UnitCost:       p.AverageCost,
			})
		}
	} else {
		for i := range c.Lines {
			p, err := position(ctx, repos, c.WarehouseID, c.Lines[i].ItemID)
			if err != nil {
				return err
			}
			c.Lines[i].SystemQuantity = p.Quantity
			c.Lines[i].UnitCost = p.AverageCost
		}
	}
	if len(c.Lines) == 0 {
		return domain.NewValidationError("item_ids", "la bodega no tiene ítems para contar")
	}
	now := uc.committer.Now()
	c.Status = next
	c.StartedAt = &now
	c.UpdatedAt = now
	return nil
}

// RecordCountedQuantity registra la cantidad contada de un ítem (solo en in_progress).
// Registrar de nuevo reemplaza el valor anterior.
func (uc *CountUseCase) RecordCountedQuantity(ctx context.Context, branchID, id string, in dto.RecordCountRequest) (*dto.CountResponse, error) {
	if in.CountedQuantity.IsNegative() {
		return nil, domain.NewValidationError("counted_quantity", "no puede ser negativa")
	}
	return uc.mutate(ctx, branchID, id, func(ctx context.Context, repos repository.Repos, c *entity.InventoryCount) error {
		if c.Status != entity.CountInProgress {
			return &domain.TransitionError{
				Document: KindInventoryCount,
				From:     string(c.Status),
				Event:    "record",
				Reason:   "solo se registran cantidades en un conteo en proceso",
			}
		}
		line, ok := c.LineByItem(in.ItemID)
		if !ok {
			return domain.NewNotFound("count_line", in.ItemID)
		}
		qty := in.CountedQuantity
		line.CountedQuantity = &qty
		line.IsCounted = true
		c.UpdatedAt = uc.committer.Now()
		return nil
	})
}

// Complete in_progress -> completed: resuelve los no contados según la política, revaloriza al
// costo promedio vigente y calcula el resumen de diferencias.
func (uc *CountUseCase) Complete(ctx context.Context, branchID, id string) (*dto.CountResponse, error) {
	return uc.mutate(ctx, branchID, id, func(ctx context.Context, repos repository.Repos, c *entity.InventoryCount) error {
		next, err := workflow.InventoryCounts.Fire(c.Status, workflow.EventComplete, "")
		if err != nil {
			return err
		}
		invdomain.ApplyUncountedPolicy(c.Lines, uc.policy)
		for i := range c.Lines {
			p, err := position(ctx, repos, c.WarehouseID, c.Lines[i].ItemID)
			if err != nil {
				return err
			}
			c.Lines[i].UnitCost = p.AverageCost
		}
		c.Summary = invdomain.ComputeVariance(c.Lines)
		now := uc.committer.Now()
		c.Status = next
		c.CompletedAt = &now
		c.UpdatedAt = now
		return nil
	})
}

// Reject completed -> in_progress con motivo. Las líneas resueltas por política vuelven a quedar sin contar.
func (uc *CountUseCase) Reject(ctx context.Context, branchID, id, reason string) (*dto.CountResponse, error) {
	return uc.mutate(ctx, branchID, id, func(ctx context.Context, repos repository.Repos, c *entity.InventoryCount) error {
		next, err := workflow.InventoryCounts.Fire(c.Status, workflow.EventReject, reason)
		if err != nil {
			return err
		}
		for i := range c.Lines {
			if !c.Lines[i].IsCounted {
				c.Lines[i].CountedQuantity = nil
			}
		}
		c.Status = next
		c.RejectReason = strings.TrimSpace(reason)
		c.Summary = entity.VarianceSummary{}
		c.CompletedAt = nil
		c.UpdatedAt = uc.committer.Now()
		return nil
	})
}

// Approve completed -> approved: asienta COUNT_ADJUSTMENT (contado - sistema) por cada línea con
// diferencia, al costo promedio de la posición bloqueada.
func (uc *CountUseCase) Approve(ctx context.Context, branchID, userID, id string) (*dto.CountResponse, error) {
	var c *entity.InventoryCount
	err := uc.committer.Commit(ctx, func(ctx context.Context, repos repository.Repos) (*inventory.CommitEvent, error) {
		var err error
		c, err = lockCount(ctx, repos, branchID, id)
		if err != nil {
			return nil, err
		}
		next, err := workflow.InventoryCounts.Fire(c.Status, workflow.EventApprove, "")
		if err != nil {
			return nil, err
		}

		keys := make([]entity.StockKey, 0, len(c.Lines))
		for _, l := range c.Lines {
			keys = append(keys, entity.StockKey{WarehouseID: c.WarehouseID, ItemID: l.ItemID})
		}
		positions, err := uc.committer.Lock(ctx, repos, keys)
		if err != nil {
			return nil, err
		}
		lines := make([]inventory.Line, 0, len(c.Lines))
		for i := range c.Lines {
			l := &c.Lines[i]
			l.UnitCost = positions[entity.StockKey{WarehouseID: c.WarehouseID, ItemID: l.ItemID}].AverageCost
			variance := l.Variance()
			if variance.IsZero() {
				continue
			}
			cost := l.UnitCost
			lines = append(lines, inventory.Line{LineID: l.ID, Entry: invdomain.Entry{
				WarehouseID:   c.WarehouseID,
				ItemID:        l.ItemID,
				Type:          entity.MovementCountAdjustment,
				Quantity:      variance,
				UnitCost:      &cost,
				ReferenceType: entity.ReferenceInventoryCount,
				ReferenceID:   c.ID,
				Notes:         c.CountNumber,
				CreatedBy:     userID,
			}})
		}
		c.Summary = invdomain.ComputeVariance(c.Lines)

		ev, err := uc.committer.Post(ctx, repos, inventory.CommitEvent{
			DocumentID:   c.ID,
			DocumentType: KindInventoryCount,
			DocumentNo:   c.CountNumber,
			BranchID:     c.BranchID,
			WarehouseID:  c.WarehouseID,
			CommittedBy:  userID,
		}, positions, lines)
		if err != nil {
			return nil, err
		}

		now := uc.committer.Now()
		c.Status = next
		c.ApprovedAt = &now
		c.ApprovedBy = userID
		c.UpdatedAt = now
		if err := repos.Counts.Update(ctx, c); err != nil {
			return nil, err
		}
		return ev, nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToCountResponse(c), nil
}

// Get obtiene un conteo.
func (uc *CountUseCase) Get(ctx context.Context, branchID, id string) (*dto.CountResponse, error) {
	c, err := uc.Load(ctx, branchID, id)
	if err != nil {
		return nil, err
	}
	return dto.ToCountResponse(c), nil
}

// Load obtiene la entidad (reportes PDF).
func (uc *CountUseCase) Load(ctx context.Context, branchID, id string) (*entity.InventoryCount, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFound(KindInventoryCount, id)
	}
	if err := inventory.EnsureBranch(branchID, c.BranchID); err != nil {
		return nil, err
	}
	return c, nil
}

// List lista conteos de la sucursal.
func (uc *CountUseCase) List(ctx context.Context, branchID string, q dto.DocumentQuery) (*dto.CountListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, entity.CountFilter{
		BranchID:    branchID,
		WarehouseID: q.WarehouseID,
		Status:      entity.CountStatus(q.Status),
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CountResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.ToCountResponse(c))
	}
	return &dto.CountListResponse{Items: items, Page: q.PageRequest.Result(len(items))}, nil
}

// mutate bloquea el conteo, aplica fn y lo guarda en la misma transacción.
func (uc *CountUseCase) mutate(ctx context.Context, branchID, id string, fn func(context.Context, repository.Repos, *entity.InventoryCount) error) (*dto.CountResponse, error) {
	var c *entity.InventoryCount
	err := uc.committer.Tx(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		c, err = lockCount(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, repos, c); err != nil {
			return err
		}
		return repos.Counts.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToCountResponse(c), nil
}

func lockCount(ctx context.Context, repos repository.Repos, branchID, id string) (*entity.InventoryCount, error) {
	c, err := repos.Counts.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFound(KindInventoryCount, id)
	}
	if err := inventory.EnsureBranch(branchID, c.BranchID); err != nil {
		return nil, err
	}
	return c, nil
}

// position posición actual o cero si la clave no tiene movimientos.
func position(ctx context.Context, repos repository.Repos, warehouseID, itemID string) (*entity.StockPosition, error) {
	p, err := repos.Positions.Get(ctx, warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = entity.NewStockPosition(warehouseID, itemID)
	}
	return p, nil
}
