package documents

import (
	"context"
	"fmt"
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

// PurchaseOrderUseCase ciclo de vida de órdenes de compra. Recibir es la arista que asienta
// PURCHASE_RECEIVE por cada línea al costo de la línea.
type PurchaseOrderUseCase struct {
	repo      repository.PurchaseOrderRepository
	committer *Committer
	keys      *Keys
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(repo repository.PurchaseOrderRepository, committer *Committer, keys *Keys) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{repo: repo, committer: committer, keys: keys}
}

// Create crea la orden en borrador. idemKey (opcional) hace que un reintento devuelva la orden original.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, branchID, userID, idemKey string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validatePurchaseOrder(in); err != nil {
		return nil, err
	}
	get := func(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
		return uc.Get(ctx, branchID, id)
	}
	return idempotent(ctx, uc.keys, scopeOf(KindPurchaseOrder, branchID), idemKey, get, func(ctx context.Context) (*dto.PurchaseOrderResponse, string, error) {
		po, err := uc.create(ctx, branchID, userID, in)
		if err != nil {
			return nil, "", err
		}
		return dto.ToPurchaseOrderResponse(po), po.ID, nil
	})
}

func (uc *PurchaseOrderUseCase) create(ctx context.Context, branchID, userID string, in dto.CreatePurchaseOrderRequest) (*entity.PurchaseOrder, error) {
	now := uc.committer.Now()
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		BranchID:    branchID,
		WarehouseID: in.WarehouseID,
		SupplierID:  in.SupplierID,
		Status:      entity.PurchaseOrderDraft,
		Notes:       in.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range in.Lines {
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ItemID:          l.ItemID,
			OrderedQty:      l.OrderedQty,
			UnitCost:        l.UnitCost,
		})
	}
	po.RecalculateTotal()

	err := uc.committer.Tx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := inventory.LoadWarehouse(ctx, repos.Warehouses, branchID, po.WarehouseID); err != nil {
			return err
		}
		for _, l := range po.Lines {
			if _, err := inventory.LoadItem(ctx, repos.Items, branchID, l.ItemID); err != nil {
				return err
			}
		}
		number, err := nextNumber(ctx, repos, KindPurchaseOrder)
		if err != nil {
			return err
		}
		po.OrderNumber = number
		return repos.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func validatePurchaseOrder(in dto.CreatePurchaseOrderRequest) error {
	if in.WarehouseID == "" {
		return domain.NewValidationError("warehouse_id", "es obligatorio")
	}
	if strings.TrimSpace(in.SupplierID) == "" {
		return domain.NewValidationError("supplier_id", "es obligatorio")
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "la orden debe tener al menos una línea")
	}
	ids := make([]string, 0, len(in.Lines))
	for i, l := range in.Lines {
		if !l.OrderedQty.IsPositive() {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].ordered_qty", i), "debe ser mayor que cero")
		}
		if l.UnitCost.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].unit_cost", i), "no puede ser negativo")
		}
		ids = append(ids, l.ItemID)
	}
	return checkDistinctItems(ids)
}

// Send draft -> sent.
func (uc *PurchaseOrderUseCase) Send(ctx context.Context, branchID, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, branchID, id, workflow.EventSend, "", func(po *entity.PurchaseOrder) {
		now := uc.committer.Now()
		po.SentAt = &now
	})
}

// Cancel draft|sent -> cancelled; el motivo es obligatorio.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, branchID, id, reason string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, branchID, id, workflow.EventCancel, reason, func(po *entity.PurchaseOrder) {
		now := uc.committer.Now()
		po.CancelReason = strings.TrimSpace(reason)
		po.CancelledAt = &now
	})
}

func (uc *PurchaseOrderUseCase) transition(ctx context.Context, branchID, id string, ev workflow.Event, reason string, apply func(*entity.PurchaseOrder)) (*dto.PurchaseOrderResponse, error) {
	var po *entity.PurchaseOrder
	err := uc.committer.Tx(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		po, err = lockPurchaseOrder(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		next, err := workflow.PurchaseOrders.Fire(po.Status, ev, reason)
		if err != nil {
			return err
		}
		po.Status = next
		apply(po)
		po.UpdatedAt = uc.committer.Now()
		return repos.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToPurchaseOrderResponse(po), nil
}

// Receive sent -> received: asienta la recepción completa de cada línea en una sola transacción.
// Una orden ya recibida devuelve InvalidTransition sin escribir movimientos.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, branchID, userID, id string) (*dto.PurchaseOrderResponse, error) {
	var po *entity.PurchaseOrder
	err := uc.committer.Commit(ctx, func(ctx context.Context, repos repository.Repos) (*inventory.CommitEvent, error) {
		var err error
		po, err = lockPurchaseOrder(ctx, repos, branchID, id)
		if err != nil {
			return nil, err
		}
		next, err := workflow.PurchaseOrders.Fire(po.Status, workflow.EventReceive, "")
		if err != nil {
			return nil, err
		}

		keys := make([]entity.StockKey, 0, len(po.Lines))
		lines := make([]inventory.Line, 0, len(po.Lines))
		for _, l := range po.Lines {
			cost := l.UnitCost
			keys = append(keys, entity.StockKey{WarehouseID: po.WarehouseID, ItemID: l.ItemID})
			lines = append(lines, inventory.Line{LineID: l.ID, Entry: invdomain.Entry{
				WarehouseID:   po.WarehouseID,
				ItemID:        l.ItemID,
				Type:          entity.MovementPurchaseReceive,
				Quantity:      l.OrderedQty,
				UnitCost:      &cost,
				ReferenceType: entity.ReferencePurchaseOrder,
				ReferenceID:   po.ID,
				Notes:         po.OrderNumber,
				CreatedBy:     userID,
			}})
		}
		positions, err := uc.committer.Lock(ctx, repos, keys)
		if err != nil {
			return nil, err
		}
		ev, err := uc.committer.Post(ctx, repos, inventory.CommitEvent{
			DocumentID:   po.ID,
			DocumentType: KindPurchaseOrder,
			DocumentNo:   po.OrderNumber,
			BranchID:     po.BranchID,
			WarehouseID:  po.WarehouseID,
			CommittedBy:  userID,
		}, positions, lines)
		if err != nil {
			return nil, err
		}

		now := uc.committer.Now()
		po.Status = next
		po.ReceivedAt = &now
		po.ReceivedBy = userID
		po.UpdatedAt = now
		if err := repos.PurchaseOrders.Update(ctx, po); err != nil {
			return nil, err
		}
		return ev, nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToPurchaseOrderResponse(po), nil
}

// Get obtiene una orden.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, branchID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NewNotFound(KindPurchaseOrder, id)
	}
	if err := inventory.EnsureBranch(branchID, po.BranchID); err != nil {
		return nil, err
	}
	return dto.ToPurchaseOrderResponse(po), nil
}

// List lista órdenes de la sucursal.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, branchID string, q dto.DocumentQuery) (*dto.PurchaseOrderListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, entity.PurchaseOrderFilter{
		BranchID:    branchID,
		WarehouseID: q.WarehouseID,
		Status:      entity.PurchaseOrderStatus(q.Status),
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *dto.ToPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: q.PageRequest.Result(len(items))}, nil
}

func lockPurchaseOrder(ctx context.Context, repos repository.Repos, branchID, id string) (*entity.PurchaseOrder, error) {
	po, err := repos.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NewNotFound(KindPurchaseOrder, id)
	}
	if err := inventory.EnsureBranch(branchID, po.BranchID); err != nil {
		return nil, err
	}
	return po, nil
}
