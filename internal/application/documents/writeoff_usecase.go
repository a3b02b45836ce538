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

// WriteoffUseCase bajas de inventario; aprobar asienta WRITEOFF por línea al costo promedio.
type WriteoffUseCase struct {
	repo      repository.WriteoffRepository
	committer *Committer
	keys      *Keys
}

// NewWriteoffUseCase construye el caso de uso.
func NewWriteoffUseCase(repo repository.WriteoffRepository, committer *Committer, keys *Keys) *WriteoffUseCase {
	return &WriteoffUseCase{repo: repo, committer: committer, keys: keys}
}

// Create crea la baja en borrador.
func (uc *WriteoffUseCase) Create(ctx context.Context, branchID, userID, idemKey string, in dto.CreateWriteoffRequest) (*dto.WriteoffResponse, error) {
	if err := validateWriteoff(in); err != nil {
		return nil, err
	}
	get := func(ctx context.Context, id string) (*dto.WriteoffResponse, error) {
		return uc.Get(ctx, branchID, id)
	}
	return idempotent(ctx, uc.keys, scopeOf(KindWriteoff, branchID), idemKey, get, func(ctx context.Context) (*dto.WriteoffResponse, string, error) {
		w, err := uc.create(ctx, branchID, userID, in)
		if err != nil {
			return nil, "", err
		}
		return dto.ToWriteoffResponse(w), w.ID, nil
	})
}

func (uc *WriteoffUseCase) create(ctx context.Context, branchID, userID string, in dto.CreateWriteoffRequest) (*entity.Writeoff, error) {
	now := uc.committer.Now()
	w := &entity.Writeoff{
		ID:          uuid.New().String(),
		BranchID:    branchID,
		WarehouseID: in.WarehouseID,
		Status:      entity.WriteoffDraft,
		Reason:      entity.WriteoffReason(in.Reason),
		Notes:       in.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range in.Lines {
		w.Lines = append(w.Lines, entity.WriteoffLine{
			ID:         uuid.New().String(),
			WriteoffID: w.ID,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
		})
	}
	err := uc.committer.Tx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := inventory.LoadWarehouse(ctx, repos.Warehouses, branchID, w.WarehouseID); err != nil {
			return err
		}
		for i := range w.Lines {
			if _, err := inventory.LoadItem(ctx, repos.Items, branchID, w.Lines[i].ItemID); err != nil {
				return err
			}
			p, err := position(ctx, repos, w.WarehouseID, w.Lines[i].ItemID)
			if err != nil {
				return err
			}
			w.Lines[i].UnitCost = p.AverageCost
		}
		w.RecalculateTotal()
		number, err := nextNumber(ctx, repos, KindWriteoff)
		if err != nil {
			return err
		}
		w.WriteoffNumber = number
		return repos.Writeoffs.Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func validateWriteoff(in dto.CreateWriteoffRequest) error {
	if in.WarehouseID == "" {
		return domain.NewValidationError("warehouse_id", "es obligatorio")
	}
	if !entity.WriteoffReason(in.Reason).IsValid() {
		return domain.NewValidationError("reason", "motivo desconocido")
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "la baja debe tener al menos una línea")
	}
	ids := make([]string, 0, len(in.Lines))
	for i, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "debe ser mayor que cero")
		}
		ids = append(ids, l.ItemID)
	}
	return checkDistinctItems(ids)
}

// Submit draft -> submitted.
func (uc *WriteoffUseCase) Submit(ctx context.Context, branchID, id string) (*dto.WriteoffResponse, error) {
	return uc.transition(ctx, branchID, id, workflow.EventSubmit, "", func(w *entity.Writeoff) {
		now := uc.committer.Now()
		w.SubmittedAt = &now
		w.RejectReason = ""
	})
}

// Reject submitted -> draft con motivo.
func (uc *WriteoffUseCase) Reject(ctx context.Context, branchID, id, reason string) (*dto.WriteoffResponse, error) {
	return uc.transition(ctx, branchID, id, workflow.EventReject, reason, func(w *entity.Writeoff) {
		w.RejectReason = strings.TrimSpace(reason)
		w.SubmittedAt = nil
	})
}

func (uc *WriteoffUseCase) transition(ctx context.Context, branchID, id string, ev workflow.Event, reason string, apply func(*entity.Writeoff)) (*dto.WriteoffResponse, error) {
	var w *entity.Writeoff
	err := uc.committer.Tx(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		w, err = lockWriteoff(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		next, err := workflow.Writeoffs.Fire(w.Status, ev, reason)
		if err != nil {
			return err
		}
		w.Status = next
		apply(w)
		w.UpdatedAt = uc.committer.Now()
		return repos.Writeoffs.Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToWriteoffResponse(w), nil
}

// Approve submitted -> approved: descuenta cada línea al costo promedio de la posición bloqueada.
// Si alguna línea dejaría stock negativo en una bodega que no lo permite, falla todo el documento.
func (uc *WriteoffUseCase) Approve(ctx context.Context, branchID, userID, id string) (*dto.WriteoffResponse, error) {
	var w *entity.Writeoff
	err := uc.committer.Commit(ctx, func(ctx context.Context, repos repository.Repos) (*inventory.CommitEvent, error) {
		var err error
		w, err = lockWriteoff(ctx, repos, branchID, id)
		if err != nil {
			return nil, err
		}
		next, err := workflow.Writeoffs.Fire(w.Status, workflow.EventApprove, "")
		if err != nil {
			return nil, err
		}

		keys := make([]entity.StockKey, 0, len(w.Lines))
		for _, l := range w.Lines {
			keys = append(keys, entity.StockKey{WarehouseID: w.WarehouseID, ItemID: l.ItemID})
		}
		positions, err := uc.committer.Lock(ctx, repos, keys)
		if err != nil {
			return nil, err
		}
		lines := make([]inventory.Line, 0, len(w.Lines))
		for i := range w.Lines {
			l := &w.Lines[i]
			l.UnitCost = positions[entity.StockKey{WarehouseID: w.WarehouseID, ItemID: l.ItemID}].AverageCost
			cost := l.UnitCost
			lines = append(lines, inventory.Line{LineID: l.ID, Entry: invdomain.Entry{
				WarehouseID:   w.WarehouseID,
				ItemID:        l.ItemID,
				Type:          entity.MovementWriteoff,
				Quantity:      l.Quantity.Neg(),
				UnitCost:      &cost,
				ReferenceType: entity.ReferenceWriteoff,
				ReferenceID:   w.ID,
				Notes:         string(w.Reason),
				CreatedBy:     userID,
			}})
		}
		w.RecalculateTotal()

		ev, err := uc.committer.Post(ctx, repos, inventory.CommitEvent{
			DocumentID:   w.ID,
			DocumentType: KindWriteoff,
			DocumentNo:   w.WriteoffNumber,
			BranchID:     w.BranchID,
			WarehouseID:  w.WarehouseID,
			CommittedBy:  userID,
		}, positions, lines)
		if err != nil {
			return nil, err
		}

		now := uc.committer.Now()
		w.Status = next
		w.ApprovedAt = &now
		w.ApprovedBy = userID
		w.UpdatedAt = now
		if err := repos.Writeoffs.Update(ctx, w); err != nil {
			return nil, err
		}
		return ev, nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToWriteoffResponse(w), nil
}

// Get obtiene una baja.
func (uc *WriteoffUseCase) Get(ctx context.Context, branchID, id string) (*dto.WriteoffResponse, error) {
	w, err := uc.Load(ctx, branchID, id)
	if err != nil {
		return nil, err
	}
	return dto.ToWriteoffResponse(w), nil
}

// Load obtiene la entidad (reportes PDF).
func (uc *WriteoffUseCase) Load(ctx context.Context, branchID, id string) (*entity.Writeoff, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewNotFound(KindWriteoff, id)
	}
	if err := inventory.EnsureBranch(branchID, w.BranchID); err != nil {
		return nil, err
	}
	return w, nil
}

// List lista bajas de la sucursal.
func (uc *WriteoffUseCase) List(ctx context.Context, branchID string, q dto.DocumentQuery) (*dto.WriteoffListResponse, error) {
	q.DefaultPage()
	list, err := uc.repo.List(ctx, entity.WriteoffFilter{
		BranchID:    branchID,
		WarehouseID: q.WarehouseID,
		Status:      entity.WriteoffStatus(q.Status),
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WriteoffResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *dto.ToWriteoffResponse(w))
	}
	return &dto.WriteoffListResponse{Items: items, Page: q.PageRequest.Result(len(items))}, nil
}

func lockWriteoff(ctx context.Context, repos repository.Repos, branchID, id string) (*entity.Writeoff, error) {
	w, err := repos.Writeoffs.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewNotFound(KindWriteoff, id)
	}
	if err := inventory.EnsureBranch(branchID, w.BranchID); err != nil {
		return nil, err
	}
	return w, nil
}
