package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.StockPositionRepository = (*positionRepo)(nil)
	_ repository.StockAlertRepository    = (*alertRepo)(nil)
)

type movementRepo struct{ v view }

func movementKey(m *entity.StockMovement) string {
	return m.ReferenceType + "|" + m.ReferenceID + "|" + m.WarehouseID + "|" + m.ItemID + "|" + string(m.Type)
}

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.with(func(st *state) error {
		if m.ReferenceID != "" {
			k := movementKey(m)
			if _, ok := st.movKeys[k]; ok {
				return domain.ErrDuplicate
			}
			st.movKeys[k] = struct{}{}
		}
		st.lastSeq++
		m.Sequence = st.lastSeq
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.with(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if !matchMovement(m, f) || !inBranch(st, m.WarehouseID, f.BranchID) {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Sequence > out[j].Sequence
	})
	return page(out, f.Limit, f.Offset), nil
}

// inBranch indica si la bodega pertenece a la sucursal; branchID vacío no filtra.
func inBranch(st *state, warehouseID, branchID string) bool {
	if branchID == "" {
		return true
	}
	wh, ok := st.warehouses[warehouseID]
	return ok && wh.BranchID == branchID
}

func matchMovement(m entity.StockMovement, f entity.MovementFilter) bool {
	switch {
	case f.WarehouseID != "" && m.WarehouseID != f.WarehouseID:
		return false
	case f.ItemID != "" && m.ItemID != f.ItemID:
		return false
	case f.Type != "" && m.Type != f.Type:
		return false
	case f.ReferenceType != "" && m.ReferenceType != f.ReferenceType:
		return false
	case f.ReferenceID != "" && m.ReferenceID != f.ReferenceID:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}

func (r *movementRepo) ListForReplay(_ context.Context, warehouseID string) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if warehouseID == "" || m.WarehouseID == warehouseID {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out, err
}

type positionRepo struct{ v view }

func (r *positionRepo) Get(_ context.Context, warehouseID, itemID string) (*entity.StockPosition, error) {
	var out *entity.StockPosition
	err := r.v.with(func(st *state) error {
		if p, ok := st.positions[entity.StockKey{WarehouseID: warehouseID, ItemID: itemID}]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// LockForUpdate en memoria el mutex de la tx ya serializa; solo crea las posiciones faltantes.
func (r *positionRepo) LockForUpdate(_ context.Context, keys []entity.StockKey) (map[entity.StockKey]*entity.StockPosition, error) {
	out := make(map[entity.StockKey]*entity.StockPosition, len(keys))
	err := r.v.with(func(st *state) error {
		for _, k := range keys {
			p, ok := st.positions[k]
			if !ok {
				p = *entity.NewStockPosition(k.WarehouseID, k.ItemID)
				st.positions[k] = p
			}
			cp := p
			out[k] = &cp
		}
		return nil
	})
	return out, err
}

func (r *positionRepo) Upsert(_ context.Context, p *entity.StockPosition) error {
	return r.v.with(func(st *state) error {
		st.positions[entity.StockKey{WarehouseID: p.WarehouseID, ItemID: p.ItemID}] = *p
		return nil
	})
}

func (r *positionRepo) List(_ context.Context, warehouseID string) ([]*entity.StockPosition, error) {
	return r.filter(func(p entity.StockPosition) bool { return warehouseID == "" || p.WarehouseID == warehouseID })
}

func (r *positionRepo) ListByItem(_ context.Context, itemID string) ([]*entity.StockPosition, error) {
	return r.filter(func(p entity.StockPosition) bool { return p.ItemID == itemID })
}

func (r *positionRepo) filter(keep func(entity.StockPosition) bool) ([]*entity.StockPosition, error) {
	var out []*entity.StockPosition
	err := r.v.with(func(st *state) error {
		for _, p := range st.positions {
			if keep(p) {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return entity.StockKey{WarehouseID: out[i].WarehouseID, ItemID: out[i].ItemID}.
			Less(entity.StockKey{WarehouseID: out[j].WarehouseID, ItemID: out[j].ItemID})
	})
	return out, err
}

type alertRepo struct{ v view }

func (r *alertRepo) Create(_ context.Context, a *entity.StockAlert) error {
	return r.v.with(func(st *state) error {
		st.alerts[a.ID] = *a
		return nil
	})
}

func (r *alertRepo) GetByID(_ context.Context, id string) (*entity.StockAlert, error) {
	var out *entity.StockAlert
	err := r.v.with(func(st *state) error {
		if a, ok := st.alerts[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *alertRepo) ListOpen(_ context.Context, warehouseID, itemID string) ([]entity.StockAlert, error) {
	var out []entity.StockAlert
	err := r.v.with(func(st *state) error {
		for _, a := range st.alerts {
			if a.WarehouseID == warehouseID && a.ItemID == itemID && !a.IsAcknowledged {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

func (r *alertRepo) List(_ context.Context, f entity.AlertFilter) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	err := r.v.with(func(st *state) error {
		for _, a := range st.alerts {
			if f.WarehouseID != "" && a.WarehouseID != f.WarehouseID {
				continue
			}
			if !inBranch(st, a.WarehouseID, f.BranchID) {
				continue
			}
			if f.Type != "" && a.Type != f.Type {
				continue
			}
			if f.Acknowledged != nil && a.IsAcknowledged != *f.Acknowledged {
				continue
			}
			a := a
			out = append(out, &a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *alertRepo) Acknowledge(_ context.Context, id, userID string, at time.Time) error {
	return r.v.with(func(st *state) error {
		a, ok := st.alerts[id]
		if !ok {
			return domain.NewNotFound("alert", id)
		}
		a.IsAcknowledged = true
		a.AcknowledgedBy = userID
		a.AcknowledgedAt = &at
		st.alerts[id] = a
		return nil
	})
}
