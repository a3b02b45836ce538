package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository  = (*purchaseOrderRepo)(nil)
	_ repository.InventoryCountRepository = (*countRepo)(nil)
	_ repository.WriteoffRepository       = (*writeoffRepo)(nil)
)

type purchaseOrderRepo struct{ v view }

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.orders[po.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[po.ID] = copyOrder(*po)
		return nil
	})
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.v.with(func(st *state) error {
		if po, ok := st.orders[id]; ok {
			cp := copyOrder(po)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.orders[po.ID]
		if !ok {
			return domain.NewNotFound("purchase_order", po.ID)
		}
		next := *po
		next.Lines = cur.Lines
		st.orders[po.ID] = next
		return nil
	})
}

func (r *purchaseOrderRepo) List(_ context.Context, f entity.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.v.with(func(st *state) error {
		for _, po := range st.orders {
			if (f.BranchID != "" && po.BranchID != f.BranchID) ||
				(f.WarehouseID != "" && po.WarehouseID != f.WarehouseID) ||
				(f.Status != "" && po.Status != f.Status) {
				continue
			}
			cp := copyOrder(po)
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	return page(out, f.Limit, f.Offset), err
}

type countRepo struct{ v view }

func (r *countRepo) Create(_ context.Context, c *entity.InventoryCount) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.counts[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.counts[c.ID] = copyCount(*c)
		return nil
	})
}

func (r *countRepo) GetByID(_ context.Context, id string) (*entity.InventoryCount, error) {
	var out *entity.InventoryCount
	err := r.v.with(func(st *state) error {
		if c, ok := st.counts[id]; ok {
			cp := copyCount(c)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *countRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.GetByID(ctx, id)
}

func (r *countRepo) Update(_ context.Context, c *entity.InventoryCount) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.counts[c.ID]; !ok {
			return domain.NewNotFound("inventory_count", c.ID)
		}
		st.counts[c.ID] = copyCount(*c)
		return nil
	})
}

func (r *countRepo) List(_ context.Context, f entity.CountFilter) ([]*entity.InventoryCount, error) {
	var out []*entity.InventoryCount
	err := r.v.with(func(st *state) error {
		for _, c := range st.counts {
			if (f.BranchID != "" && c.BranchID != f.BranchID) ||
				(f.WarehouseID != "" && c.WarehouseID != f.WarehouseID) ||
				(f.Status != "" && c.Status != f.Status) {
				continue
			}
			cp := copyCount(c)
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CountNumber > out[j].CountNumber })
	return page(out, f.Limit, f.Offset), err
}

type writeoffRepo struct{ v view }

func (r *writeoffRepo) Create(_ context.Context, w *entity.Writeoff) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.writeoffs[w.ID]; ok {
			return domain.ErrDuplicate
		}
		st.writeoffs[w.ID] = copyWriteoff(*w)
		return nil
	})
}

func (r *writeoffRepo) GetByID(_ context.Context, id string) (*entity.Writeoff, error) {
	var out *entity.Writeoff
	err := r.v.with(func(st *state) error {
		if w, ok := st.writeoffs[id]; ok {
			cp := copyWriteoff(w)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *writeoffRepo) GetForUpdate(ctx context.Context, id string) (*entity.Writeoff, error) {
	return r.GetByID(ctx, id)
}

func (r *writeoffRepo) Update(_ context.Context, w *entity.Writeoff) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.writeoffs[w.ID]; !ok {
			return domain.NewNotFound("writeoff", w.ID)
		}
		st.writeoffs[w.ID] = copyWriteoff(*w)
		return nil
	})
}

func (r *writeoffRepo) List(_ context.Context, f entity.WriteoffFilter) ([]*entity.Writeoff, error) {
	var out []*entity.Writeoff
	err := r.v.with(func(st *state) error {
		for _, w := range st.writeoffs {
			if (f.BranchID != "" && w.BranchID != f.BranchID) ||
				(f.WarehouseID != "" && w.WarehouseID != f.WarehouseID) ||
				(f.Status != "" && w.Status != f.Status) {
				continue
			}
			cp := copyWriteoff(w)
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].WriteoffNumber > out[j].WriteoffNumber })
	return page(out, f.Limit, f.Offset), err
}
