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
	_ repository.InventoryItemRepository    = (*itemRepo)(nil)
	_ repository.WarehouseRepository        = (*warehouseRepo)(nil)
	_ repository.DocumentSequenceRepository = (*sequenceRepo)(nil)
)

type itemRepo struct{ v view }

func (r *itemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	return r.v.with(func(st *state) error {
		for _, it := range st.items {
			if it.BranchID == item.BranchID && it.SKU == item.SKU {
				return domain.ErrDuplicate
			}
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.v.with(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) UpdateThresholds(_ context.Context, id string, th entity.ItemThresholds) error {
	return r.v.with(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return domain.NewNotFound("item", id)
		}
		it.MinStockLevel = th.MinStockLevel
		it.ReorderPoint = th.ReorderPoint
		it.MaxStockLevel = th.MaxStockLevel
		it.UpdatedAt = time.Now()
		st.items[id] = it
		return nil
	})
}

type warehouseRepo struct{ v view }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v.with(func(st *state) error {
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.with(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *warehouseRepo) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.v.with(func(st *state) error {
		for _, w := range st.warehouses {
			if branchID == "" || w.BranchID == branchID {
				w := w
				out = append(out, &w)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

type sequenceRepo struct{ v view }

func (r *sequenceRepo) Next(_ context.Context, kind string) (int64, error) {
	var n int64
	err := r.v.with(func(st *state) error {
		st.sequences[kind]++
		n = st.sequences[kind]
		return nil
	})
	return n, err
}
