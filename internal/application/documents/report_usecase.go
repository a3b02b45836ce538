package documents

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// ReportGenerator genera las representaciones impresas de los documentos.
type ReportGenerator interface {
	CountVariancePDF(ctx context.Context, count *entity.InventoryCount, warehouse *entity.Warehouse, items map[string]*entity.InventoryItem) ([]byte, error)
	WriteoffPDF(ctx context.Context, w *entity.Writeoff, warehouse *entity.Warehouse, items map[string]*entity.InventoryItem) ([]byte, error)
}

// Report PDF listo para descargar.
type Report struct {
	Filename string
	Content  []byte
}

// ReportUseCase arma los reportes PDF de conteos y bajas.
type ReportUseCase struct {
	counts     *CountUseCase
	writeoffs  *WriteoffUseCase
	items      repository.InventoryItemRepository
	warehouses repository.WarehouseRepository
	gen        ReportGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(
	counts *CountUseCase,
	writeoffs *WriteoffUseCase,
	items repository.InventoryItemRepository,
	warehouses repository.WarehouseRepository,
	gen ReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{counts: counts, writeoffs: writeoffs, items: items, warehouses: warehouses, gen: gen}
}

// CountReport hoja de diferencias del conteo.
func (uc *ReportUseCase) CountReport(ctx context.Context, branchID, id string) (*Report, error) {
	c, err := uc.counts.Load(ctx, branchID, id)
	if err != nil {
		return nil, err
	}
	wh, err := uc.warehouse(ctx, c.WarehouseID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.ItemID
	}
	items, err := uc.itemsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	content, err := uc.gen.CountVariancePDF(ctx, c, wh, items)
	if err != nil {
		return nil, err
	}
	return &Report{Filename: c.CountNumber + ".pdf", Content: content}, nil
}

// WriteoffReport comprobante de la baja.
func (uc *ReportUseCase) WriteoffReport(ctx context.Context, branchID, id string) (*Report, error) {
	w, err := uc.writeoffs.Load(ctx, branchID, id)
	if err != nil {
		return nil, err
	}
	wh, err := uc.warehouse(ctx, w.WarehouseID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(w.Lines))
	for i, l := range w.Lines {
		ids[i] = l.ItemID
	}
	items, err := uc.itemsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	content, err := uc.gen.WriteoffPDF(ctx, w, wh, items)
	if err != nil {
		return nil, err
	}
	return &Report{Filename: w.WriteoffNumber + ".pdf", Content: content}, nil
}

func (uc *ReportUseCase) warehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	wh, err := uc.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NewNotFound("warehouse", id)
	}
	return wh, nil
}

// itemsByID los ítems que ya no existen se omiten; el reporte muestra el id.
func (uc *ReportUseCase) itemsByID(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error) {
	out := make(map[string]*entity.InventoryItem, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		it, err := uc.items.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if it != nil {
			out[id] = it
		}
	}
	return out, nil
}
