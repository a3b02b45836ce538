package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// RebuildUseCase reconstruye las posiciones reproduciendo el libro.
type RebuildUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	log      *logger.Logger
}

// NewRebuildUseCase construye el caso de uso.
func NewRebuildUseCase(txRunner TxRunner, ledger *Ledger, log *logger.Logger) *RebuildUseCase {
	return &RebuildUseCase{txRunner: txRunner, ledger: ledger, log: log.Component("rebuild")}
}

// ReconcilePositions compara posiciones con el libro sin escribir. warehouseID "" = todas.
func (uc *RebuildUseCase) ReconcilePositions(ctx context.Context, warehouseID string) (*dto.RebuildResponse, error) {
	return uc.run(ctx, warehouseID, false)
}

// RebuildPositions reescribe las posiciones con deriva. Bloquea las claves afectadas para
// serializar con commits concurrentes; la cantidad reservada se conserva.
func (uc *RebuildUseCase) RebuildPositions(ctx context.Context, warehouseID string) (*dto.RebuildResponse, error) {
	return uc.run(ctx, warehouseID, true)
}

func (uc *RebuildUseCase) run(ctx context.Context, warehouseID string, apply bool) (*dto.RebuildResponse, error) {
	var out *dto.RebuildResponse
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		movs, err := repos.Movements.ListForReplay(ctx, warehouseID)
		if err != nil {
			return err
		}
		stored, err := repos.Positions.List(ctx, warehouseID)
		if err != nil {
			return err
		}
		rebuilt := invdomain.Replay(movs)
		flat := make([]entity.StockPosition, 0, len(stored))
		for _, p := range stored {
			flat = append(flat, *p)
		}
		drifts := invdomain.Reconcile(flat, rebuilt)

		out = &dto.RebuildResponse{
			WarehouseID: warehouseID,
			Movements:   len(movs),
			Positions:   len(rebuilt),
			Drifts:      make([]dto.DriftResponse, 0, len(drifts)),
			Applied:     apply,
		}
		for _, d := range drifts {
			out.Drifts = append(out.Drifts, dto.DriftResponse{
				WarehouseID:    d.Key.WarehouseID,
				ItemID:         d.Key.ItemID,
				StoredQuantity: d.StoredQuantity,
				LedgerQuantity: d.LedgerQuantity,
				StoredAvgCost:  d.StoredAvgCost,
				LedgerAvgCost:  d.LedgerAvgCost,
			})
		}
		if !apply || len(drifts) == 0 {
			return nil
		}

		keys := make([]entity.StockKey, 0, len(drifts))
		for _, d := range drifts {
			keys = append(keys, d.Key)
		}
		locked, err := uc.ledger.Lock(ctx, repos, keys)
		if err != nil {
			return err
		}
		for _, k := range keys {
			cur := locked[k]
			next := entity.NewStockPosition(k.WarehouseID, k.ItemID)
			if r, ok := rebuilt[k]; ok {
				next = r
			}
			next.ReservedQuantity = decimal.Zero
			if cur != nil {
				next.ReservedQuantity = cur.ReservedQuantity
			}
			next.UpdatedAt = uc.ledger.Now()
			if err := repos.Positions.Upsert(ctx, next); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info()
	if len(out.Drifts) > 0 {
		ev = uc.log.Warn()
	}
	ev.Str("warehouse_id", warehouseID).Int("movements", out.Movements).
		Int("drifts", len(out.Drifts)).Bool("applied", apply).Msg("reconciliación de posiciones")
	return out, nil
}
