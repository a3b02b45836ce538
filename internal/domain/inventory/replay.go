package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// SortLedger ordena movimientos por CreatedAt y, en empate, por Sequence.
func SortLedger(movs []entity.StockMovement) {
	sort.SliceStable(movs, func(i, j int) bool {
		if !movs[i].CreatedAt.Equal(movs[j].CreatedAt) {
			return movs[i].CreatedAt.Before(movs[j].CreatedAt)
		}
		return movs[i].Sequence < movs[j].Sequence
	})
}

// Replay reconstruye las posiciones a partir del libro. No valida stock negativo:
// el libro ya fue validado al escribirse.
func Replay(movs []entity.StockMovement) map[entity.StockKey]*entity.StockPosition {
	ordered := make([]entity.StockMovement, len(movs))
	copy(ordered, movs)
	SortLedger(ordered)

	out := make(map[entity.StockKey]*entity.StockPosition)
	for _, m := range ordered {
		key := entity.StockKey{WarehouseID: m.WarehouseID, ItemID: m.ItemID}
		pos, ok := out[key]
		if !ok {
			pos = entity.NewStockPosition(m.WarehouseID, m.ItemID)
			out[key] = pos
		}
		if m.Type.AffectsAverageCost() {
			pos.AverageCost = WeightedAverageCost(pos.Quantity, pos.AverageCost, m.Quantity, m.UnitCost)
			pos.LastCost = m.UnitCost
		}
		pos.Quantity = pos.Quantity.Add(m.Quantity)
		at := m.CreatedAt
		pos.LastMovementAt = &at
		pos.UpdatedAt = m.CreatedAt
	}
	return out
}

// Drift diferencia entre la posición almacenada y la reconstruida desde el libro.
type Drift struct {
	Key            entity.StockKey
	StoredQuantity decimal.Decimal
	LedgerQuantity decimal.Decimal
	StoredAvgCost  decimal.Decimal
	LedgerAvgCost  decimal.Decimal
}

// Reconcile compara posiciones almacenadas con las reconstruidas. Una posición almacenada
// sin movimientos debe tener cantidad cero.
func Reconcile(stored []entity.StockPosition, rebuilt map[entity.StockKey]*entity.StockPosition) []Drift {
	var drifts []Drift
	seen := make(map[entity.StockKey]struct{}, len(stored))
	for _, p := range stored {
		key := entity.StockKey{WarehouseID: p.WarehouseID, ItemID: p.ItemID}
		seen[key] = struct{}{}
		want := entity.NewStockPosition(p.WarehouseID, p.ItemID)
		if r, ok := rebuilt[key]; ok {
			want = r
		}
		if !p.Quantity.Equal(want.Quantity) || !p.AverageCost.Equal(want.AverageCost) {
			drifts = append(drifts, Drift{
				Key: key, StoredQuantity: p.Quantity, LedgerQuantity: want.Quantity,
				StoredAvgCost: p.AverageCost, LedgerAvgCost: want.AverageCost,
			})
		}
	}
	for key, r := range rebuilt {
		if _, ok := seen[key]; ok {
			continue
		}
		drifts = append(drifts, Drift{
			Key: key, StoredQuantity: decimal.Zero, LedgerQuantity: r.Quantity,
			StoredAvgCost: decimal.Zero, LedgerAvgCost: r.AverageCost,
		})
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].Key.Less(drifts[j].Key) })
	return drifts
}
