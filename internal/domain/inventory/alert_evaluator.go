package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// AlertCondition condición de alerta vigente para una cantidad.
type AlertCondition struct {
	Type      entity.AlertType
	Threshold decimal.Decimal
}

// EvaluateThresholds compara la cantidad con los umbrales del ítem.
// quantity <= 0 → OUT_OF_STOCK; 0 < quantity < min → LOW_STOCK; quantity > max (si existe) → OVERSTOCK.
func EvaluateThresholds(quantity decimal.Decimal, item *entity.InventoryItem) []AlertCondition {
	var out []AlertCondition
	if !quantity.IsPositive() {
		out = append(out, AlertCondition{Type: entity.AlertOutOfStock, Threshold: decimal.Zero})
	} else if quantity.LessThan(item.MinStockLevel) {
		out = append(out, AlertCondition{Type: entity.AlertLowStock, Threshold: item.MinStockLevel})
	}
	if item.MaxStockLevel != nil && quantity.GreaterThan(*item.MaxStockLevel) {
		out = append(out, AlertCondition{Type: entity.AlertOverstock, Threshold: *item.MaxStockLevel})
	}
	return out
}

// NewAlerts devuelve las alertas a crear para la posición. Una condición que ya tiene una
// alerta sin reconocer del mismo tipo no genera otra; nunca se resuelven alertas existentes.
func NewAlerts(pos *entity.StockPosition, item *entity.InventoryItem, open []entity.StockAlert, now time.Time) []*entity.StockAlert {
	conds := EvaluateThresholds(pos.Quantity, item)
	if len(conds) == 0 {
		return nil
	}
	active := make(map[entity.AlertType]struct{}, len(open))
	for _, a := range open {
		if !a.IsAcknowledged && a.WarehouseID == pos.WarehouseID && a.ItemID == pos.ItemID {
			active[a.Type] = struct{}{}
		}
	}
	var out []*entity.StockAlert
	for _, c := range conds {
		if _, ok := active[c.Type]; ok {
			continue
		}
		out = append(out, &entity.StockAlert{
			ID:          uuid.New().String(),
			WarehouseID: pos.WarehouseID,
			ItemID:      pos.ItemID,
			Type:        c.Type,
			Quantity:    pos.Quantity,
			Threshold:   c.Threshold,
			CreatedAt:   now,
		})
	}
	return out
}
