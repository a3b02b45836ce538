package events

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// LogNotifier escribe las notificaciones en el log cuando no hay NATS configurado.
type LogNotifier struct {
	log *logger.Logger
}

var _ inventory.Notifier = (*LogNotifier)(nil)

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("events")}
}

// PublishCommit implementa inventory.Notifier.
func (n *LogNotifier) PublishCommit(_ context.Context, ev inventory.CommitEvent) error {
	n.log.Info().
		Str("subject", CommitSubject(ev.DocumentType)).
		Str("document_id", ev.DocumentID).
		Str("net_value", ev.NetValue.String()).
		Int("movements", ev.MovementCount).
		Msg("commit")
	return nil
}

// PublishAlert implementa inventory.Notifier.
func (n *LogNotifier) PublishAlert(_ context.Context, a *entity.StockAlert) error {
	n.log.Warn().
		Str("subject", AlertSubject(a.Type)).
		Str("warehouse_id", a.WarehouseID).
		Str("item_id", a.ItemID).
		Str("quantity", a.Quantity.String()).
		Msg("alerta de stock")
	return nil
}
