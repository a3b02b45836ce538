package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// PublishCommitted notifica el commit y sus alertas nuevas. Se llama después del commit;
// los errores de entrega solo se registran.
func PublishCommitted(ctx context.Context, n Notifier, log *logger.Logger, ev CommitEvent) {
	if n == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := n.PublishCommit(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("document_id", ev.DocumentID).
			Str("document_type", ev.DocumentType).
			Msg("no se pudo publicar el commit")
	}
	PublishAlerts(ctx, n, log, ev)
}

// PublishAlerts notifica solo las alertas del evento.
func PublishAlerts(ctx context.Context, n Notifier, log *logger.Logger, ev CommitEvent) {
	if n == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, a := range ev.Alerts {
		if err := n.PublishAlert(ctx, a); err != nil {
			log.Warn().Err(err).Str("alert_id", a.ID).Str("alert_type", string(a.Type)).Msg("no se pudo publicar la alerta")
		}
	}
}
