// Package events publica las notificaciones posteriores al commit.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// Publisher subconjunto de *nats.Conn usado para publicar.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publica commits en inventory.<documento>.committed y alertas en inventory.alert.<tipo>.
type NATSNotifier struct {
	pub Publisher
	now func() time.Time
}

var _ inventory.Notifier = (*NATSNotifier)(nil)

// NewNATSNotifier construye el notificador sobre una conexión (o cualquier Publisher).
func NewNATSNotifier(pub Publisher) *NATSNotifier {
	return &NATSNotifier{pub: pub, now: time.Now}
}

// Connect abre la conexión a NATS con reconexión ilimitada.
func Connect(url, name string, log *logger.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconectado")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats desconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// CommitSubject sujeto del commit de un tipo de documento.
func CommitSubject(documentType string) string {
	return "inventory." + documentType + ".committed"
}

// AlertSubject sujeto de una alerta nueva.
func AlertSubject(t entity.AlertType) string {
	return "inventory.alert." + strings.ToLower(string(t))
}

type commitMessage struct {
	inventory.CommitEvent
	AlertIDs    []string  `json:"alert_ids,omitempty"`
	CommittedAt time.Time `json:"committed_at"`
}

type alertMessage struct {
	ID          string          `json:"id"`
	WarehouseID string          `json:"warehouse_id"`
	ItemID      string          `json:"item_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Threshold   decimal.Decimal `json:"threshold"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PublishCommit implementa inventory.Notifier.
func (n *NATSNotifier) PublishCommit(_ context.Context, ev inventory.CommitEvent) error {
	msg := commitMessage{CommitEvent: ev, CommittedAt: n.now()}
	for _, a := range ev.Alerts {
		msg.AlertIDs = append(msg.AlertIDs, a.ID)
	}
	return n.publish(CommitSubject(ev.DocumentType), msg)
}

// PublishAlert implementa inventory.Notifier.
func (n *NATSNotifier) PublishAlert(_ context.Context, a *entity.StockAlert) error {
	return n.publish(AlertSubject(a.Type), alertMessage{
		ID:          a.ID,
		WarehouseID: a.WarehouseID,
		ItemID:      a.ItemID,
		Type:        string(a.Type),
		Quantity:    a.Quantity,
		Threshold:   a.Threshold,
		CreatedAt:   a.CreatedAt,
	})
}

func (n *NATSNotifier) publish(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := n.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}
