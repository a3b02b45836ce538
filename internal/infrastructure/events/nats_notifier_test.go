package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

type recorder struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (r *recorder) Publish(subject string, data []byte) error {
	if r.err != nil {
		return r.err
	}
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

func TestNATSNotifier_PublicaCommit(t *testing.T) {
	rec := &recorder{}
	n := NewNATSNotifier(rec)

	err := n.PublishCommit(context.Background(), inventory.CommitEvent{
		DocumentID:    "po-1",
		DocumentType:  "purchase_order",
		WarehouseID:   "wh-1",
		NetValue:      decimal.NewFromInt(12000),
		MovementCount: 1,
		Alerts:        []*entity.StockAlert{{ID: "a1"}},
	})
	require.NoError(t, err)
	require.Len(t, rec.subjects, 1)
	assert.Equal(t, "inventory.purchase_order.committed", rec.subjects[0])

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.payloads[0], &body))
	assert.Equal(t, "po-1", body["document_id"])
	assert.Equal(t, "12000", body["net_value"])
	assert.Equal(t, []interface{}{"a1"}, body["alert_ids"])
}

func TestNATSNotifier_PublicaAlertaPorTipo(t *testing.T) {
	rec := &recorder{}
	n := NewNATSNotifier(rec)
	require.NoError(t, n.PublishAlert(context.Background(), &entity.StockAlert{ID: "a1", Type: entity.AlertLowStock}))
	assert.Equal(t, []string{"inventory.alert.low_stock"}, rec.subjects)
}

func TestNATSNotifier_ErrorDePublicacion(t *testing.T) {
	n := NewNATSNotifier(&recorder{err: errors.New("sin conexión")})
	err := n.PublishAlert(context.Background(), &entity.StockAlert{ID: "a1", Type: entity.AlertOutOfStock})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventory.alert.out_of_stock")
}
