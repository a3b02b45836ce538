package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

func TestEvaluateThresholds(t *testing.T) {
	maxLevel := d("100")
	item := &entity.InventoryItem{ID: testItem, MinStockLevel: d("5"), MaxStockLevel: &maxLevel}

	cases := []struct {
		qty  string
		want []entity.AlertType
	}{
		{"-1", []entity.AlertType{entity.AlertOutOfStock}},
		{"0", []entity.AlertType{entity.AlertOutOfStock}},
		{"4", []entity.AlertType{entity.AlertLowStock}},
		{"5", nil},
		{"100", nil},
		{"101", []entity.AlertType{entity.AlertOverstock}},
	}
	for _, tc := range cases {
		var got []entity.AlertType
		for _, c := range inventory.EvaluateThresholds(d(tc.qty), item) {
			got = append(got, c.Type)
		}
		assert.Equal(t, tc.want, got, "cantidad %s", tc.qty)
	}
}

func TestEvaluateThresholds_SinMaximo(t *testing.T) {
	item := &entity.InventoryItem{ID: testItem, MinStockLevel: d("5")}
	assert.Empty(t, inventory.EvaluateThresholds(d("1000000"), item))
}

// Escenario: min=5, la posición pasa de 6 a 4 por una baja → LOW_STOCK; reconocerla no impide
// un OUT_OF_STOCK posterior al llegar a cero.
func TestNewAlerts_EscenarioBajoStockYAgotado(t *testing.T) {
	now := time.Now()
	item := &entity.InventoryItem{ID: testItem, MinStockLevel: d("5")}
	pos := entity.NewStockPosition(testWarehouse, testItem)
	pos.Quantity = d("6")
	pos.AverageCost = d("10")

	assert.Empty(t, inventory.NewAlerts(pos, item, nil, now))

	_, err := inventory.ApplyMovement(pos, false, entry(entity.MovementWriteoff, "-2", costPtr("10")), now)
	require.NoError(t, err)
	created := inventory.NewAlerts(pos, item, nil, now)
	require.Len(t, created, 1)
	low := *created[0]
	assert.Equal(t, entity.AlertLowStock, low.Type)
	assert.True(t, low.Quantity.Equal(d("4")))
	assert.True(t, low.Threshold.Equal(d("5")))

	// Sin reconocer: no se duplica.
	assert.Empty(t, inventory.NewAlerts(pos, item, []entity.StockAlert{low}, now))

	low.IsAcknowledged = true
	_, err = inventory.ApplyMovement(pos, false, entry(entity.MovementWriteoff, "-4", costPtr("10")), now)
	require.NoError(t, err)
	created = inventory.NewAlerts(pos, item, []entity.StockAlert{low}, now)
	require.Len(t, created, 1)
	assert.Equal(t, entity.AlertOutOfStock, created[0].Type)
}

func TestNewAlerts_NoResuelveAlertasAbiertas(t *testing.T) {
	item := &entity.InventoryItem{ID: testItem, MinStockLevel: d("5")}
	pos := entity.NewStockPosition(testWarehouse, testItem)
	pos.Quantity = d("50")
	open := []entity.StockAlert{{ID: "a1", WarehouseID: testWarehouse, ItemID: testItem, Type: entity.AlertLowStock}}

	assert.Empty(t, inventory.NewAlerts(pos, item, open, time.Now()))
	assert.False(t, open[0].IsAcknowledged, "la condición despejada no reconoce la alerta")
}
