package documents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

func TestBaja_AprobarDescuentaAlPromedio(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	f.opening(t, itemX, "20", "30")

	w := f.submittedWriteoff(t, dto.WriteoffLineRequest{ItemID: itemX, Quantity: d("4")})
	assert.Equal(t, "WO-000001", w.WriteoffNumber)

	w, err := f.writeoffs.Approve(f.ctx, branch, user, w.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.WriteoffApproved), w.Status)
	assert.True(t, w.Lines[0].UnitCost.Equal(d("30")))
	assert.True(t, w.TotalValue.Equal(d("120")))

	movs := f.movementsOf(t, w.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, string(entity.MovementWriteoff), movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("-4")))

	p := f.position(t, itemX)
	assert.True(t, p.Quantity.Equal(d("16")))
	assert.True(t, p.AverageCost.Equal(d("30")))

	_, err = f.writeoffs.Approve(f.ctx, branch, user, w.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, f.movementsOf(t, w.ID), 1)
}

func TestBaja_CommitFallidoListaTodasLasLineasYRevierte(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	f.opening(t, itemX, "3", "10")

	w := f.submittedWriteoff(t,
		dto.WriteoffLineRequest{ItemID: itemX, Quantity: d("5")},
		dto.WriteoffLineRequest{ItemID: itemY, Quantity: d("1")},
	)
	_, err := f.writeoffs.Approve(f.ctx, branch, user, w.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommitFailed)

	var cf *domain.CommitFailedError
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, w.ID, cf.DocumentID)
	require.Len(t, cf.Lines, 2)
	assert.Equal(t, itemX, cf.Lines[0].ItemID)
	assert.Equal(t, itemY, cf.Lines[1].ItemID)
	assert.ErrorIs(t, cf.Lines[0].Err, domain.ErrInsufficientStock)

	got, err := f.writeoffs.Get(f.ctx, branch, w.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.WriteoffSubmitted), got.Status)
	assert.Empty(t, f.movementsOf(t, w.ID))
	assert.True(t, f.position(t, itemX).Quantity.Equal(d("3")))
}

func TestBaja_UnaLineaFallidaRevierteLasDemas(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	f.opening(t, itemX, "3", "10")

	w := f.submittedWriteoff(t,
		dto.WriteoffLineRequest{ItemID: itemX, Quantity: d("1")},
		dto.WriteoffLineRequest{ItemID: itemY, Quantity: d("1")},
	)
	_, err := f.writeoffs.Approve(f.ctx, branch, user, w.ID)
	var cf *domain.CommitFailedError
	require.ErrorAs(t, err, &cf)
	require.Len(t, cf.Lines, 1)
	assert.Equal(t, itemY, cf.Lines[0].ItemID)

	assert.True(t, f.position(t, itemX).Quantity.Equal(d("3")), "la línea válida tampoco se aplica")
	assert.Empty(t, f.notifier.commits[1:], "solo el saldo inicial se publicó")
}

func TestBaja_RechazarYReenviar(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	f.opening(t, itemX, "3", "10")
	w := f.submittedWriteoff(t, dto.WriteoffLineRequest{ItemID: itemX, Quantity: d("1")})

	w, err := f.writeoffs.Reject(f.ctx, branch, w.ID, "falta soporte")
	require.NoError(t, err)
	assert.Equal(t, string(entity.WriteoffDraft), w.Status)
	assert.Equal(t, "falta soporte", w.RejectReason)

	_, err = f.writeoffs.Approve(f.ctx, branch, user, w.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	w, err = f.writeoffs.Submit(f.ctx, branch, w.ID)
	require.NoError(t, err)
	assert.Empty(t, w.RejectReason)
}

func TestBaja_Validaciones(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	_, err := f.writeoffs.Create(f.ctx, branch, user, "", dto.CreateWriteoffRequest{
		WarehouseID: warehouse, Reason: "ROBADO", Lines: []dto.WriteoffLineRequest{{ItemID: itemX, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.writeoffs.Create(f.ctx, branch, user, "", dto.CreateWriteoffRequest{
		WarehouseID: warehouse, Reason: "LOST", Lines: []dto.WriteoffLineRequest{{ItemID: itemX, Quantity: d("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Alertas ─────────────────────────────────────────────────────────────────

func TestAlertas_BajoStockReconocidaYLuegoAgotado(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	f.opening(t, itemX, "6", "10")
	assert.Empty(t, f.notifier.alerts)

	w := f.submittedWriteoff(t, dto.WriteoffLineRequest{ItemID: itemX, Quantity: d("2")})
	_, err := f.writeoffs.Approve(f.ctx, branch, user, w.ID)
	require.NoError(t, err)
	require.Len(t, f.notifier.alerts, 1)
	low := f.notifier.alerts[0]
	assert.Equal(t, entity.AlertLowStock, low.Type)

	open := false
	list, err := f.alerts.ListAlerts(f.ctx, branch, dto.AlertQuery{WarehouseID: warehouse, Acknowledged: &open})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	ack, err := f.alerts.AcknowledgeAlert(f.ctx, branch, user, low.ID)
	require.NoError(t, err)
	assert.True(t, ack.IsAcknowledged)
	assert.Equal(t, user, ack.AcknowledgedBy)

	w = f.submittedWriteoff(t, dto.WriteoffLineRequest{ItemID: itemX, Quantity: d("4")})
	_, err = f.writeoffs.Approve(f.ctx, branch, user, w.ID)
	require.NoError(t, err)
	require.Len(t, f.notifier.alerts, 2)
	assert.Equal(t, entity.AlertOutOfStock, f.notifier.alerts[1].Type)

	all, err := f.alerts.ListAlerts(f.ctx, branch, dto.AlertQuery{WarehouseID: warehouse})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}
