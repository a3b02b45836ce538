package documents_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

// ─── Escenario de compras y conteo ───────────────────────────────────────────

func TestEscenario_DosComprasYConteoConFaltante(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)

	po1 := f.receive(t, itemX, "10", "1000")
	assert.Equal(t, "PO-000001", po1.OrderNumber)
	assert.Equal(t, string(entity.PurchaseOrderReceived), po1.Status)
	p := f.position(t, itemX)
	assert.True(t, p.Quantity.Equal(d("10")))
	assert.True(t, p.AverageCost.Equal(d("1000")))

	f.receive(t, itemX, "5", "1600")
	p = f.position(t, itemX)
	assert.True(t, p.Quantity.Equal(d("15")))
	assert.True(t, p.AverageCost.Equal(d("1200")), "promedio %s", p.AverageCost)
	assert.True(t, p.LastCost.Equal(d("1600")))

	c, err := f.counts.Create(f.ctx, branch, user, "", dto.CreateCountRequest{WarehouseID: warehouse, ItemIDs: []string{itemX}, Start: true})
	require.NoError(t, err)
	assert.Equal(t, string(entity.CountInProgress), c.Status)
	require.Len(t, c.Lines, 1)
	assert.True(t, c.Lines[0].SystemQuantity.Equal(d("15")))

	_, err = f.counts.RecordCountedQuantity(f.ctx, branch, c.ID, dto.RecordCountRequest{ItemID: itemX, CountedQuantity: d("12")})
	require.NoError(t, err)
	c, err = f.counts.Complete(f.ctx, branch, c.ID)
	require.NoError(t, err)
	assert.True(t, c.Summary.ShortageValue.Equal(d("3600")), "faltante %s", c.Summary.ShortageValue)
	assert.True(t, c.Summary.AccuracyPct.Equal(d("0.8")))

	c, err = f.counts.Approve(f.ctx, branch, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.CountApproved), c.Status)

	movs := f.movementsOf(t, c.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, string(entity.MovementCountAdjustment), movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("-3")))
	assert.True(t, movs[0].UnitCost.Equal(d("1200")))
	assert.True(t, movs[0].TotalCost.Equal(d("-3600")))

	p = f.position(t, itemX)
	assert.True(t, p.Quantity.Equal(d("12")))
	assert.True(t, p.AverageCost.Equal(d("1200")), "el ajuste no cambia el promedio")

	rec, err := f.rebuild.ReconcilePositions(f.ctx, warehouse)
	require.NoError(t, err)
	assert.Empty(t, rec.Drifts, "la posición coincide con el libro")
	assert.Equal(t, 3, rec.Movements)

	require.Len(t, f.notifier.commits, 3)
	last := f.notifier.commits[2]
	assert.Equal(t, documents.KindInventoryCount, last.DocumentType)
	assert.True(t, last.NetValue.Equal(d("-3600")))
	assert.Equal(t, 1, last.MovementCount)
}

// ─── Transiciones ────────────────────────────────────────────────────────────

func TestRecibir_DobleCommitEsTransicionInvalida(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	po := f.receive(t, itemX, "10", "1000")

	_, err := f.orders.Receive(f.ctx, branch, user, po.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Len(t, f.movementsOf(t, po.ID), 1, "el segundo commit no escribe movimientos")
	assert.True(t, f.position(t, itemX).Quantity.Equal(d("10")))
	assert.Len(t, f.notifier.commits, 1)
}

func TestRecibir_DesdeBorradorNoAfectaElLibro(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	po, err := f.orders.Create(f.ctx, branch, user, "", dto.CreatePurchaseOrderRequest{
		WarehouseID: warehouse,
		SupplierID:  "sup-1",
		Lines:       []dto.PurchaseOrderLineRequest{{ItemID: itemX, OrderedQty: d("1"), UnitCost: d("1")}},
	})
	require.NoError(t, err)

	_, err = f.orders.Receive(f.ctx, branch, user, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.movementsOf(t, po.ID))
}

func TestCancelar_RequiereMotivoYEsTerminal(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	po, err := f.orders.Create(f.ctx, branch, user, "", dto.CreatePurchaseOrderRequest{
		WarehouseID: warehouse,
		SupplierID:  "sup-1",
		Lines:       []dto.PurchaseOrderLineRequest{{ItemID: itemX, OrderedQty: d("2"), UnitCost: d("10")}},
	})
	require.NoError(t, err)
	assert.True(t, po.TotalAmount.Equal(d("20")))

	_, err = f.orders.Cancel(f.ctx, branch, po.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	po, err = f.orders.Cancel(f.ctx, branch, po.ID, "proveedor sin stock")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseOrderCancelled), po.Status)
	assert.Equal(t, "proveedor sin stock", po.CancelReason)
	require.NotNil(t, po.CancelledAt)

	_, err = f.orders.Send(f.ctx, branch, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ─── Validaciones de creación ────────────────────────────────────────────────

func TestCrearOrden_Validaciones(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	line := func(item, qty, cost string) dto.PurchaseOrderLineRequest {
		return dto.PurchaseOrderLineRequest{ItemID: item, OrderedQty: d(qty), UnitCost: d(cost)}
	}
	cases := []struct {
		name  string
		in    dto.CreatePurchaseOrderRequest
		isErr error
	}{
		{"sin líneas", dto.CreatePurchaseOrderRequest{WarehouseID: warehouse, SupplierID: "s"}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreatePurchaseOrderRequest{WarehouseID: warehouse, SupplierID: "s", Lines: []dto.PurchaseOrderLineRequest{line(itemX, "0", "1")}}, domain.ErrInvalidInput},
		{"costo negativo", dto.CreatePurchaseOrderRequest{WarehouseID: warehouse, SupplierID: "s", Lines: []dto.PurchaseOrderLineRequest{line(itemX, "1", "-1")}}, domain.ErrInvalidInput},
		{"ítem repetido", dto.CreatePurchaseOrderRequest{WarehouseID: warehouse, SupplierID: "s", Lines: []dto.PurchaseOrderLineRequest{line(itemX, "1", "1"), line(itemX, "2", "1")}}, domain.ErrInvalidInput},
		{"ítem desconocido", dto.CreatePurchaseOrderRequest{WarehouseID: warehouse, SupplierID: "s", Lines: []dto.PurchaseOrderLineRequest{line("nope", "1", "1")}}, domain.ErrNotFound},
		{"bodega desconocida", dto.CreatePurchaseOrderRequest{WarehouseID: "nope", SupplierID: "s", Lines: []dto.PurchaseOrderLineRequest{line(itemX, "1", "1")}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Create(f.ctx, branch, user, "", tc.in)
			assert.ErrorIs(t, err, tc.isErr)
		})
	}

	list, err := f.orders.List(f.ctx, branch, dto.DocumentQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "ninguna creación fallida deja documentos")
}

func TestCrearOrden_ClaveDeIdempotencia(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	in := dto.CreatePurchaseOrderRequest{
		WarehouseID: warehouse,
		SupplierID:  "sup-1",
		Lines:       []dto.PurchaseOrderLineRequest{{ItemID: itemX, OrderedQty: d("1"), UnitCost: d("5")}},
	}
	first, err := f.orders.Create(f.ctx, branch, user, "key-1", in)
	require.NoError(t, err)
	again, err := f.orders.Create(f.ctx, branch, user, "key-1", in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.OrderNumber, again.OrderNumber)

	other, err := f.orders.Create(f.ctx, branch, user, "key-2", in)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, "PO-000002", other.OrderNumber)

	in.Lines[0].OrderedQty = d("0")
	_, err = f.orders.Create(f.ctx, branch, user, "key-3", in)
	require.Error(t, err)
	in.Lines[0].OrderedQty = d("1")
	retry, err := f.orders.Create(f.ctx, branch, user, "key-3", in)
	require.NoError(t, err, "una creación fallida libera la clave")
	assert.Equal(t, "PO-000003", retry.OrderNumber)
}

func TestOrden_OtraSucursalEsProhibida(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	po := f.receive(t, itemX, "1", "1")

	_, err := f.orders.Get(f.ctx, "branch-2", po.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.orders.Get(f.ctx, branch, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecibir_ContextoVencidoRevierte(t *testing.T) {
	f := newFixture(t, invdomain.UncountedAsZero)
	po, err := f.orders.Create(f.ctx, branch, user, "", dto.CreatePurchaseOrderRequest{
		WarehouseID: warehouse,
		SupplierID:  "sup-1",
		Lines:       []dto.PurchaseOrderLineRequest{{ItemID: itemX, OrderedQty: d("1"), UnitCost: d("1")}},
	})
	require.NoError(t, err)
	_, err = f.orders.Send(f.ctx, branch, po.ID)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	_, err = f.orders.Receive(ctx, branch, user, po.ID)
	assert.ErrorIs(t, err, context.Canceled)

	got, err := f.orders.Get(f.ctx, branch, po.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseOrderSent), got.Status)
	assert.Empty(t, f.movementsOf(t, po.ID))
}
