package documents_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const (
	branch    = "branch-1"
	user      = "user-1"
	warehouse = "wh-1"
	itemX     = "item-x"
	itemY     = "item-y"
)

type spyNotifier struct {
	mu      sync.Mutex
	commits []inventory.CommitEvent
	alerts  []*entity.StockAlert
}

func (s *spyNotifier) PublishCommit(_ context.Context, ev inventory.CommitEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits = append(s.commits, ev)
	return nil
}

func (s *spyNotifier) PublishAlert(_ context.Context, a *entity.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
	return nil
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	notifier  *spyNotifier
	orders    *documents.PurchaseOrderUseCase
	counts    *documents.CountUseCase
	writeoffs *documents.WriteoffUseCase
	movements *inventory.RegisterMovementUseCase
	stock     *inventory.StockQueryUseCase
	alerts    *inventory.AlertUseCase
	rebuild   *inventory.RebuildUseCase
}

func newFixture(t *testing.T, policy invdomain.UncountedPolicy) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: warehouse, BranchID: branch, Name: "Principal"}))
	for _, id := range []string{itemX, itemY} {
		require.NoError(t, repos.Items.Create(ctx, &entity.InventoryItem{
			ID:            id,
			BranchID:      branch,
			SKU:           id,
			Name:          id,
			UnitOfMeasure: "UND",
			MinStockLevel: d("5"),
			ReorderPoint:  d("8"),
		}))
	}

	log := logger.Nop()
	ledger := inventory.NewLedger()
	notifier := &spyNotifier{}
	committer := documents.NewCommitter(store, ledger, notifier, log, 5*time.Second)
	keys := documents.NewKeys(cache.NewMemoryIdempotencyStore(time.Hour), log)

	return &fixture{
		ctx:       ctx,
		store:     store,
		notifier:  notifier,
		orders:    documents.NewPurchaseOrderUseCase(repos.PurchaseOrders, committer, keys),
		counts:    documents.NewCountUseCase(repos.Counts, committer, keys, policy),
		writeoffs: documents.NewWriteoffUseCase(repos.Writeoffs, committer, keys),
		movements: inventory.NewRegisterMovementUseCase(store, ledger, repos.Items, repos.Warehouses, notifier, log, 5*time.Second),
		stock:     inventory.NewStockQueryUseCase(repos.Positions, repos.Movements, repos.Items, repos.Warehouses),
		alerts:    inventory.NewAlertUseCase(store, ledger, repos.Alerts, repos.Warehouses, notifier, log),
		rebuild:   inventory.NewRebuildUseCase(store, ledger, log),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// receive crea, envía y recibe una orden de una línea.
func (f *fixture) receive(t *testing.T, item, qty, cost string) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := f.orders.Create(f.ctx, branch, user, "", dto.CreatePurchaseOrderRequest{
		WarehouseID: warehouse,
		SupplierID:  "sup-1",
		Lines:       []dto.PurchaseOrderLineRequest{{ItemID: item, OrderedQty: d(qty), UnitCost: d(cost)}},
	})
	require.NoError(t, err)
	_, err = f.orders.Send(f.ctx, branch, po.ID)
	require.NoError(t, err)
	po, err = f.orders.Receive(f.ctx, branch, user, po.ID)
	require.NoError(t, err)
	return po
}

func (f *fixture) opening(t *testing.T, item, qty, cost string) {
	t.Helper()
	c := d(cost)
	_, err := f.movements.RegisterMovement(f.ctx, branch, user, dto.RegisterMovementRequest{
		ItemID:      item,
		WarehouseID: warehouse,
		Type:        string(entity.MovementOpeningBalance),
		Quantity:    d(qty),
		UnitCost:    &c,
	})
	require.NoError(t, err)
}

func (f *fixture) position(t *testing.T, item string) *dto.StockPositionResponse {
	t.Helper()
	p, err := f.stock.GetStockPosition(f.ctx, branch, warehouse, item)
	require.NoError(t, err)
	return p
}

func (f *fixture) movementsOf(t *testing.T, referenceID string) []dto.MovementResponse {
	t.Helper()
	list, err := f.stock.ListMovements(f.ctx, branch, dto.MovementQuery{ReferenceID: referenceID, PageRequest: dto.PageRequest{Limit: 100}})
	require.NoError(t, err)
	return list.Items
}

func (f *fixture) submittedWriteoff(t *testing.T, lines ...dto.WriteoffLineRequest) *dto.WriteoffResponse {
	t.Helper()
	w, err := f.writeoffs.Create(f.ctx, branch, user, "", dto.CreateWriteoffRequest{
		WarehouseID: warehouse,
		Reason:      string(entity.WriteoffDamaged),
		Lines:       lines,
	})
	require.NoError(t, err)
	w, err = f.writeoffs.Submit(f.ctx, branch, w.ID)
	require.NoError(t, err)
	return w
}
