package postgres_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const testBranch = "branch-pg"

// startDB levanta PostgreSQL en un contenedor y aplica el esquema embebido.
func startDB(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("requiere Docker")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())
	return dsn
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Traslados cruzados y ventas concurrentes sobre las mismas claves: el bloqueo por clave en orden
// estable serializa los asientos sin interbloqueos y cada movimiento parte del saldo del anterior.
func TestCommitsConcurrentes_SerializanPorClave(t *testing.T) {
	dsn := startDB(t)
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 12})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repos := postgres.NewRepos(pool)
	now := time.Now().UTC()
	whA, whB, item := uuid.NewString(), uuid.NewString(), uuid.NewString()
	for _, id := range []string{whA, whB} {
		require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: id, BranchID: testBranch, Name: id[:8], CreatedAt: now, UpdatedAt: now}))
	}
	require.NoError(t, repos.Items.Create(ctx, &entity.InventoryItem{
		ID: item, BranchID: testBranch, SKU: "PG-1", Name: "Item", UnitOfMeasure: "UND", CreatedAt: now, UpdatedAt: now,
	}))

	log := logger.Nop()
	txRunner := postgres.NewTxRunner(pool)
	ledger := inventory.NewLedger()
	register := inventory.NewRegisterMovementUseCase(txRunner, ledger, repos.Items, repos.Warehouses, nil, log, 10*time.Second)
	stock := inventory.NewStockQueryUseCase(repos.Positions, repos.Movements, repos.Items, repos.Warehouses)

	cost := dec("100")
	for _, wh := range []string{whA, whB} {
		_, err := register.RegisterMovement(ctx, testBranch, "u", dto.RegisterMovementRequest{
			ItemID: item, WarehouseID: wh, Type: "OPENING_BALANCE", Quantity: dec("100"), UnitCost: &cost,
		})
		require.NoError(t, err)
	}

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		from, to := whA, whB
		if i%2 == 1 {
			from, to = whB, whA
		}
		g.Go(func() error {
			_, err := register.RegisterMovement(ctx, testBranch, "u", dto.RegisterMovementRequest{
				ItemID: item, FromWarehouseID: from, ToWarehouseID: to, Type: inventory.MovementTransfer, Quantity: dec("1"),
			})
			return err
		})
	}
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := register.RegisterMovement(ctx, testBranch, "u", dto.RegisterMovementRequest{
				ItemID: item, WarehouseID: whA, Type: "SALE_DEDUCTION", Quantity: dec("1"),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	for wh, want := range map[string]string{whA: "90", whB: "100"} {
		p, err := stock.GetStockPosition(ctx, testBranch, wh, item)
		require.NoError(t, err)
		assert.True(t, p.Quantity.Equal(dec(want)), "bodega %s: esperado %s, obtenido %s", wh, want, p.Quantity)
		assert.True(t, p.AverageCost.Equal(cost), "los traslados al mismo costo no mueven el promedio")

		list, err := stock.ListMovements(ctx, testBranch, dto.MovementQuery{WarehouseID: wh, PageRequest: dto.PageRequest{Limit: 100}})
		require.NoError(t, err)
		movs := list.Items
		sort.Slice(movs, func(i, j int) bool { return movs[i].Sequence < movs[j].Sequence })
		for i := 1; i < len(movs); i++ {
			assert.True(t, movs[i].PreviousQuantity.Equal(movs[i-1].NewQuantity),
				"bodega %s, secuencia %d parte de %s y la anterior dejó %s", wh, movs[i].Sequence, movs[i].PreviousQuantity, movs[i-1].NewQuantity)
		}
	}

	rec, err := inventory.NewRebuildUseCase(txRunner, ledger, log).ReconcilePositions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, rec.Drifts, "las posiciones coinciden con el libro")
}
