package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func TestWrapWrite_UnicidadEsDuplicado(t *testing.T) {
	err := wrapWrite("insert item", &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = wrapWrite("insert item", fmt.Errorf("tx: %w", &pgconn.PgError{Code: "23503"}))
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "insert item")

	assert.NoError(t, wrapWrite("insert item", nil))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
}

func TestConditions_WhereYPaginacion(t *testing.T) {
	c := &conditions{}
	assert.Equal(t, "", c.where())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.add("warehouse_id = $%d", "wh-1")
	c.add("created_at >= $%d", from)
	assert.Equal(t, " WHERE warehouse_id = $1 AND created_at >= $2", c.where())
	assert.Equal(t, " LIMIT $3 OFFSET $4", c.page(20, 40))
	assert.Equal(t, []any{"wh-1", from, 20, 40}, c.args)

	c = &conditions{}
	assert.Equal(t, "", c.page(0, 0), "sin límite no se pagina")
	assert.Equal(t, " OFFSET $1", c.page(0, 5))
}

var errCaptured = errors.New("consulta capturada")

// captureQuerier guarda la última consulta sin ejecutarla.
type captureQuerier struct {
	sql  string
	args []any
}

func (q *captureQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errCaptured
}

func (q *captureQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	return nil, errCaptured
}

func (q *captureQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestListados_FiltranPorSucursal(t *testing.T) {
	ctx := context.Background()
	q := &captureQuerier{}

	_, err := NewStockMovementRepository(q).List(ctx, entity.MovementFilter{BranchID: "b-1", ItemID: "i-1", Limit: 10})
	require.ErrorIs(t, err, errCaptured)
	assert.Contains(t, q.sql, "WHERE warehouse_id IN (SELECT id FROM warehouses WHERE branch_id = $1) AND item_id = $2")
	assert.Equal(t, []any{"b-1", "i-1", 10}, q.args)

	_, err = NewStockAlertRepository(q).List(ctx, entity.AlertFilter{BranchID: "b-1", Limit: 1})
	require.ErrorIs(t, err, errCaptured)
	assert.Contains(t, q.sql, "WHERE warehouse_id IN (SELECT id FROM warehouses WHERE branch_id = $1)")
	assert.Contains(t, q.sql, "LIMIT $2")

	_, err = NewStockAlertRepository(q).List(ctx, entity.AlertFilter{})
	require.ErrorIs(t, err, errCaptured)
	assert.NotContains(t, q.sql, "branch_id", "sin sucursal no se filtra (procesos internos)")
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://app:pw@db:5432/ledger?sslmode=disable", migrateURL("postgres://app:pw@db:5432/ledger?sslmode=disable"))
	assert.Equal(t, "pgx5://db/ledger", migrateURL("postgresql://db/ledger"))
	assert.Equal(t, "pgx5://db/ledger", migrateURL("pgx5://db/ledger"))
}

func TestMigrations_Embebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_ledger.up.sql")
	assert.Contains(t, names, "000001_ledger.down.sql")
}

func TestResolveIPv4_Literales(t *testing.T) {
	ctx := context.Background()

	ip, err := resolveIPv4(ctx, "10.0.0.7", nil)
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	_, err = resolveIPv4(ctx, "::1", nil)
	assert.ErrorIs(t, err, errNoIPv4)
}
