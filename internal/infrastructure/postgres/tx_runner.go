package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si el contexto expira antes del Commit, la transacción se revierte.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos repositorios sobre un Querier (pool para lecturas, tx dentro de Run).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Movements:      NewStockMovementRepository(q),
		Positions:      NewStockPositionRepository(q),
		Items:          NewInventoryItemRepository(q),
		Warehouses:     NewWarehouseRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Counts:         NewInventoryCountRepository(q),
		Writeoffs:      NewWriteoffRepository(q),
		Alerts:         NewStockAlertRepository(q),
		Sequences:      NewDocumentSequenceRepository(q),
	}
}
