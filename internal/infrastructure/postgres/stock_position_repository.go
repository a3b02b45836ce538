package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo implementación de StockPositionRepository sobre PostgreSQL.
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

const positionColumns = `warehouse_id, item_id, quantity, reserved_quantity, average_cost, last_cost,
	last_movement_at, updated_at`

func (r *StockPositionRepo) Get(ctx context.Context, warehouseID, itemID string) (*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions WHERE warehouse_id = $1 AND item_id = $2`
	p, err := scanPosition(r.q.QueryRow(ctx, query, warehouseID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	return p, nil
}

// LockForUpdate inserta en cero las claves que no existen y bloquea todas con FOR UPDATE,
// ordenadas por (warehouse_id, item_id). Debe llamarse dentro de una transacción.
func (r *StockPositionRepo) LockForUpdate(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]*entity.StockPosition, error) {
	out := make(map[entity.StockKey]*entity.StockPosition, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	warehouses := make([]string, len(keys))
	items := make([]string, len(keys))
	for i, k := range keys {
		warehouses[i] = k.WarehouseID
		items[i] = k.ItemID
	}

	insert := `
		INSERT INTO stock_positions (warehouse_id, item_id, quantity, reserved_quantity, average_cost, last_cost, updated_at)
		SELECT k.w::uuid, k.i::uuid, 0, 0, 0, 0, now()
		FROM unnest($1::text[], $2::text[]) AS k(w, i)
		ON CONFLICT (warehouse_id, item_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, warehouses, items); err != nil {
		return nil, fmt.Errorf("ensure stock positions: %w", err)
	}

	query := `
		SELECT ` + positionColumns + `
		FROM stock_positions
		WHERE (warehouse_id, item_id) IN (
			SELECT k.w::uuid, k.i::uuid FROM unnest($1::text[], $2::text[]) AS k(w, i)
		)
		ORDER BY warehouse_id, item_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, warehouses, items)
	if err != nil {
		return nil, fmt.Errorf("lock stock positions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		out[entity.StockKey{WarehouseID: p.WarehouseID, ItemID: p.ItemID}] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != len(keys) {
		return nil, fmt.Errorf("lock stock positions: se esperaban %d filas, se bloquearon %d", len(keys), len(out))
	}
	return out, nil
}

func (r *StockPositionRepo) Upsert(ctx context.Context, p *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (` + positionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (warehouse_id, item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			average_cost = EXCLUDED.average_cost,
			last_cost = EXCLUDED.last_cost,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		p.WarehouseID, p.ItemID, p.Quantity, p.ReservedQuantity, p.AverageCost, p.LastCost, p.LastMovementAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock position: %w", err)
	}
	return nil
}

func (r *StockPositionRepo) List(ctx context.Context, warehouseID string) ([]*entity.StockPosition, error) {
	c := &conditions{}
	if warehouseID != "" {
		c.add("warehouse_id = $%d", warehouseID)
	}
	return r.list(ctx, c)
}

func (r *StockPositionRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.StockPosition, error) {
	c := &conditions{}
	c.add("item_id = $%d", itemID)
	return r.list(ctx, c)
}

func (r *StockPositionRepo) list(ctx context.Context, c *conditions) ([]*entity.StockPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM stock_positions` + c.where() + ` ORDER BY warehouse_id, item_id`
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPosition(row pgx.Row) (*entity.StockPosition, error) {
	var p entity.StockPosition
	err := row.Scan(
		&p.WarehouseID, &p.ItemID, &p.Quantity, &p.ReservedQuantity, &p.AverageCost, &p.LastCost,
		&p.LastMovementAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
