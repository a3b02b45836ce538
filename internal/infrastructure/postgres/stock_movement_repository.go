package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de stock sobre PostgreSQL. La tabla solo admite INSERT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, sequence, warehouse_id, item_id, type, quantity, previous_quantity, new_quantity,
	unit_cost, total_cost, reference_type, reference_id, notes, created_by, created_at`

// Create inserta el movimiento y le asigna la secuencia generada por la BD.
// Un segundo asiento de la misma referencia viola uq_stock_movements_reference.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, warehouse_id, item_id, type, quantity, previous_quantity, new_quantity,
			unit_cost, total_cost, reference_type, reference_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.WarehouseID, m.ItemID, string(m.Type), m.Quantity, m.PreviousQuantity, m.NewQuantity,
		m.UnitCost, m.TotalCost, m.ReferenceType, m.ReferenceID, m.Notes, m.CreatedBy, m.CreatedAt,
	).Scan(&m.Sequence)
	return wrapWrite("insert stock movement", err)
}

// List movimientos filtrados, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	c := &conditions{}
	if f.BranchID != "" {
		c.add(inBranch, f.BranchID)
	}
	if f.WarehouseID != "" {
		c.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.ItemID != "" {
		c.add("item_id = $%d", f.ItemID)
	}
	if f.Type != "" {
		c.add("type = $%d", string(f.Type))
	}
	if f.ReferenceType != "" {
		c.add("reference_type = $%d", f.ReferenceType)
	}
	if f.ReferenceID != "" {
		c.add("reference_id = $%d", f.ReferenceID)
	}
	if f.From != nil {
		c.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		c.add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + c.where() +
		` ORDER BY created_at DESC, sequence DESC` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListForReplay todos los movimientos (o los de una bodega) en orden de asiento.
func (r *StockMovementRepo) ListForReplay(ctx context.Context, warehouseID string) ([]entity.StockMovement, error) {
	c := &conditions{}
	if warehouseID != "" {
		c.add("warehouse_id = $%d", warehouseID)
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + c.where() + ` ORDER BY created_at, sequence`
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements for replay: %w", err)
	}
	defer rows.Close()
	var list []entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (entity.StockMovement, error) {
	var m entity.StockMovement
	var typ string
	err := row.Scan(
		&m.ID, &m.Sequence, &m.WarehouseID, &m.ItemID, &typ, &m.Quantity, &m.PreviousQuantity, &m.NewQuantity,
		&m.UnitCost, &m.TotalCost, &m.ReferenceType, &m.ReferenceID, &m.Notes, &m.CreatedBy, &m.CreatedAt,
	)
	m.Type = entity.MovementType(typ)
	return m, err
}
