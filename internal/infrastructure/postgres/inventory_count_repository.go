package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryCountRepository = (*InventoryCountRepo)(nil)

// InventoryCountRepo conteos físicos y sus líneas sobre PostgreSQL.
type InventoryCountRepo struct {
	q Querier
}

// NewInventoryCountRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

const countColumns = `id, branch_id, warehouse_id, count_number, status,
	items_with_variance, shortage_value, surplus_value, net_adjustment_value, accuracy_pct,
	notes, reject_reason, created_by, started_at, completed_at, approved_at, approved_by, created_at, updated_at`

func (r *InventoryCountRepo) Create(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		INSERT INTO inventory_counts (` + countColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BranchID, c.WarehouseID, c.CountNumber, string(c.Status),
		c.Summary.ItemsWithVariance, c.Summary.ShortageValue, c.Summary.SurplusValue,
		c.Summary.NetAdjustmentValue, c.Summary.AccuracyPct,
		c.Notes, c.RejectReason, c.CreatedBy, c.StartedAt, c.CompletedAt, c.ApprovedAt, c.ApprovedBy,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert inventory count", err)
	}
	return r.insertLines(ctx, c)
}

func (r *InventoryCountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM inventory_counts WHERE id = $1`, id)
}

func (r *InventoryCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM inventory_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryCountRepo) get(ctx context.Context, query, id string) (*entity.InventoryCount, error) {
	c, err := scanCount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory count: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.InventoryCount{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// Update guarda la cabecera y reemplaza las líneas.
func (r *InventoryCountRepo) Update(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		UPDATE inventory_counts SET status = $2,
			items_with_variance = $3, shortage_value = $4, surplus_value = $5,
			net_adjustment_value = $6, accuracy_pct = $7,
			notes = $8, reject_reason = $9, started_at = $10, completed_at = $11,
			approved_at = $12, approved_by = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, string(c.Status),
		c.Summary.ItemsWithVariance, c.Summary.ShortageValue, c.Summary.SurplusValue,
		c.Summary.NetAdjustmentValue, c.Summary.AccuracyPct,
		c.Notes, c.RejectReason, c.StartedAt, c.CompletedAt, c.ApprovedAt, c.ApprovedBy, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory count: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("inventory_count", c.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_count_lines WHERE count_id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete inventory count lines: %w", err)
	}
	return r.insertLines(ctx, c)
}

func (r *InventoryCountRepo) insertLines(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		INSERT INTO inventory_count_lines (id, count_id, item_id, system_quantity, counted_quantity,
			is_counted, unit_cost, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, l := range c.Lines {
		_, err := r.q.Exec(ctx, query,
			l.ID, c.ID, l.ItemID, l.SystemQuantity, l.CountedQuantity, l.IsCounted, l.UnitCost, i,
		)
		if err != nil {
			return wrapWrite("insert inventory count line", err)
		}
	}
	return nil
}

func (r *InventoryCountRepo) List(ctx context.Context, f entity.CountFilter) ([]*entity.InventoryCount, error) {
	c := &conditions{}
	if f.BranchID != "" {
		c.add("branch_id = $%d", f.BranchID)
	}
	if f.WarehouseID != "" {
		c.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.Status != "" {
		c.add("status = $%d", string(f.Status))
	}
	query := `SELECT ` + countColumns + ` FROM inventory_counts` + c.where() +
		` ORDER BY count_number DESC` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	var list []*entity.InventoryCount
	for rows.Next() {
		ic, err := scanCount(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan inventory count: %w", err)
		}
		list = append(list, ic)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *InventoryCountRepo) loadLines(ctx context.Context, counts []*entity.InventoryCount) error {
	if len(counts) == 0 {
		return nil
	}
	ids := make([]string, len(counts))
	byID := make(map[string]*entity.InventoryCount, len(counts))
	for i, c := range counts {
		ids[i] = c.ID
		byID[c.ID] = c
	}
	query := `
		SELECT id, count_id, item_id, system_quantity, counted_quantity, is_counted, unit_cost
		FROM inventory_count_lines WHERE count_id = ANY($1::uuid[])
		ORDER BY count_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list inventory count lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InventoryCountLine
		if err := rows.Scan(&l.ID, &l.CountID, &l.ItemID, &l.SystemQuantity, &l.CountedQuantity, &l.IsCounted, &l.UnitCost); err != nil {
			return fmt.Errorf("scan inventory count line: %w", err)
		}
		c := byID[l.CountID]
		c.Lines = append(c.Lines, l)
	}
	return rows.Err()
}

func scanCount(row pgx.Row) (*entity.InventoryCount, error) {
	var c entity.InventoryCount
	var status string
	err := row.Scan(
		&c.ID, &c.BranchID, &c.WarehouseID, &c.CountNumber, &status,
		&c.Summary.ItemsWithVariance, &c.Summary.ShortageValue, &c.Summary.SurplusValue,
		&c.Summary.NetAdjustmentValue, &c.Summary.AccuracyPct,
		&c.Notes, &c.RejectReason, &c.CreatedBy, &c.StartedAt, &c.CompletedAt, &c.ApprovedAt, &c.ApprovedBy,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = entity.CountStatus(status)
	return &c, nil
}
