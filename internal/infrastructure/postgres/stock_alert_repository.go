package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo alertas de stock sobre PostgreSQL.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

const alertColumns = `id, warehouse_id, item_id, type, quantity, threshold,
	is_acknowledged, acknowledged_by, acknowledged_at, created_at`

func (r *StockAlertRepo) Create(ctx context.Context, a *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.WarehouseID, a.ItemID, string(a.Type), a.Quantity, a.Threshold,
		a.IsAcknowledged, a.AcknowledgedBy, a.AcknowledgedAt, a.CreatedAt,
	)
	return wrapWrite("insert stock alert", err)
}

func (r *StockAlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock alert: %w", err)
	}
	return a, nil
}

func (r *StockAlertRepo) ListOpen(ctx context.Context, warehouseID, itemID string) ([]entity.StockAlert, error) {
	query := `
		SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE warehouse_id = $1 AND item_id = $2 AND NOT is_acknowledged
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, warehouseID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()
	var list []entity.StockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func (r *StockAlertRepo) List(ctx context.Context, f entity.AlertFilter) ([]*entity.StockAlert, error) {
	c := &conditions{}
	if f.BranchID != "" {
		c.add(inBranch, f.BranchID)
	}
	if f.WarehouseID != "" {
		c.add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.Type != "" {
		c.add("type = $%d", string(f.Type))
	}
	if f.Acknowledged != nil {
		c.add("is_acknowledged = $%d", *f.Acknowledged)
	}
	query := `SELECT ` + alertColumns + ` FROM stock_alerts` + c.where() +
		` ORDER BY created_at DESC, id` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *StockAlertRepo) Acknowledge(ctx context.Context, id, userID string, at time.Time) error {
	query := `
		UPDATE stock_alerts SET is_acknowledged = TRUE, acknowledged_by = $2, acknowledged_at = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, userID, at)
	if err != nil {
		return fmt.Errorf("acknowledge stock alert: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("alert", id)
	}
	return nil
}

func scanAlert(row pgx.Row) (*entity.StockAlert, error) {
	var a entity.StockAlert
	var typ string
	err := row.Scan(
		&a.ID, &a.WarehouseID, &a.ItemID, &typ, &a.Quantity, &a.Threshold,
		&a.IsAcknowledged, &a.AcknowledgedBy, &a.AcknowledgedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Type = entity.AlertType(typ)
	return &a, nil
}
