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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra y sus líneas sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, branch_id, warehouse_id, order_number, supplier_id, status, total_amount,
	cancel_reason, notes, created_by, sent_at, received_at, received_by, cancelled_at, created_at, updated_at`

// Create inserta la cabecera y las líneas. Debe ejecutarse dentro de una transacción.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.BranchID, po.WarehouseID, po.OrderNumber, po.SupplierID, string(po.Status), po.TotalAmount,
		po.CancelReason, po.Notes, po.CreatedBy, po.SentAt, po.ReceivedAt, po.ReceivedBy, po.CancelledAt,
		po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert purchase order", err)
	}
	lineQuery := `
		INSERT INTO purchase_order_lines (id, purchase_order_id, item_id, ordered_qty, unit_cost, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, l := range po.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, po.ID, l.ItemID, l.OrderedQty, l.UnitCost, l.LineTotal, i); err != nil {
			return wrapWrite("insert purchase order line", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; las recepciones concurrentes de la misma orden se serializan aquí.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.PurchaseOrder{po}); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET status = $2, total_amount = $3, cancel_reason = $4, notes = $5,
			sent_at = $6, received_at = $7, received_by = $8, cancelled_at = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		po.ID, string(po.Status), po.TotalAmount, po.CancelReason, po.Notes,
		po.SentAt, po.ReceivedAt, po.ReceivedBy, po.CancelledAt, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("purchase_order", po.ID)
	}
	return nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, f entity.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
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
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders` + c.where() +
		` ORDER BY order_number DESC` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
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

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.PurchaseOrder, len(orders))
	for i, po := range orders {
		ids[i] = po.ID
		byID[po.ID] = po
	}
	query := `
		SELECT id, purchase_order_id, item_id, ordered_qty, unit_cost, line_total
		FROM purchase_order_lines WHERE purchase_order_id = ANY($1::uuid[])
		ORDER BY purchase_order_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.OrderedQty, &l.UnitCost, &l.LineTotal); err != nil {
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		po := byID[l.PurchaseOrderID]
		po.Lines = append(po.Lines, l)
	}
	return rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var status string
	err := row.Scan(
		&po.ID, &po.BranchID, &po.WarehouseID, &po.OrderNumber, &po.SupplierID, &status, &po.TotalAmount,
		&po.CancelReason, &po.Notes, &po.CreatedBy, &po.SentAt, &po.ReceivedAt, &po.ReceivedBy, &po.CancelledAt,
		&po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	po.Status = entity.PurchaseOrderStatus(status)
	return &po, nil
}
