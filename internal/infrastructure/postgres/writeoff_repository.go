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

var _ repository.WriteoffRepository = (*WriteoffRepo)(nil)

// WriteoffRepo bajas de inventario y sus líneas sobre PostgreSQL.
type WriteoffRepo struct {
	q Querier
}

// NewWriteoffRepository construye el adaptador. Acepta pool o tx (Querier).
func NewWriteoffRepository(q Querier) *WriteoffRepo {
	return &WriteoffRepo{q: q}
}

const writeoffColumns = `id, branch_id, warehouse_id, writeoff_number, status, reason, notes, total_value,
	reject_reason, created_by, submitted_at, approved_at, approved_by, created_at, updated_at`

func (r *WriteoffRepo) Create(ctx context.Context, w *entity.Writeoff) error {
	query := `
		INSERT INTO writeoffs (` + writeoffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.BranchID, w.WarehouseID, w.WriteoffNumber, string(w.Status), string(w.Reason), w.Notes, w.TotalValue,
		w.RejectReason, w.CreatedBy, w.SubmittedAt, w.ApprovedAt, w.ApprovedBy, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert writeoff", err)
	}
	return r.insertLines(ctx, w)
}

func (r *WriteoffRepo) GetByID(ctx context.Context, id string) (*entity.Writeoff, error) {
	return r.get(ctx, `SELECT `+writeoffColumns+` FROM writeoffs WHERE id = $1`, id)
}

func (r *WriteoffRepo) GetForUpdate(ctx context.Context, id string) (*entity.Writeoff, error) {
	return r.get(ctx, `SELECT `+writeoffColumns+` FROM writeoffs WHERE id = $1 FOR UPDATE`, id)
}

func (r *WriteoffRepo) get(ctx context.Context, query, id string) (*entity.Writeoff, error) {
	w, err := scanWriteoff(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get writeoff: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Writeoff{w}); err != nil {
		return nil, err
	}
	return w, nil
}

// Update guarda la cabecera y reemplaza las líneas (el costo se fija al aprobar).
func (r *WriteoffRepo) Update(ctx context.Context, w *entity.Writeoff) error {
	query := `
		UPDATE writeoffs SET status = $2, reason = $3, notes = $4, total_value = $5, reject_reason = $6,
			submitted_at = $7, approved_at = $8, approved_by = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		w.ID, string(w.Status), string(w.Reason), w.Notes, w.TotalValue, w.RejectReason,
		w.SubmittedAt, w.ApprovedAt, w.ApprovedBy, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update writeoff: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("writeoff", w.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM writeoff_lines WHERE writeoff_id = $1`, w.ID); err != nil {
		return fmt.Errorf("delete writeoff lines: %w", err)
	}
	return r.insertLines(ctx, w)
}

func (r *WriteoffRepo) insertLines(ctx context.Context, w *entity.Writeoff) error {
	query := `
		INSERT INTO writeoff_lines (id, writeoff_id, item_id, quantity, unit_cost, total_cost, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, l := range w.Lines {
		if _, err := r.q.Exec(ctx, query, l.ID, w.ID, l.ItemID, l.Quantity, l.UnitCost, l.TotalCost, i); err != nil {
			return wrapWrite("insert writeoff line", err)
		}
	}
	return nil
}

func (r *WriteoffRepo) List(ctx context.Context, f entity.WriteoffFilter) ([]*entity.Writeoff, error) {
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
	query := `SELECT ` + writeoffColumns + ` FROM writeoffs` + c.where() +
		` ORDER BY writeoff_number DESC` + c.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list writeoffs: %w", err)
	}
	var list []*entity.Writeoff
	for rows.Next() {
		w, err := scanWriteoff(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan writeoff: %w", err)
		}
		list = append(list, w)
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

func (r *WriteoffRepo) loadLines(ctx context.Context, writeoffs []*entity.Writeoff) error {
	if len(writeoffs) == 0 {
		return nil
	}
	ids := make([]string, len(writeoffs))
	byID := make(map[string]*entity.Writeoff, len(writeoffs))
	for i, w := range writeoffs {
		ids[i] = w.ID
		byID[w.ID] = w
	}
	query := `
		SELECT id, writeoff_id, item_id, quantity, unit_cost, total_cost
		FROM writeoff_lines WHERE writeoff_id = ANY($1::uuid[])
		ORDER BY writeoff_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list writeoff lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.WriteoffLine
		if err := rows.Scan(&l.ID, &l.WriteoffID, &l.ItemID, &l.Quantity, &l.UnitCost, &l.TotalCost); err != nil {
			return fmt.Errorf("scan writeoff line: %w", err)
		}
		w := byID[l.WriteoffID]
		w.Lines = append(w.Lines, l)
	}
	return rows.Err()
}

func scanWriteoff(row pgx.Row) (*entity.Writeoff, error) {
	var w entity.Writeoff
	var status, reason string
	err := row.Scan(
		&w.ID, &w.BranchID, &w.WarehouseID, &w.WriteoffNumber, &status, &reason, &w.Notes, &w.TotalValue,
		&w.RejectReason, &w.CreatedBy, &w.SubmittedAt, &w.ApprovedAt, &w.ApprovedBy, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Status = entity.WriteoffStatus(status)
	w.Reason = entity.WriteoffReason(reason)
	return &w, nil
}
