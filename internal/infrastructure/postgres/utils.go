package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx; los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// wrapWrite traduce violaciones de unicidad a domain.ErrDuplicate.
func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// inBranch acota filas con warehouse_id a las bodegas de una sucursal.
const inBranch = "warehouse_id IN (SELECT id FROM warehouses WHERE branch_id = $%d)"

// conditions arma cláusulas WHERE con placeholders numerados.
type conditions struct {
	parts []string
	args  []any
}

// add agrega una condición; expr lleva un %d para el número del placeholder.
func (c *conditions) add(expr string, v any) {
	c.args = append(c.args, v)
	c.parts = append(c.parts, fmt.Sprintf(expr, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// page agrega LIMIT/OFFSET; limit <= 0 devuelve todo desde offset.
func (c *conditions) page(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		c.args = append(c.args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(c.args))
	}
	if offset > 0 {
		c.args = append(c.args, offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(c.args))
	}
	return b.String()
}
