package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.DocumentSequenceRepository = (*DocumentSequenceRepo)(nil)

// DocumentSequenceRepo consecutivos por tipo de documento. La fila queda bloqueada
// hasta el fin de la transacción, así dos documentos nunca reciben el mismo número.
type DocumentSequenceRepo struct {
	q Querier
}

// NewDocumentSequenceRepository construye el adaptador.
func NewDocumentSequenceRepository(q Querier) *DocumentSequenceRepo {
	return &DocumentSequenceRepo{q: q}
}

func (r *DocumentSequenceRepo) Next(ctx context.Context, kind string) (int64, error) {
	query := `
		INSERT INTO document_sequences (kind, last) VALUES ($1, 1)
		ON CONFLICT (kind) DO UPDATE SET last = document_sequences.last + 1
		RETURNING last`
	var n int64
	if err := r.q.QueryRow(ctx, query, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("next document sequence: %w", err)
	}
	return n, nil
}
