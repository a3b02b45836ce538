package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn falla o el contexto expira, se hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// CommitEvent resumen publicado después de confirmar un documento (o un movimiento directo).
type CommitEvent struct {
	DocumentID    string               `json:"document_id"`
	DocumentType  string               `json:"document_type"`
	DocumentNo    string               `json:"document_number,omitempty"`
	BranchID      string               `json:"branch_id,omitempty"`
	WarehouseID   string               `json:"warehouse_id"`
	NetValue      decimal.Decimal      `json:"net_value"`
	MovementCount int                  `json:"movement_count"`
	CommittedBy   string               `json:"committed_by"`
	Alerts        []*entity.StockAlert `json:"-"`
}

// Notifier entrega notificaciones después del commit. Nunca se invoca dentro de una transacción.
type Notifier interface {
	PublishCommit(ctx context.Context, ev CommitEvent) error
	PublishAlert(ctx context.Context, alert *entity.StockAlert) error
}
