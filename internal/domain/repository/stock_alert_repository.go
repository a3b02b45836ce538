package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockAlertRepository persistencia de alertas de stock.
type StockAlertRepository interface {
	Create(ctx context.Context, alert *entity.StockAlert) error
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	// ListOpen alertas sin reconocer de una clave.
	ListOpen(ctx context.Context, warehouseID, itemID string) ([]entity.StockAlert, error)
	List(ctx context.Context, filter entity.AlertFilter) ([]*entity.StockAlert, error)
	Acknowledge(ctx context.Context, id, userID string, at time.Time) error
}
