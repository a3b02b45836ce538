package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// AlertUseCase consulta, reconocimiento y barrido de alertas de stock.
type AlertUseCase struct {
	txRunner      TxRunner
	ledger        *Ledger
	alertRepo     repository.StockAlertRepository
	warehouseRepo repository.WarehouseRepository
	notifier      Notifier
	log           *logger.Logger
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(
	txRunner TxRunner,
	ledger *Ledger,
	alertRepo repository.StockAlertRepository,
	warehouseRepo repository.WarehouseRepository,
	notifier Notifier,
	log *logger.Logger,
) *AlertUseCase {
	return &AlertUseCase{
		txRunner:      txRunner,
		ledger:        ledger,
		alertRepo:     alertRepo,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		log:           log.Component("alerts"),
	}
}

// ListAlerts lista alertas con filtros opcionales (bodega, tipo, reconocida).
func (uc *AlertUseCase) ListAlerts(ctx context.Context, branchID string, q dto.AlertQuery) (*dto.AlertListResponse, error) {
	q.DefaultPage()
	if q.WarehouseID != "" {
		if _, err := LoadWarehouse(ctx, uc.warehouseRepo, branchID, q.WarehouseID); err != nil {
			return nil, err
		}
	}
	if q.Type != "" && !entity.AlertType(q.Type).IsValid() {
		return nil, domain.NewValidationError("type", "tipo de alerta desconocido")
	}
	list, err := uc.alertRepo.List(ctx, entity.AlertFilter{
		BranchID:     branchID,
		WarehouseID:  q.WarehouseID,
		Type:         entity.AlertType(q.Type),
		Acknowledged: q.Acknowledged,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.ToAlertResponse(a))
	}
	return &dto.AlertListResponse{Items: items, Page: q.PageRequest.Result(len(items))}, nil
}

// AcknowledgeAlert marca una alerta como reconocida. Reconocer dos veces no es error.
func (uc *AlertUseCase) AcknowledgeAlert(ctx context.Context, branchID, userID, id string) (*dto.AlertResponse, error) {
	var out *entity.StockAlert
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		a, err := repos.Alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NewNotFound("alert", id)
		}
		if _, err := LoadWarehouse(ctx, repos.Warehouses, branchID, a.WarehouseID); err != nil {
			return err
		}
		if !a.IsAcknowledged {
			at := uc.ledger.Now()
			if err := repos.Alerts.Acknowledge(ctx, id, userID, at); err != nil {
				return err
			}
			a.IsAcknowledged = true
			a.AcknowledgedBy = userID
			a.AcknowledgedAt = &at
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ToAlertResponse(out)
	return &resp, nil
}

// SweepAlerts reevalúa todas las posiciones de una bodega ("" = todas) y crea las alertas faltantes.
func (uc *AlertUseCase) SweepAlerts(ctx context.Context, warehouseID string) ([]*entity.StockAlert, error) {
	return uc.sweep(ctx, func(repos repository.Repos) ([]*entity.StockPosition, error) {
		return repos.Positions.List(ctx, warehouseID)
	})
}

// SweepItem reevalúa las posiciones de un ítem (tras cambiar sus umbrales).
func (uc *AlertUseCase) SweepItem(ctx context.Context, itemID string) ([]*entity.StockAlert, error) {
	return uc.sweep(ctx, func(repos repository.Repos) ([]*entity.StockPosition, error) {
		return repos.Positions.ListByItem(ctx, itemID)
	})
}

func (uc *AlertUseCase) sweep(ctx context.Context, load func(repository.Repos) ([]*entity.StockPosition, error)) ([]*entity.StockAlert, error) {
	var created []*entity.StockAlert
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		positions, err := load(repos)
		if err != nil {
			return err
		}
		for _, p := range positions {
			alerts, err := uc.ledger.EvaluateAlerts(ctx, repos, p)
			if err != nil {
				return err
			}
			created = append(created, alerts...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		uc.log.Info().Int("alerts", len(created)).Msg("barrido de alertas")
		PublishAlerts(ctx, uc.notifier, uc.log, CommitEvent{Alerts: created})
	}
	return created, nil
}

// RunSweeper ejecuta SweepAlerts sobre todas las bodegas cada interval hasta que ctx termine.
func (uc *AlertUseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.SweepAlerts(ctx, ""); err != nil {
				uc.log.Error().Err(err).Msg("barrido de alertas falló")
			}
		}
	}
}
