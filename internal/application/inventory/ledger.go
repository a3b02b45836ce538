package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Line entrada del libro asociada a una línea de documento (para reportar fallas por línea).
type Line struct {
	LineID string
	Entry  invdomain.Entry
}

// Posting resultado de asentar un grupo de líneas.
type Posting struct {
	Movements []*entity.StockMovement
	Positions map[entity.StockKey]*entity.StockPosition
	Alerts    []*entity.StockAlert
}

// Ledger asienta movimientos en el libro dentro de una transacción ya abierta:
// bloquea posiciones en orden estable, aplica, persiste y evalúa alertas.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el servicio del libro.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	return &Ledger{now: now}
}

// Now hora actual según el reloj del libro.
func (l *Ledger) Now() time.Time { return l.now() }

// Lock bloquea (SELECT FOR UPDATE) las posiciones de las claves en orden (warehouse, item).
func (l *Ledger) Lock(ctx context.Context, repos repository.Repos, keys []entity.StockKey) (map[entity.StockKey]*entity.StockPosition, error) {
	uniq := make(map[entity.StockKey]struct{}, len(keys))
	sorted := make([]entity.StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	positions, err := repos.Positions.LockForUpdate(ctx, sorted)
	if err != nil {
		return nil, fmt.Errorf("lock positions: %w", err)
	}
	return positions, nil
}

// Post aplica todas las líneas sobre las posiciones bloqueadas. Si alguna línea falla por
// validación no se escribe nada y se devuelve CommitFailedError con todas las líneas fallidas.
func (l *Ledger) Post(
	ctx context.Context,
	repos repository.Repos,
	documentID string,
	positions map[entity.StockKey]*entity.StockPosition,
	lines []Line,
) (*Posting, error) {
	now := l.now()
	warehouses := make(map[string]*entity.Warehouse)
	touched := make(map[entity.StockKey]*entity.StockPosition)
	working := make(map[entity.StockKey]*entity.StockPosition)
	var movements []*entity.StockMovement
	var failures []domain.LineFailure

	for _, ln := range lines {
		e := ln.Entry
		key := entity.StockKey{WarehouseID: e.WarehouseID, ItemID: e.ItemID}
		pos, ok := working[key]
		if !ok {
			locked, ok := positions[key]
			if !ok {
				return nil, fmt.Errorf("posición %s/%s no bloqueada", key.WarehouseID, key.ItemID)
			}
			cp := *locked
			pos = &cp
			working[key] = pos
		}
		wh, err := l.warehouse(ctx, repos, warehouses, e.WarehouseID)
		if err != nil {
			return nil, err
		}
		mov, err := invdomain.ApplyMovement(pos, wh.AllowNegativeStock, e, now)
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				failures = append(failures, domain.LineFailure{LineID: ln.LineID, ItemID: e.ItemID, Reason: ve.Error(), Err: err})
				continue
			}
			return nil, err
		}
		movements = append(movements, mov)
		touched[key] = pos
	}
	if len(failures) > 0 {
		return nil, &domain.CommitFailedError{DocumentID: documentID, Lines: failures}
	}

	for _, m := range movements {
		if err := repos.Movements.Create(ctx, m); err != nil {
			return nil, err
		}
	}
	keys := make([]entity.StockKey, 0, len(touched))
	for k := range touched {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	posting := &Posting{Movements: movements, Positions: make(map[entity.StockKey]*entity.StockPosition, len(touched))}
	for _, k := range keys {
		pos := touched[k]
		if err := repos.Positions.Upsert(ctx, pos); err != nil {
			return nil, err
		}
		*positions[k] = *pos
		posting.Positions[k] = pos
		alerts, err := l.EvaluateAlerts(ctx, repos, pos)
		if err != nil {
			return nil, err
		}
		posting.Alerts = append(posting.Alerts, alerts...)
	}
	return posting, nil
}

// EvaluateAlerts crea las alertas nuevas de una posición (sin resolver las existentes).
func (l *Ledger) EvaluateAlerts(ctx context.Context, repos repository.Repos, pos *entity.StockPosition) ([]*entity.StockAlert, error) {
	item, err := repos.Items.GetByID(ctx, pos.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFound("item", pos.ItemID)
	}
	open, err := repos.Alerts.ListOpen(ctx, pos.WarehouseID, pos.ItemID)
	if err != nil {
		return nil, err
	}
	created := invdomain.NewAlerts(pos, item, open, l.now())
	for _, a := range created {
		if err := repos.Alerts.Create(ctx, a); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (l *Ledger) warehouse(ctx context.Context, repos repository.Repos, cache map[string]*entity.Warehouse, id string) (*entity.Warehouse, error) {
	if wh, ok := cache[id]; ok {
		return wh, nil
	}
	wh, err := repos.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NewNotFound("warehouse", id)
	}
	cache[id] = wh
	return wh, nil
}
