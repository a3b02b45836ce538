// rebuild_positions reproduce el libro de movimientos y compara (o reescribe) las posiciones.
//
// Uso: go run ./cmd/rebuild_positions [-warehouse ID] [-apply] [-parallel N]
// Sin -apply solo reporta la deriva.
package main

import (
	"context"
	"flag"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func main() {
	warehouseID := flag.String("warehouse", "", "bodega a procesar (vacío = todas)")
	apply := flag.Bool("apply", false, "reescribir las posiciones con deriva")
	parallel := flag.Int("parallel", 4, "bodegas procesadas en paralelo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "rebuild_positions"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rebuild := inventory.NewRebuildUseCase(postgres.NewTxRunner(pool), inventory.NewLedger(), log)

	targets := []string{*warehouseID}
	if *warehouseID == "" {
		targets, err = warehousesWithStock(ctx, pool)
		if err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("listar bodegas")
		}
	}

	results := make([]*dto.RebuildResponse, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	for i, id := range targets {
		g.Go(func() error {
			var err error
			if *apply {
				results[i], err = rebuild.RebuildPositions(gctx, id)
			} else {
				results[i], err = rebuild.ReconcilePositions(gctx, id)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("reconstrucción fallida")
	}

	drifts := 0
	for _, r := range results {
		drifts += len(r.Drifts)
		for _, d := range r.Drifts {
			log.Warn().
				Str("warehouse_id", d.WarehouseID).
				Str("item_id", d.ItemID).
				Str("stored_quantity", d.StoredQuantity.String()).
				Str("ledger_quantity", d.LedgerQuantity.String()).
				Str("stored_average_cost", d.StoredAvgCost.String()).
				Str("ledger_average_cost", d.LedgerAvgCost.String()).
				Msg("deriva")
		}
		log.Info().
			Str("warehouse_id", r.WarehouseID).
			Int("movements", r.Movements).
			Int("positions", r.Positions).
			Int("drifts", len(r.Drifts)).
			Bool("applied", r.Applied).
			Msg("bodega procesada")
	}
	log.Info().Int("warehouses", len(targets)).Int("drifts", drifts).Bool("applied", *apply).Msg("reconstrucción terminada")
}

// warehousesWithStock bodegas con al menos una posición, en orden estable.
func warehousesWithStock(ctx context.Context, q postgres.Querier) ([]string, error) {
	positions, err := postgres.NewStockPositionRepository(q).List(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range positions {
		if _, ok := seen[p.WarehouseID]; ok {
			continue
		}
		seen[p.WarehouseID] = struct{}{}
		ids = append(ids, p.WarehouseID)
	}
	sort.Strings(ids)
	return ids, nil
}
