// migrate aplica o revierte el esquema embebido.
//
// Uso: go run ./cmd/migrate [-down] [-steps N]
package main

import (
	"flag"

	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "revertir todas las migraciones")
	steps := flag.Int("steps", 0, "aplicar N migraciones (negativo revierte)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	switch {
	case *steps != 0:
		err = m.Steps(*steps)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil {
		_ = m.Close()
		log.Fatal().Err(err).Msg("migración fallida")
	}
}
