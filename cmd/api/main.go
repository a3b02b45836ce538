package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	invdomain "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	policy, err := invdomain.ParseUncountedPolicy(cfg.Ledger.UncountedPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("LEDGER_UNCOUNTED_POLICY")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Almacenamiento: PostgreSQL en producción, memoria para desarrollo.
	var (
		txRunner inventory.TxRunner
		repos    repository.Repos
	)
	if cfg.App.UseMemoryStore() {
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar y los commits se serializan")
		if cfg.App.Env == "production" {
			log.Warn().Msg("STORE=memory en producción: cada commit copia el libro completo")
		}
	} else {
		var pool *pgxpool.Pool
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.MigrateOnStart {
			migrateUp(cfg.DB.ConnectionString(), log)
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Idempotencia: Redis si está configurado.
	var idem documents.IdempotencyStore = cache.NewMemoryIdempotencyStore(cfg.Redis.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		idem = cache.NewRedisIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
	}

	// Notificaciones post-commit: NATS si está configurado.
	var notifier inventory.Notifier = events.NewLogNotifier(log)
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, cfg.App.Name, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer nc.Drain()
		notifier = events.NewNATSNotifier(nc)
	}

	ledger := inventory.NewLedger()
	committer := documents.NewCommitter(txRunner, ledger, notifier, log, cfg.Ledger.CommitTimeout)
	keys := documents.NewKeys(idem, log)

	warehouseUC := usecase.NewWarehouseUseCase(repos.Warehouses)
	alertUC := inventory.NewAlertUseCase(txRunner, ledger, repos.Alerts, repos.Warehouses, notifier, log)
	itemUC := usecase.NewItemUseCase(repos.Items, alertUC)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, ledger, repos.Items, repos.Warehouses, notifier, log, cfg.Ledger.CommitTimeout)
	stockUC := inventory.NewStockQueryUseCase(repos.Positions, repos.Movements, repos.Items, repos.Warehouses)
	rebuildUC := inventory.NewRebuildUseCase(txRunner, ledger, log)
	purchaseOrderUC := documents.NewPurchaseOrderUseCase(repos.PurchaseOrders, committer, keys)
	countUC := documents.NewCountUseCase(repos.Counts, committer, keys, policy)
	writeoffUC := documents.NewWriteoffUseCase(repos.Writeoffs, committer, keys)

	// PDF: hojas de conteo y actas de baja
	reportUC := documents.NewReportUseCase(countUC, writeoffUC, repos.Items, repos.Warehouses, infrapdf.NewMarotoPDFGenerator())

	go alertUC.RunSweeper(ctx, cfg.Ledger.AlertSweepInterval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.Store})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:      warehouseUC,
		ItemUC:           itemUC,
		RegisterMovement: registerMovementUC,
		StockQuery:       stockUC,
		Alerts:           alertUC,
		Rebuild:          rebuildUC,
		PurchaseOrders:   purchaseOrderUC,
		Counts:           countUC,
		Writeoffs:        writeoffUC,
		Reports:          reportUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrateUp(dsn string, log *logger.Logger) {
	m, err := postgres.NewMigrator(dsn, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
