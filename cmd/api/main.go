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
	"github.com/robfig/cron/v3"

	"github.com/dentalia/insumos-api/internal/application/inventory"
	"github.com/dentalia/insumos-api/internal/application/reporting"
	"github.com/dentalia/insumos-api/internal/application/usecase"
	"github.com/dentalia/insumos-api/internal/infrastructure/notify"
	infrapdf "github.com/dentalia/insumos-api/internal/infrastructure/pdf"
	"github.com/dentalia/insumos-api/internal/infrastructure/postgres"
	httpRouter "github.com/dentalia/insumos-api/internal/interfaces/http"
	"github.com/dentalia/insumos-api/pkg/config"
	"github.com/dentalia/insumos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos sobre el pool (lecturas y catálogo fuera de transacción).
	clinicRepo := postgres.NewClinicRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)

	// Motor de movimientos: toda mutación del ledger pasa por el TxRunner.
	txRunner := postgres.NewTxRunner(pool, cfg.DB, log)
	engine := inventory.NewMovementEngine(txRunner)

	// Capa de consulta + colaboradores externos.
	stockQueries, movementQueries := txRunner.Queries()
	var notifier reporting.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
	}
	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportingUC := reporting.NewQueryUseCase(stockQueries, movementQueries, clinicRepo, notifier, pdfGenerator, log)

	itemUC := usecase.NewItemUseCase(itemRepo, stockRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo, stockRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	clinicUC := usecase.NewClinicUseCase(clinicRepo, locationRepo, log)

	// Barrido programado de umbrales (notificación de stock bajo).
	var scheduler *cron.Cron
	if cfg.Alerts.Schedule != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Alerts.Schedule, func() {
			sweepCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			reportingUC.RunLowStockSweepAll(sweepCtx)
		}); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Alerts.Schedule).Msg("programar barrido de umbrales")
		}
		scheduler.Start()
		log.Info().Str("schedule", cfg.Alerts.Schedule).Msg("barrido de umbrales programado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Insumos Dental API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:               engine,
		ReportingUC:          reportingUC,
		ItemUC:               itemUC,
		LocationUC:           locationUC,
		CategoryUC:           categoryUC,
		SupplierUC:           supplierUC,
		ClinicUC:             clinicUC,
		JWTSecret:            cfg.JWT.Secret,
		BillingWebhookSecret: cfg.Billing.WebhookSecret,
		Log:                  log,
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

	if scheduler != nil {
		// Esperar a que termine un barrido en curso antes de soltar el pool.
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
