package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jhoicas/bodega-bot/internal/application/admins"
	"github.com/jhoicas/bodega-bot/internal/application/dialog"
	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/application/reports"
	infrapdf "github.com/jhoicas/bodega-bot/internal/infrastructure/pdf"
	"github.com/jhoicas/bodega-bot/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-bot/internal/interfaces/telegram"
	"github.com/jhoicas/bodega-bot/pkg/config"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Bootstrap(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("preparar esquema")
	}

	itemRepo := postgres.NewItemRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	inventoryUC := inventory.NewUseCase(itemRepo, warehouseRepo, movementRepo, txRunner)
	adminsUC := admins.NewUseCase(adminRepo, cfg.Bot.SuperAdmins)
	if err := adminsUC.EnsureSuperAdmins(); err != nil {
		log.Fatal().Err(err).Msg("sembrar superadmins")
	}
	reportsSvc := reports.NewService(infrapdf.NewMarotoStockReport())

	bot, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.Debug, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Telegram")
	}

	dispatcher := dialog.NewDispatcher(
		inventoryUC,
		adminsUC,
		reportsSvc,
		dialog.NewRegistry(),
		bot,
		log,
		cfg.Bot.PageSize,
	)

	log.Info().Msg("bot escuchando updates")
	bot.Run(ctx, dispatcher)

	log.Info().Msg("aplicación detenida")
}
