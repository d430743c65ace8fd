package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/catalog/adapter/cli"
	"github.com/felixgeelhaar/catalog/adapter/cli/outbox"
	"github.com/felixgeelhaar/catalog/adapter/cli/product"
	"github.com/felixgeelhaar/catalog/internal/app"
	"github.com/felixgeelhaar/catalog/pkg/config"
	"github.com/felixgeelhaar/catalog/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Command output goes to stdout, logs always to stderr
	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	logCfg.Output = os.Stderr
	logger = observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsProduction() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		// version and help still work without storage
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		cliApp = cli.NewApp(
			container.CreateProductHandler,
			container.RetitleProductHandler,
			container.RepriceProductHandler,
			container.UpdateDetailsHandler,
			container.DiscontinueProductHandler,
			container.DeleteProductHandler,
			container.GetProductHandler,
			container.ListProductsHandler,
		)
		cliApp.SetCurrentOwnerID(cfg.OwnerID)
		cliApp.SetOutbox(container.OutboxRepo, container.OutboxProcessor)
		cliApp.SetEventRelay(container.RelayEvents)
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(product.Cmd)
	cli.AddCommand(outbox.Cmd)

	cli.Execute(ctx)
}
