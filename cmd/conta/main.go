package main

import (
	"context"
	"os"

	"conta/internal/backend"
	"conta/internal/cli"
	"conta/internal/log"
	"conta/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file for local development
	cli.LoadEnvFile()

	cfg, cfgErr := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentApp)
	if cfgErr != nil {
		logger.Error("Configuration validation failed",
			log.NewFields().
				WithOperation(log.OpStartup).
				WithError(cfgErr, log.ErrorTypeConfiguration).
				ToSlice()...)
		return 1
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			log.NewFields().
				WithOperation(log.OpStartup).
				WithError(err, log.ErrorTypeConfiguration).
				ToSlice()...)
		return 1
	}

	ctx := context.Background()
	res, err := backend.NewFactory(logger).Create(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.FieldOperation, log.OpStartup,
			log.FieldBackend, backendCfg.Type.String(),
			log.FieldError, err.Error())
		return 1
	}

	opts := []services.Option{services.WithLogger(logger)}
	if res.Publisher != nil {
		opts = append(opts, services.WithPublisher(res.Publisher))
	}
	svc := services.Open(ctx, res.Store, cfg.Policy(), opts...)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close ledger service",
				log.FieldOperation, log.OpShutdown,
				log.FieldError, err.Error())
		}
	}()

	app := cli.NewApp(svc, os.Stdin, os.Stdout, cli.Options{
		Currency:  cfg.Currency,
		ExportDir: cfg.ExportDir,
		Logger:    logger,
	})
	if err := app.Run(ctx); err != nil {
		return 1
	}
	return 0
}
