package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/daily-adventure/internal/api/http"
	"github.com/i474232898/daily-adventure/internal/scheduler"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the adventure API and run the daily schedule",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer records.Close()

	pipeline, err := buildPipeline(ctx, cfg, records, logger)
	if err != nil {
		return err
	}

	// Scheduler that generates the daily adventure.
	sched := scheduler.New(pipeline, cfg.Location, cfg.Schedule, cfg.Timezone, cfg.RunTimeout, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "daily-adventure",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Generating on demand runs the whole pipeline.
		WriteTimeout: cfg.RunTimeout + 10*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "daily-adventure",
		})
	})

	httpapi.RegisterRoutes(app, records, pipeline, httpapi.Options{
		DefaultLocation: cfg.Location,
		Timezone:        cfg.Timezone,
		RunTimeout:      cfg.RunTimeout,
		Logger:          logger.Named("http"),
	})

	go func() {
		logger.Info("http server listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	return nil
}
