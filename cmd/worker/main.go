package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robalyx/promptaudit/internal/moderation"
	"github.com/robalyx/promptaudit/internal/setup"
	"github.com/robalyx/promptaudit/internal/setup/telemetry"
	"github.com/sourcegraph/conc"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the prompt audit worker",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of queue subscriptions to start",
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Worker identifier used for log directories",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runWorkers(ctx, c.String("id"), c.Int("workers"))
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runWorkers serves audit requests until SIGINT or SIGTERM.
func runWorkers(ctx context.Context, workerID string, count int64) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir, workerID)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	cfg := app.Config.Worker

	auditLogger, _, err := app.LogManager.GetAuditLogger("worker")
	if err != nil {
		return err
	}

	var metrics *moderation.Metrics
	if cfg.Metrics.Enabled {
		metrics = moderation.NewMetrics()
	}

	service := moderation.NewService(
		app.Auditor,
		metrics,
		app.Logger,
		auditLogger,
		telemetry.ServiceWorker.GetRequestTimeout(app.Config),
		app.Config.Common.Audit.MaxPromptLength,
	)

	conn, err := moderation.Connect(ctx, &cfg.NATS, "promptaudit-worker", app.Logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	var wg conc.WaitGroup

	if metrics != nil {
		wg.Go(func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Address, app.Logger); err != nil {
				app.Logger.Error("Metrics server failed", zap.Error(err))
			}
		})
	}

	for i := range count {
		workerLogger := app.LogManager.GetWorkerLogger(fmt.Sprintf("audit_worker_%d", i))
		worker := moderation.NewWorker(conn, service, &cfg.NATS, workerLogger)

		wg.Go(func() {
			if err := worker.Run(ctx); err != nil {
				workerLogger.Error("Worker stopped with error", zap.Error(err))
			}
		})
	}

	log.Printf("Started %d audit workers", count)
	wg.Wait()
	log.Println("All workers have finished. Exiting.")

	return nil
}
