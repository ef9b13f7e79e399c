package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gastosapp/gastos-backend/internal/amqp"
	"github.com/gastosapp/gastos-backend/internal/config"
	"github.com/gastosapp/gastos-backend/internal/repository/postgres"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/gastosapp/gastos-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sweep cadence for expenses whose reconcile message was lost
const sweepInterval = 15 * time.Minute

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	expenseRepo := postgres.NewExpenseRepository(pool)
	installmentRepo := postgres.NewInstallmentRepository(pool)

	// The worker has no connected clients, so events go nowhere
	installmentService := service.NewInstallmentService(expenseRepo, installmentRepo, &websocket.NoOpPublisher{})
	reconcileService := service.NewReconcileService(expenseRepo, installmentRepo, installmentService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Queue consumption is optional; the periodic sweep alone still repairs
	// expenses that lost their installments.
	if cfg.AMQP.URL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.ReconcileQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer amqpClient.Close()

		go func() {
			err := amqpClient.ConsumeReconcile(ctx, func(msg *amqp.ReconcileMessage) error {
				return reconcileService.ReconcileExpense(msg.ExpenseID)
			})
			if err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("Queue consumption failed")
				cancel()
			}
		}()
		log.Info().Str("queue", cfg.AMQP.ReconcileQueue).Msg("Consuming reconcile queue")
	} else {
		log.Warn().Msg("AMQP_URL not set, running sweep-only")
	}

	// Startup sweep catches anything that broke while the worker was down
	if rebuilt, err := reconcileService.Sweep(); err != nil {
		log.Error().Err(err).Msg("Startup sweep failed")
	} else if rebuilt > 0 {
		log.Info().Int("rebuilt", rebuilt).Msg("Startup sweep rebuilt installments")
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := reconcileService.Sweep(); err != nil {
					log.Error().Err(err).Msg("Periodic sweep failed")
				}
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	cancel()
	log.Info().Msg("Reconciler exited")
}
