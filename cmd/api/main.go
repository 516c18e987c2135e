package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/clock"
	"github.com/x402pay/escrow-backend/internal/config"
	"github.com/x402pay/escrow-backend/internal/db"
	"github.com/x402pay/escrow-backend/internal/events"
	apphttp "github.com/x402pay/escrow-backend/internal/http"
	"github.com/x402pay/escrow-backend/internal/http/handlers"
	"github.com/x402pay/escrow-backend/internal/repositories"
	"github.com/x402pay/escrow-backend/internal/services"
	"github.com/x402pay/escrow-backend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis carries the event bus and the rate limiter regardless of
	// which KV backend holds the ledger records.
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Durable KV store
	var kv storage.KV
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		pg := storage.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to ensure ledger schema", zap.Error(err))
		}
		kv = pg
	case config.StorageMemory:
		kv = storage.NewMemory()
	default:
		kv = storage.NewRedis(rdb)
	}
	log.Info("storage backend ready", zap.String("backend", cfg.StorageBackend))

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Core ledger
	ledger := services.NewLedger(
		repositories.NewEscrowRepo(kv),
		repositories.NewPaymentRepo(kv),
		repositories.NewPairIndexRepo(kv),
		auth.ContextOracle{},
		publisher,
		clock.System{},
		log,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	escrowHandler := handlers.NewEscrowHandler(ledger, log)
	paymentHandler := handlers.NewPaymentHandler(ledger, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, escrowHandler, paymentHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting escrow ledger API", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
