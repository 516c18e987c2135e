package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/x402pay/escrow-backend/internal/config"
	"github.com/x402pay/escrow-backend/internal/http/handlers"
	"github.com/x402pay/escrow-backend/internal/middleware"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	escrowHandler *handlers.EscrowHandler,
	paymentHandler *handlers.PaymentHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/token", authHandler.IssueToken)

	if rdb != nil {
		api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// Reads are public: anyone may inspect escrows and payments.
	api.Get("/escrows/find", escrowHandler.Find)
	api.Get("/escrows/:id", escrowHandler.Get)
	api.Get("/escrows/:id/balance", escrowHandler.GetBalance)
	api.Get("/payments/:id", paymentHandler.Get)

	// Mutations require a party token.
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Post("/escrows", escrowHandler.Open)
	protected.Post("/escrows/:id/deposit", escrowHandler.Deposit)
	protected.Post("/escrows/:id/close/client", escrowHandler.ClientClose)
	protected.Post("/escrows/:id/close/server", escrowHandler.ServerClose)

	protected.Post("/payments", paymentHandler.Create)
	protected.Post("/payments/:id/settle", paymentHandler.Settle)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
