package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/x402pay/escrow-backend/internal/config"
	"github.com/x402pay/escrow-backend/internal/db"
	"github.com/x402pay/escrow-backend/internal/events"
	"go.uber.org/zap"
)

// Notify bridge — small standalone service that subscribes to ledger
// events and forwards them to an external webhook (billing, alerting,
// a bot — whatever the deployment points NOTIFY_WEBHOOK_URL at).

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.NotifyWebhookURL == "" {
		log.Fatal("NOTIFY_WEBHOOK_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)

	log.Info("notify-bridge started", zap.String("webhook", cfg.NotifyWebhookURL))

	_ = subscriber.Subscribe(ctx, events.StreamLedger, func(event events.Event) {
		log.Info("forwarding ledger event", zap.String("type", event.Type))
		forward(cfg.NotifyWebhookURL, event, log)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}

func forward(url string, event events.Event, log *zap.Logger) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	resp, err := http.Post(strings.TrimRight(url, "/"), "application/json", strings.NewReader(string(body)))
	if err != nil {
		log.Warn("failed to forward event", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("webhook returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("type", event.Type),
		)
	}
}
