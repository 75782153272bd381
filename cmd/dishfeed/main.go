package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dishfeed/internal/config"
	"dishfeed/internal/consul"
	"dishfeed/internal/logger"
	"dishfeed/internal/server"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, registry *consul.Client, serviceID string, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	slog.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	if registry != nil {
		if err := registry.Deregister(serviceID); err != nil {
			slog.Warn("Failed to deregister from Consul", "error", err)
		} else {
			slog.Info("Deregistered from Consul", "service_id", serviceID)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	done <- true
}

func main() {
	log := logger.New("dishfeed")
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("Starting dishfeed",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"redis", cfg.RedisAddr != "",
		"kafka", cfg.KafkaBrokers != "",
		"storage", cfg.Storage != nil)

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	app := server.NewServer(initCtx, cfg, log)
	cancel()
	defer app.Close()

	registry, serviceID := register(cfg, log)

	apiServer := app.HTTPServer()
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, registry, serviceID, done)

	log.Info("dishfeed listening", "addr", apiServer.Addr)
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server error", "error", err)
		os.Exit(1)
	}

	<-done
	log.Info("Graceful shutdown complete")
}

// register announces the service to Consul when CONSUL_HTTP_ADDR is set.
// Registration failures are logged and the service keeps running.
func register(cfg *config.Config, log *slog.Logger) (*consul.Client, string) {
	if cfg.ConsulAddr == "" {
		return nil, ""
	}

	client, err := consul.NewClient(cfg.ConsulAddr, cfg.ConsulToken)
	if err != nil {
		log.Warn("Failed to create Consul client", "error", err)
		return nil, ""
	}

	svc := consul.FeedService(cfg.Host, cfg.Port)

	// Clear a registration left behind by a crash
	_ = client.Deregister(svc.ID)

	if err := client.Register(svc); err != nil {
		log.Warn("Failed to register with Consul", "error", err)
		return nil, ""
	}

	log.Info("Registered with Consul", "service_id", svc.ID)
	return client, svc.ID
}
