// Package server wires the dishfeed components into one HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dishfeed/internal/auth"
	"dishfeed/internal/config"
	"dishfeed/internal/feed"
	"dishfeed/internal/kafka"
	"dishfeed/internal/location"
	"dishfeed/internal/session"
	"dishfeed/internal/settings"
	"dishfeed/internal/storage"

	"github.com/redis/go-redis/v9"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	redis    *redis.Client
	producer *kafka.Producer
	storage  storage.Service

	feed       *feed.Service
	auth       auth.Service
	sessionMgr session.Manager
	location   *location.Provider
	settings   *settings.Service
}

// NewServer connects the optional backends and builds the domain services.
// Backends that are not configured or not reachable are replaced by
// in-process fallbacks, so the API always starts.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	var store session.Store
	if client := s.connectRedis(ctx); client != nil {
		s.redis = client
		store = session.NewRedisStore(client)
	} else {
		store = session.NewMemoryStore()
		logger.Info("Using in-memory session store")
	}

	var events feed.EventPublisher = feed.NopPublisher{}
	if p := s.connectKafka(); p != nil {
		s.producer = p
		events = p
	}

	if cfg.Storage != nil {
		storageService, err := storage.New(ctx, *cfg.Storage)
		if err != nil {
			logger.Warn("Failed to initialize storage service", "error", err)
		} else {
			s.storage = storageService
			logger.Info("Storage service initialized", "bucket", cfg.Storage.Bucket)
		}
	}

	posts := feed.NewStore()
	if cfg.SeedDemo {
		feed.Seed(posts)
		logger.Info("Seeded demo dishes", "count", posts.Len())
	}

	s.feed = feed.NewService(posts, s.redis, events, logger.With("component", "feed"))
	s.auth = auth.NewService()
	s.sessionMgr = session.NewManager(store)
	s.location = location.NewProvider()
	s.settings = settings.NewService(store)

	return s
}

func (s *Server) connectRedis(ctx context.Context) *redis.Client {
	if s.cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPassword,
		DB:       s.cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		s.logger.Warn("Redis unreachable, falling back to memory", "addr", s.cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}

	s.logger.Info("Connected to Redis", "addr", s.cfg.RedisAddr)
	return client
}

func (s *Server) connectKafka() *kafka.Producer {
	if s.cfg.KafkaBrokers == "" {
		s.logger.Info("Kafka disabled, feed events are not published")
		return nil
	}

	kafkaConfig, err := kafka.LoadConfig()
	if err != nil {
		s.logger.Warn("Failed to load Kafka config", "error", err)
		return nil
	}

	p, err := kafka.NewProducer(kafkaConfig, s.logger.With("component", "kafka"))
	if err != nil {
		s.logger.Warn("Failed to create Kafka producer", "error", err)
		return nil
	}
	return p
}

// HTTPServer returns the configured http.Server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Close flushes pending events and releases backend connections
func (s *Server) Close() {
	if s.producer != nil {
		s.producer.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close Redis client", "error", err)
		}
	}
}
