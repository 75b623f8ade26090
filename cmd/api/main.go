// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"moim/internal/adapter/gemini"
	"moim/internal/adapter/kakao"
	"moim/internal/adapter/storage"
	"moim/internal/config"
	"moim/internal/server"
	"moim/internal/service/locate"
	"moim/internal/service/recommend"
)

func main() {
	// Local development keys live in .env; absence is fine elsewhere.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsConn.Close()

	// Initialize external clients
	var kakaoOpts []kakao.Option
	if cfg.Kakao.BaseURL != "" {
		kakaoOpts = append(kakaoOpts, kakao.WithBaseURL(cfg.Kakao.BaseURL))
	}
	kakaoClient, err := kakao.New(cfg.Kakao.APIKey, kakaoOpts...)
	if err != nil {
		logger.Error("failed to create kakao client", "error", err)
		os.Exit(1)
	}

	var geminiOpts []gemini.Option
	if cfg.Gemini.BaseURL != "" {
		geminiOpts = append(geminiOpts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
	}
	if cfg.Gemini.Model != "" {
		geminiOpts = append(geminiOpts, gemini.WithModel(cfg.Gemini.Model))
	}
	geminiClient, err := gemini.New(cfg.Gemini.APIKey, geminiOpts...)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}

	// Initialize storage adapters
	meetingStore := storage.NewMeetingStore(db)
	recommendationStore := storage.NewRecommendationStore(db)

	// Initialize pipeline services
	resolver := locate.NewResolver(kakaoClient, logger)
	searcher := recommend.NewSearcher(
		kakaoClient,
		logger,
		recommend.WithRadius(cfg.Pipeline.RadiusMeters),
		recommend.WithPageSize(cfg.Pipeline.PageSize),
	)
	recommender := recommend.NewRecommender(geminiClient, logger)
	pipeline := recommend.NewPipeline(
		resolver,
		searcher,
		recommender,
		natsConn,
		logger,
		recommend.WithMaxKeywords(cfg.Pipeline.MaxKeywords),
		recommend.WithMaxDetailed(cfg.Pipeline.MaxDetailed),
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		meetingStore,
		recommendationStore,
		pipeline,
		kakaoClient,
		cfg.Pipeline.TopN,
	)

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, logger *slog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
