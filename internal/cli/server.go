package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"exam-portal-service/internal/app"
	"exam-portal-service/internal/config"
	"exam-portal-service/internal/infra/memory"
	inframongo "exam-portal-service/internal/infra/mongo"
	infrapg "exam-portal-service/internal/infra/postgres"
	infraredis "exam-portal-service/internal/infra/redis"
	transport "exam-portal-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the exam portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Store.Driver == "postgres" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	service, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := transport.NewHandler(service, cfg.Admin.Email)
	wsHandler := transport.NewWSHandler(service)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.Router(handler, wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting exam portal on :%s (store=%s)", finalPort, storeDriver(cfg))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildService assembles stores, cache and service per the configured
// driver. The returned cleanup closes any open connections.
func buildService(ctx context.Context, cfg config.Config) (*app.Service, func(), error) {
	var (
		exams    app.ExamStore
		results  app.ResultStore
		cleanups []func()
	)

	switch storeDriver(cfg) {
	case "memory":
		exams = memory.NewExamStore()
		results = memory.NewResultStore()
	case "postgres":
		if cfg.Postgres.URL == "" {
			return nil, nil, fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		cleanups = append(cleanups, pool.Close)
		exams = infrapg.NewExamStore(pool)
		results = infrapg.NewResultStore(pool)
	case "mongo":
		if cfg.Mongo.URI == "" {
			return nil, nil, fmt.Errorf("mongo uri not configured")
		}
		client, err := mongodrv.Connect(ctx, mongoopts.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		cleanups = append(cleanups, func() {
			_ = client.Disconnect(context.Background())
		})
		dbName := cfg.Mongo.Database
		if dbName == "" {
			dbName = "examportal"
		}
		db := client.Database(dbName)
		exams = inframongo.NewExamStore(db)
		results = inframongo.NewResultStore(db)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
	}

	var boards app.LeaderboardSource
	var attempts app.AttemptStore = memory.NewAttemptStore()
	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Cache.LeaderboardTTL, 30*time.Second)
		boards = infraredis.NewLeaderboardCache(redisClient, results, cacheTTL)
		attempts = infraredis.NewAttemptStore(redisClient, config.TTLDuration(cfg.Redis.TTL, time.Hour))
	}

	service := app.NewService(exams, results, attempts, boards)
	service.SetSecondsPerQuestion(cfg.Exam.SecondsPerQuestion)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return service, cleanup, nil
}

func storeDriver(cfg config.Config) string {
	if cfg.Store.Driver == "" {
		return "memory"
	}
	return cfg.Store.Driver
}
