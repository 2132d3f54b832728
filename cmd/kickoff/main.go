package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/api/rest"
	"github.com/fortuna/kickoff/internal/api/websocket"
	"github.com/fortuna/kickoff/internal/logging"
	"github.com/fortuna/kickoff/internal/pipeline"
	"github.com/fortuna/kickoff/internal/publisher"
	"github.com/fortuna/kickoff/internal/scheduler"
	"github.com/fortuna/kickoff/internal/store"
)

const serviceName = "kickoff"

func main() {
	once := flag.Bool("once", false, "run a single aggregation batch and exit")
	flag.Parse()

	cfg := loadConfig()

	log, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting", zap.String("service", serviceName))

	pipeCfg := pipeline.Config{
		ReferenceZone:    cfg.ReferenceZone,
		Days:             cfg.Days,
		CacheDir:         cfg.CacheDir,
		CacheTTL:         cfg.CacheTTL,
		OutputPath:       cfg.OutputPath,
		TranslationsPath: cfg.TranslationsPath,
		ManualPath:       cfg.ManualPath,
		FetchAttempts:    3,
		FetchRetryDelay:  5 * time.Second,
		FetchConcurrency: 4,
		HTTPTimeout:      15 * time.Second,
	}

	sources, err := pipeline.DefaultSources()
	if err != nil {
		log.Fatal("source roster init failed", zap.Error(err))
	}

	pipe, err := pipeline.New(pipeCfg, sources, log)
	if err != nil {
		log.Fatal("pipeline init failed", zap.Error(err))
	}
	defer pipe.Close()

	// The run archive and publisher are optional sinks.
	var archive *store.Database
	if cfg.DatabaseDSN != "" {
		archive, err = store.NewDatabase(cfg.DatabaseDSN, log)
		if err != nil {
			log.Fatal("archive database init failed", zap.Error(err))
		}
		defer archive.Close()

		if err := archive.EnsureSchema(context.Background()); err != nil {
			log.Fatal("archive schema init failed", zap.Error(err))
		}
		log.Info("run archive enabled")
	}

	var pub *publisher.RedisPublisher
	if cfg.RedisURL != "" {
		pub, err = publisher.NewRedisPublisher(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis publisher init failed", zap.Error(err))
		}
		defer pub.Close()
		log.Info("schedule publisher enabled")
	}

	wsServer := websocket.NewServer(log)

	sched := scheduler.NewOrchestrator(pipe, scheduler.Config{
		Interval:             cfg.RunInterval,
		MaxConsecutiveErrors: 5,
		DampingDelay:         5 * time.Minute,
	}, archive, pub, wsServer, log)

	if *once {
		if err := sched.Refresh(context.Background()); err != nil {
			log.Fatal("aggregation run failed", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Start(ctx)

	restServer := rest.NewServer(cfg.RESTPort,
		rest.NewHandler(sched, archive, log), log)
	go func() {
		if err := restServer.Start(); err != nil {
			log.Warn("rest server stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil {
			log.Warn("websocket server stopped", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("rest shutdown error", zap.Error(err))
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("websocket shutdown error", zap.Error(err))
	}

	log.Info("stopped")
}

type config struct {
	ReferenceZone    string
	Days             int
	CacheDir         string
	CacheTTL         time.Duration
	OutputPath       string
	TranslationsPath string
	ManualPath       string
	RunInterval      time.Duration
	DatabaseDSN      string
	RedisURL         string
	RESTPort         string
	WSPort           string
	LogLevel         string
	Development      bool
}

func loadConfig() config {
	return config{
		ReferenceZone:    getEnv("REFERENCE_ZONE", "Asia/Jakarta"),
		Days:             getEnvInt("SCHEDULE_DAYS", 2),
		CacheDir:         getEnv("CACHE_DIR", "cache"),
		CacheTTL:         getEnvDuration("CACHE_TTL", 24*time.Hour),
		OutputPath:       getEnv("OUTPUT_PATH", "data/schedule.json"),
		TranslationsPath: getEnv("TRANSLATIONS_PATH", "data/translations.json"),
		ManualPath:       getEnv("MANUAL_MATCHES_PATH", "data/manual_matches.json"),
		RunInterval:      getEnvDuration("RUN_INTERVAL", 30*time.Minute),
		DatabaseDSN:      getEnv("DATABASE_DSN", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RESTPort:         getEnv("REST_PORT", "8080"),
		WSPort:           getEnv("WS_PORT", "8081"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Development:      getEnv("DEV_LOGGING", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
