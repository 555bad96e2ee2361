// Package main - точка входа HTTP-сервера CPA Path Hub.
//
// Бэкенд геймифицированного курса подготовки к экзамену CPA: отдаёт
// учебный материал и банк вопросов, ведёт игровой прогресс учащегося
// (XP, жизни, серии дней) с ленивым восстановлением жизней.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: хранилища записей и учебного материала
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cpa-path/cpa-path-hub/config"

	// Application layer
	"github.com/cpa-path/cpa-path-hub/internal/application/command"
	"github.com/cpa-path/cpa-path-hub/internal/application/progress"
	"github.com/cpa-path/cpa-path-hub/internal/application/query"

	// Domain layer
	"github.com/cpa-path/cpa-path-hub/internal/domain/user"

	// Infrastructure layer
	contentstore "github.com/cpa-path/cpa-path-hub/internal/infrastructure/content"
	filestore "github.com/cpa-path/cpa-path-hub/internal/infrastructure/persistence/file"
	"github.com/cpa-path/cpa-path-hub/internal/infrastructure/persistence/postgres"
	redisstore "github.com/cpa-path/cpa-path-hub/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/cpa-path/cpa-path-hub/internal/interface/http"

	// Packages
	"github.com/cpa-path/cpa-path-hub/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting CPA Path Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
		logger.Driver(string(cfg.Storage.Driver)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩЕ ЗАПИСЕЙ УЧАЩИХСЯ
	// ─────────────────────────────────────────────────────────────────────────
	userRepo, cleanup, err := buildUserRepository(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer cleanup()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. УЧЕБНЫЙ МАТЕРИАЛ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("loading course content...", logger.String("dir", cfg.Content.DataDir))
	contentRepo, err := contentstore.NewStore(contentstore.Config{DataDir: cfg.Content.DataDir}, log)
	if err != nil {
		return fmt.Errorf("failed to load course content: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	store := progress.NewStore(userRepo, log)

	// Все календарные вычисления (серии, дневная активность) ведутся
	// в настроенном часовом поясе, а не в поясе хоста.
	clock := func() time.Time { return time.Now().In(cfg.App.Location) }

	deps := httpserver.Dependencies{
		GetChaptersHandler:    query.NewGetChaptersHandler(contentRepo),
		GetChapterHandler:     query.NewGetChapterHandler(contentRepo),
		GetLessonHandler:      query.NewGetLessonHandler(contentRepo),
		GetQuestionsHandler:   query.NewGetQuestionsHandler(contentRepo, store, nil),
		GetProfileHandler:     query.NewGetProfileHandler(store, log, clock),
		GetProgressHandler:    query.NewGetProgressHandler(store),
		CompleteLessonHandler: command.NewCompleteLessonHandler(store, log, clock),
		SubmitAnswerHandler:   command.NewSubmitAnswerHandler(store, log, clock),
		ResetProgressHandler:  command.NewResetProgressHandler(store, log),
		ContentRepo:           contentRepo,
		Logger:                log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ОЖИДАНИЕ ЗАВЕРШЕНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildUserRepository выбирает бэкенд хранения по конфигурации.
// Возвращает репозиторий и функцию освобождения ресурсов.
func buildUserRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (user.Repository, func(), error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case config.DriverFile:
		repo, err := filestore.NewUserStore(filestore.Config{DataDir: cfg.Storage.DataDir}, log)
		if err != nil {
			return nil, noop, err
		}
		return repo, noop, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.DefaultConfig(cfg.Storage.DatabaseURL), log)
		if err != nil {
			return nil, noop, err
		}
		repo, err := postgres.NewUserStore(ctx, pool, log)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return repo, func() {
			log.Info("closing database pool...")
			pool.Close()
		}, nil

	case config.DriverRedis:
		redisCfg := redisstore.DefaultConfig(cfg.Storage.RedisAddr)
		redisCfg.Password = cfg.Storage.RedisPassword
		redisCfg.DB = cfg.Storage.RedisDB
		repo, err := redisstore.NewUserStore(ctx, redisCfg, log)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() {
			log.Info("closing redis client...")
			_ = repo.Close()
		}, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// setupLogger настраивает структурированный логгер по конфигурации.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.AddCaller = true
	}
	return logger.New(opts)
}
