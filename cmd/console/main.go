package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/agent"
	"github.com/dextro-platform/fleet-console/internal/audit"
	"github.com/dextro-platform/fleet-console/internal/cache"
	"github.com/dextro-platform/fleet-console/internal/console/handler"
	"github.com/dextro-platform/fleet-console/internal/console/server"
	"github.com/dextro-platform/fleet-console/internal/console/service"
	"github.com/dextro-platform/fleet-console/internal/engine"
	"github.com/dextro-platform/fleet-console/internal/infra"
	"github.com/dextro-platform/fleet-console/internal/infra/auth"
	"github.com/dextro-platform/fleet-console/internal/repository/postgres"
	"github.com/dextro-platform/fleet-console/internal/store"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// 2. Постоянные ресурсы: Postgres (пользователи, аудит), Redis (снапшоты)
	pgRepo, err := postgres.NewFleetRepo(cfg.Database.URL)
	if err != nil {
		logger.Fatal("postgres init failed", zap.Error(err))
	}
	defer pgRepo.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := pgRepo.Ping(pingCtx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}
	pingCancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 3. Метрики движка (экспорт через /metrics роутера)
	metrics := engine.NewMetrics(prometheus.DefaultRegisterer)

	// 4. Провайдер данных: REST (PostgREST/Supabase) или прямой SQL
	var provider store.Provider
	switch cfg.Store.Mode {
	case "postgres":
		provider = pgRepo
	default:
		provider = store.NewClient(cfg.Store.URL, cfg.Store.APIKey, cfg.Store.Timeout, logger)
	}

	// Оборачиваем транспорт в Rate Limiter + Circuit Breaker
	reliability := engine.NewReliability(cfg.Engine, metrics)
	provider = reliability.Provider(provider)

	exec := engine.NewExecutor(cfg.Engine, metrics, logger)

	// 5. Журнал инвокаций: пакетная запись в Postgres через drain-воркер
	auditRepo, err := postgres.NewAuditRepo(cfg.Database.URL)
	if err != nil {
		logger.Fatal("audit storage init failed", zap.Error(err))
	}
	defer auditRepo.Close()

	trail := audit.NewTrail(auditRepo, cfg.Engine.AuditBufferSize, cfg.Engine.AuditFlushInterval, metrics.AuditBufferFill, logger)
	trail.Start()
	defer trail.Stop()

	// 6. Сервисный слой
	snapshots := cache.NewSnapshotCache(rdb, cfg.Redis.SnapshotTTL, logger)
	fleetService := service.NewFleetService(provider, exec, snapshots, logger)

	privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("auth private key", zap.Error(err))
	}
	publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("auth public key", zap.Error(err))
	}
	authService := service.NewAuthService(pgRepo, privateKey, cfg.Auth.TokenTTL)
	validator := auth.NewBaseValidator(publicKey)

	// 7. Чат-агент: реестр инструментов поверх операций сервиса.
	// Реальный провайдер модели подключается здесь; заглушка честно
	// сообщает, что модель не настроена.
	registry := agent.NewRegistry()
	agent.RegisterFleetTools(registry, fleetService)
	var llm agent.LLM = agent.StaticLLM{Text: "The assistant model is not configured on this deployment."}
	chatAgent := agent.New(llm, registry, trail, cfg.Agent.SystemPrompt, cfg.Agent.MaxTurns, logger)

	// 8. HTTP-сервер
	consoleServer := server.NewConsoleServer(
		cfg,
		logger,
		validator,
		fleetService,
		handler.NewAuthHandler(authService),
		handler.NewFleetHandler(fleetService),
		handler.NewChatHandler(chatAgent, logger),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      consoleServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("fleet console started", zap.String("addr", srv.Addr), zap.String("store_mode", cfg.Store.Mode))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop
	logger.Info("fleet console stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("fleet console exited properly")
}
