package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dextro-platform/fleet-console/internal/console/handler"
	"github.com/dextro-platform/fleet-console/internal/console/service"
	"github.com/dextro-platform/fleet-console/internal/infra"
	"github.com/dextro-platform/fleet-console/internal/infra/auth"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Проверка RS256-токенов на защищенном периметре
	authValidator auth.TokenValidator

	fleetService *service.FleetService

	// Обработчики бизнес-доменов
	authHandler  *handler.AuthHandler  // /auth/token
	fleetHandler *handler.FleetHandler // /api/v1/fleet, /api/v1/devices, ...
	chatHandler  *handler.ChatHandler  // /api/v1/chat
}

// NewConsoleServer инициализирует сервер дашборда со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	fleetService *service.FleetService,
	authH *handler.AuthHandler,
	fleetH *handler.FleetHandler,
	chatH *handler.ChatHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:        chi.NewRouter(),
		logger:        logger.Named("console-api"),
		cfg:           cfg,
		authValidator: validator,
		fleetService:  fleetService,
		authHandler:   authH,
		fleetHandler:  fleetH,
		chatHandler:   chatH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (Открыты для всех) ---
	r.Group(func(r chi.Router) {
		// Логин должен быть доступен без токена
		r.Post("/auth/token", s.authHandler.Login)

		// Healthcheck: ?deep=1 дополнительно дергает провайдер данных
		r.Get("/health", s.handleHealth)

		// Prometheus-метрики движка
		r.Handle("/metrics", promhttp.Handler())
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		// Дашборд флота
		r.Get("/api/v1/fleet/health", s.fleetHandler.Health)
		r.Get("/api/v1/fleet/summary", s.fleetHandler.Summary)
		r.Get("/api/v1/issues", s.fleetHandler.Issues)
		r.Get("/api/v1/overvoltage", s.fleetHandler.Overvoltage)

		// Устройства и логи
		r.Route("/api/v1/devices", func(r chi.Router) {
			r.Get("/high-error", s.fleetHandler.HighErrorDevices)
			r.Get("/{id}/customer", s.fleetHandler.CustomerInfo)
		})
		r.Get("/api/v1/logs", s.fleetHandler.Logs)
		r.Get("/api/v1/locations/performance", s.fleetHandler.LocationPerformance)

		// Чат-агент
		r.Post("/api/v1/chat", s.chatHandler.Ask)
	})
}

func (s *ConsoleServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("deep") != "" {
		if err := s.fleetService.PingStore(r.Context()); err != nil {
			s.logger.Warn("deep health check failed", zap.Error(err))
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
