// Пакет server — HTTP-сервер Camping Manager с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/camping-manager/internal/config"
	"github.com/avolkov/camping-manager/internal/ui/handlers"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
	"github.com/avolkov/camping-manager/internal/ui/middleware"
	"github.com/avolkov/camping-manager/internal/ui/static"
)

// Handlers — набор обработчиков UI, монтируемых на router.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Slots    *handlers.SlotsHandler
	Schedule *handlers.ScheduleHandler
	Health   *handlers.HealthHandler
}

// Server — HTTP-сервер Camping Manager.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// sessionLoader кладёт текущего пользователя в контекст каждого запроса;
// анонимные запросы проходят дальше, доступ ограничивают Require*-обёртки.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, sessionLoader *middleware.SessionLoader) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(i18n.Middleware())
	router.Use(sessionLoader.Middleware())

	// Служебные endpoints — проверяются Kubernetes и Prometheus напрямую
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// Статика (CSS)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Аутентификация
	router.Get("/login", h.Auth.HandleLoginPage)
	router.Post("/login", h.Auth.HandleLogin)
	router.Get("/register", h.Auth.HandleRegisterPage)
	router.Post("/register", h.Auth.HandleRegister)
	router.Post("/logout", h.Auth.HandleLogout)

	// Переключение языка
	router.Post("/language", handlers.HandleSetLanguage)

	// Список créneaux — публичный (анонимы видят список без действий)
	router.Get("/", h.Slots.HandleSlots)
	router.Get("/creneaux", h.Slots.HandleSlots)

	// Действия кемпера
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/creneaux/{id}/participer", h.Slots.HandleParticipate)
		r.Post("/creneaux/{id}/annuler", h.Slots.HandleCancel)
		r.Get("/mes-participations", h.Schedule.HandleParticipations)
		r.Get("/planning", h.Schedule.HandlePlanning)
	})

	// Действия персонала (ANIMATEUR, ADMIN)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Post("/creneaux/{id}/present", h.Slots.HandlePresent)
		r.Post("/creneaux/{id}/absent", h.Slots.HandleAbsent)
	})

	// Действия администратора
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/creneaux", h.Slots.HandleCreateSlot)
		r.Post("/creneaux/{id}/animer", h.Slots.HandleAssignLeader)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
