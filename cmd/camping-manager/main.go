// Точка входа Camping Manager — браузерный модуль бронирования активностей.
// Загружает конфигурацию, инициализирует i18n-каталоги и session manager,
// создаёт клиент booking API, оркестратор запросов и сервисный слой,
// запускает мониторинг зависимостей (topologymetrics) и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/avolkov/camping-manager/internal/apiclient"
	"github.com/avolkov/camping-manager/internal/config"
	"github.com/avolkov/camping-manager/internal/query"
	"github.com/avolkov/camping-manager/internal/server"
	"github.com/avolkov/camping-manager/internal/service"
	"github.com/avolkov/camping-manager/internal/ui/handlers"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
	"github.com/avolkov/camping-manager/internal/ui/middleware"
	"github.com/avolkov/camping-manager/internal/ui/session"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Camping Manager запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("booking_api", cfg.BookingAPIURL),
	)

	// Предупреждения о дефолтных значениях
	if os.Getenv("CM_DEPHEALTH_GROUP") == "" {
		logger.Warn("CM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. i18n — загрузка встроенных каталогов переводов (fr, en)
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки каталогов переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Session Manager — шифрование session cookie (AES-256-GCM)
	sessionMgr, err := session.NewManager(cfg.SessionKey, cfg.SecureCookies)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionKey == "" {
		logger.Warn("CM_SESSION_KEY не задан, сессии не сохраняются между рестартами")
	}

	// 5. HTTP-клиент booking API
	apiClient := apiclient.New(cfg.BookingAPIURL, cfg.BookingAPITimeout, logger)
	logger.Info("Booking API клиент создан",
		slog.String("url", cfg.BookingAPIURL),
		slog.String("timeout", cfg.BookingAPITimeout.String()),
	)

	// 6. Оркестратор запросов (кэш + дедупликация) и кэш аниматоров
	orchestrator := query.New(logger)
	leadersCache := service.NewLeadersCache(cfg.LeadersCacheTTL)

	// 7. Сервисный слой
	bookingSvc := service.NewBookingService(apiClient, orchestrator, leadersCache, logger)

	// 8. topologymetrics — мониторинг booking API
	ctx := context.Background()
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"camping-manager",
		cfg.DephealthGroup,
		cfg.BookingAPIURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 9. UI handlers
	var apiChecker handlers.ReadinessChecker
	if dephealthSvc != nil {
		apiChecker = dephealthSvc
	}
	h := server.Handlers{
		Auth:     handlers.NewAuthHandler(bookingSvc, sessionMgr, logger),
		Slots:    handlers.NewSlotsHandler(bookingSvc, logger),
		Schedule: handlers.NewScheduleHandler(bookingSvc, logger),
		Health:   handlers.NewHealthHandler(apiChecker),
	}

	// 10. Middleware загрузки сессии
	sessionLoader := middleware.NewSessionLoader(sessionMgr, logger)

	// 11. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h, sessionLoader)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 12. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Camping Manager остановлен")
}
