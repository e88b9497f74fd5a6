package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/chat"
	"github.com/ems-platform/web-client/internal/config"
	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/events"
	"github.com/ems-platform/web-client/internal/observability"
	"github.com/ems-platform/web-client/internal/persistence"
	"github.com/ems-platform/web-client/internal/session"
	"github.com/ems-platform/web-client/internal/web"
	"github.com/ems-platform/web-client/internal/web/view"
	"github.com/ems-platform/web-client/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	sessions := session.NewManager(redis.Client, cfg.Session.CookieName, cfg.Session.TTL(), cfg.Session.Secure)
	api := emsapi.NewClient(cfg.Backend, logger, dispatcher)
	brokerDialer := chat.NewBrokerDialer(cfg.Chat)

	views, err := view.NewEngine()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	web.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(),
		web.SessionLoader(sessions, api, logger))

	web.RegisterRoutes(app, web.RouteConfig{
		Health:     web.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, metrics),
		Auth:       web.NewAuthHandler(api, views, dispatcher, logger),
		Attendance: web.NewAttendanceHandler(api, views, logger),
		Leaves:     web.NewLeavesHandler(api, views),
		Payroll:    web.NewPayrollHandler(api, views),
		Users:      web.NewUsersHandler(api, views),
		Profile:    web.NewProfileHandler(api, views, logger),
		Chat:       web.NewChatHandler(brokerDialer, views, logger, dispatcher, cfg.Chat.ReconnectDelay()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
