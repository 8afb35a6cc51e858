package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/classifier"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/llm"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.DSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewTicketCommentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	chatRepo := repository.NewChatMessageRepository(pool)
	gamificationRepo := repository.NewGamificationRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	knowledgeCache := cache.NewKnowledgeCache(redis.Handle(), knowledgeRepo, cfg.Knowledge.CacheTTL(), logger)
	chatLimiter := cache.NewRateLimiter(redis.Handle(), "ratelimit:chat", cfg.Chat.RateLimitPerMinute, logger)

	issueClassifier, err := classifier.FromConfig(cfg.Classifier, llm.NewClient(cfg.LLM), logger)
	if err != nil {
		logger.Fatal("failed to build classifier", zap.Error(err))
	}
	logger.Info("classifier ready", zap.String("strategy", issueClassifier.Name()))

	gamificationService := service.NewGamificationService(service.GamificationDependencies{
		GamificationRepo: gamificationRepo,
		UserRepo:         userRepo,
		Logger:           logger,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: userRepo})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		HistoryRepo: historyRepo,
		UserRepo:    userRepo,
		Classifier:  issueClassifier,
		Points:      gamificationService,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	knowledgeService := service.NewKnowledgeService(service.KnowledgeDependencies{
		KnowledgeRepo: knowledgeRepo,
		Cache:         knowledgeCache,
		Points:        gamificationService,
		Logger:        logger,
	})
	chatService := service.NewChatService(service.ChatDependencies{
		Classifier:  issueClassifier,
		Articles:    knowledgeCache,
		ChatLogRepo: chatRepo,
		Points:      gamificationService,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	statsService := service.NewStatsService(statsRepo, metrics)
	staffService := service.NewStaffService(service.StaffDependencies{UserRepo: userRepo, Logger: logger})

	var outbox service.Outbox
	var notifier *worker.NotificationWorker
	if cfg.Notification.TelegramEnabled() {
		sender, err := notify.NewTelegramSender(cfg.Notification.TelegramBotToken, cfg.Notification.TelegramChatID)
		if err != nil {
			logger.Fatal("failed to init telegram sender", zap.Error(err))
		}
		notifier = worker.NewNotificationWorker(sender, logger, 0)
		notifier.Start(ctx)
		outbox = notifier
	} else {
		logger.Info("telegram notifications disabled")
	}
	service.NewNotificationService(dispatcher, outbox, logger).RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthInfo{
			Service:      cfg.App.Name,
			Version:      cfg.App.Version,
			Classifier:   issueClassifier.Name(),
			ModelGateway: cfg.LLM.APIKey != "",
		}, map[string]handlers.Pinger{"postgres": pg, "redis": redis}),
		Users:          handlers.NewUsersHandler(authService, gamificationService),
		Chat:           handlers.NewChatHandler(chatService, chatLimiter),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		ITTickets:      handlers.NewITTicketsHandler(ticketService),
		Knowledge:      handlers.NewKnowledgeHandler(knowledgeService),
		Admin:          handlers.NewAdminHandler(statsService, gamificationService),
		Staff:          handlers.NewStaffHandler(staffService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	if notifier != nil {
		notifier.Wait()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
