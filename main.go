package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/config"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/consumer"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/handler"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/metrics"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/scheduler"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/vip"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/cache"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/database"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		JSON:  cfg.AppEnv == "production",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DSN(), cfg.DBMaxConns, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	redisClient, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		log.WithError(err).Warn("redis unavailable, stats caching disabled")
	}
	statsCache := cache.NewRedis(redisClient, "reservation-service")

	// Events are best effort; the service runs without a broker.
	var publisher service.EventPublisher
	mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.WithError(err).Warn("rabbitmq publisher unavailable, events disabled")
	} else {
		defer mqPublisher.Close()
		publisher = mqPublisher
	}

	// Repositories
	reservationRepo := repository.NewReservationRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	clientRepo := repository.NewClientRepository(db)

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, rabbitmq.InventoryConfig())
	if err != nil {
		log.WithError(err).Warn("rabbitmq consumer unavailable, room inventory sync disabled")
	} else {
		defer mqConsumer.Close()
		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.WithError(err).Fatal("failed to start consuming")
		}
		consumer.NewInventoryConsumer(roomRepo, log).Start(msgs)
	}

	provider, err := vip.NewClient(vip.Config{URL: cfg.VIPAPIURL, Timeout: cfg.VIPAPITimeout})
	if err != nil {
		log.WithError(err).Fatal("invalid VIP provider configuration")
	}

	// Services
	m := metrics.Default()
	clientSvc := service.NewClientService(clientRepo, provider, service.ClientOptions{
		CacheTTL:        cfg.VIPCacheTTL,
		DefaultDiscount: cfg.DefaultVIPDiscount,
		RefreshBatch:    cfg.VIPRefreshBatch,
		RefreshInterval: cfg.VIPRefreshRate,
		Logger:          log,
		Metrics:         m,
	})
	statsSvc := service.NewStatsService(reservationRepo, statsCache, cfg.StatsCacheTTL, log)
	reservationSvc := service.NewReservationService(reservationRepo, roomRepo, clientSvc, publisher, service.ReservationOptions{
		CancellationCutoff: cfg.CancellationCutoff,
		Stats:              statsSvc,
		Logger:             log,
		Metrics:            m,
	})
	roomSvc := service.NewRoomService(roomRepo)
	maintenanceSvc := service.NewMaintenanceService(reservationRepo, publisher, statsSvc, log, m, nil)

	sched := scheduler.New(scheduler.Config{
		Logger: log,
		Jobs: []scheduler.Job{
			{
				Name:       "complete-ended",
				Every:      cfg.MaintenanceInterval,
				RunOnStart: true,
				Run: func(ctx context.Context) error {
					_, err := maintenanceSvc.CompleteEnded(ctx)
					return err
				},
			},
			{
				Name:  "vip-refresh",
				Every: cfg.VIPBulkRefreshEvery,
				Run: func(ctx context.Context) error {
					_, err := clientSvc.RefreshAll(ctx)
					return err
				},
			},
		},
	})
	schedDone := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(schedDone)
	}()

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Validator = handler.NewValidator()
	e.Use(echoMw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler.NewHealthHandler(database.NewHealth(db), clientSvc, log).RegisterRoutes(e)
	handler.NewReservationHandler(reservationSvc, statsSvc, log).RegisterRoutes(e)
	handler.NewRoomHandler(roomSvc, reservationSvc, log).RegisterRoutes(e)
	handler.NewClientHandler(clientSvc, log).RegisterRoutes(e)
	handler.NewMaintenanceHandler(maintenanceSvc, clientSvc, log).RegisterRoutes(e)

	go func() {
		log.WithField("port", cfg.ServerPort).Info("reservation service starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	<-schedDone
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
