package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"ms-boxoffice/internal/analytics"
	"ms-boxoffice/internal/api"
	availabilitydb "ms-boxoffice/internal/availability/db"
	availability "ms-boxoffice/internal/availability/service"
	"ms-boxoffice/internal/cache"
	clientsdb "ms-boxoffice/internal/clients/db"
	clients "ms-boxoffice/internal/clients/service"
	"ms-boxoffice/internal/clock"
	"ms-boxoffice/internal/config"
	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/database/migrations"
	eventsdb "ms-boxoffice/internal/events/db"
	events "ms-boxoffice/internal/events/service"
	"ms-boxoffice/internal/kafka"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/sales"
	seatsdb "ms-boxoffice/internal/seats/db"
	seats "ms-boxoffice/internal/seats/service"
	"ms-boxoffice/internal/sse"
	ticketsdb "ms-boxoffice/internal/tickets/db"
	tickets "ms-boxoffice/internal/tickets/service"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}
	log.Info("APP", "Starting box office initialization")

	ctx := context.Background()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()
	log.Info("DATABASE", fmt.Sprintf("Using %s store", bunDB.Dialect().Name()))

	runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{AutoMigrate: cfg.Database.AutoMigrate}, log)
	if err := runner.RunMigrations(ctx); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to apply schema: %v", err))
	}

	clk := clock.NewSystem()
	eventStore := &eventsdb.DB{Bun: bunDB}

	var redisClient *redis.Client
	seatSvc := seats.NewSeatService(&seatsdb.DB{Bun: bunDB}, nil, log)
	if cfg.Redis.Enabled {
		redisClient, err = cache.InitializeRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn("REDIS", fmt.Sprintf("Seat cache disabled: %v", err))
		} else {
			defer redisClient.Close()
			seatSvc.Cache = cache.NewSeatSectionsCache(redisClient, cfg.Redis.Prefix, cfg.Redis.TTL)
		}
	}

	eventSvc := events.NewEventService(eventStore, clk, log)
	availSvc := availability.NewAvailabilityService(&availabilitydb.DB{Bun: bunDB}, eventStore, log)
	clientSvc := clients.NewClientService(&clientsdb.DB{Bun: bunDB}, clk, log)
	ticketSvc := tickets.NewTicketService(&ticketsdb.DB{Bun: bunDB}, cfg.Sales.QRSecretKey, log)
	ticketSvc.PDF.FontPath = cfg.Sales.TicketFontPath
	emitter := sse.NewSeatEventEmitter()

	if cfg.Database.SeedData {
		seed(ctx, bunDB, seatSvc, eventSvc, log)
	}

	saleSvc := sales.NewSaleService(eventStore, availSvc, clientSvc, ticketSvc, clk, log)
	saleSvc.Tx = database.Transactor{DB: bunDB}
	saleSvc.Atomic = cfg.Sales.Atomic
	saleSvc.Emitter = emitter
	if cfg.Sales.Atomic {
		log.Info("SALE", "Atomic sale mode enabled")
	}

	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.Sales, cfg.Kafka.Topics.SeatStatus}
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, topics, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, log)
		defer producer.Close()
		saleSvc.Publisher = producer
		saleSvc.PublishTimeout = cfg.Kafka.PublishTimeout
		log.Info("KAFKA", "Kafka producer initialized successfully")
	}

	handler := &api.Handler{
		Seats:        seatSvc,
		Events:       eventSvc,
		Availability: availSvc,
		Sales:        saleSvc,
		Clients:      clientSvc,
		Tickets:      ticketSvc,
		Analytics:    analytics.NewService(analytics.NewDB(bunDB), eventStore),
		Emitter:      emitter,
		DB:           bunDB,
		Logger:       log,
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Box office running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "Box office shutdown complete")
	}
}

// seed fills an empty catalog and registry once at startup.
func seed(ctx context.Context, bunDB *bun.DB, seatSvc *seats.SeatService, eventSvc *events.EventService, log *logger.Logger) {
	err := database.WithTx(ctx, bunDB, func(ctx context.Context) error {
		if _, err := seatSvc.SeedDefault(ctx); err != nil {
			return err
		}
		_, err := eventSvc.SeedDemo(ctx)
		return err
	})
	if err != nil {
		log.Fatal("SEED", fmt.Sprintf("Failed to seed data: %v", err))
	}
}
