package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shravanik22/MediLink/internal/cache"
	"github.com/Shravanik22/MediLink/internal/complaint"
	"github.com/Shravanik22/MediLink/internal/db"
	"github.com/Shravanik22/MediLink/internal/health"
	"github.com/Shravanik22/MediLink/internal/kafka"
	"github.com/Shravanik22/MediLink/internal/logger"
	"github.com/Shravanik22/MediLink/internal/notify"
	"github.com/Shravanik22/MediLink/internal/order"
	"github.com/Shravanik22/MediLink/internal/repository/postgresql"
	"github.com/Shravanik22/MediLink/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zlog := logger.New()
	defer func() { _ = zlog.Sync() }()

	database, err := db.NewDb(ctx)
	if err != nil {
		zlog.Fatal("database init failed", zap.Error(err))
	}
	defer database.GetPool().Close()

	db.SeedAdmin(ctx, database)

	orderRepo := postgresql.NewOrderRepo(database)
	historyRepo := postgresql.NewHistoryRepo(database)
	userRepo := postgresql.NewUserRepo(database)
	medicineRepo := postgresql.NewMedicineRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()
	complaintRepo := postgresql.NewComplaintRepo(database)
	healthRepo := postgresql.NewHealthMetricRepo(database)

	orderCache := cache.NewOrderCache(orderRepo)
	if err := orderCache.LoadInitialData(ctx); err != nil {
		zlog.Fatal("cache warmup failed", zap.Error(err))
	}

	hub := notify.NewHub(zlog)

	controller := order.NewController(
		database,
		orderRepo,
		historyRepo,
		userRepo,
		medicineRepo,
		outboxRepo,
		orderCache,
		hub,
		zlog,
	)

	var producer kafka.Producer
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer = kafka.NewWriterProducer(strings.Split(brokers, ","))
	} else {
		producer = kafka.NewConsoleProducer()
	}

	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: 2 * time.Second,
		BatchSize:    10,
		MaxAttempts:  5,
	})

	complaintController := complaint.NewController(complaintRepo, zlog)
	healthController := health.NewController(healthRepo, hub, zlog)

	srv := server.New(controller, userRepo, medicineRepo, hub, complaintController, healthController, zlog)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "9000"
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx, port)
	})

	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		publisher.Shutdown()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("ERROR: shutdown finished with error: %v", err)
		return
	}

	log.Println("Server gracefully stopped")
}
