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

	"auraverse/config"
	"auraverse/internal/api"
	"auraverse/internal/broker"
	"auraverse/internal/redisclient"
	"auraverse/internal/service"
	"auraverse/internal/store"
	"auraverse/internal/util"
	"auraverse/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting auraverse marketplace")

	tp, err := util.InitTracer("auraverse", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("Database ready")

	var redisClient *redisclient.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	var publisher broker.Publisher = broker.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicActivity)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	ledgerService := service.NewLedgerService(db, cfg.Market, publisher, redisClient)
	commerceService := service.NewCommerceService(db, cfg.Market, publisher)
	catalogService := service.NewCatalogService(db)
	marketService := service.NewMarketService(db, cfg.Market, publisher)
	feedService := service.NewFeedService(db, cfg.Feed, redisClient, publisher)
	assistant := service.NewHTTPAssistant(cfg.Assist)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	feedWorker := worker.NewFeedWorker(feedService, time.Duration(cfg.Feed.PollSeconds)*time.Second)
	go feedWorker.Start(workerCtx)

	var activityWorker *worker.ActivityWorker
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicActivity, cfg.Kafka.ConsumerGroup)
		activityWorker = worker.NewActivityWorker(consumer)
		go func() {
			if err := activityWorker.Start(workerCtx); err != nil {
				log.Printf("Activity worker error: %v", err)
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(ledgerService, commerceService, catalogService, marketService, feedService, assistant)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	feedWorker.Wait()
	if activityWorker != nil {
		if err := activityWorker.Stop(); err != nil {
			log.Printf("Activity worker stop error: %v", err)
		}
	}

	log.Println("Server exited")
}
