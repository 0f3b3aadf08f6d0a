package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/adapter/postgres"
	"github.com/tably/tably/internal/adapter/push"
	"github.com/tably/tably/internal/adapter/rabbitmq"
	"github.com/tably/tably/internal/adapter/realtime"
	"github.com/tably/tably/internal/app/orders"
	"github.com/tably/tably/internal/app/orderstatus"
	"github.com/tably/tably/internal/app/subscriptions"
	"github.com/tably/tably/internal/clock"
	"github.com/tably/tably/internal/config"
	"github.com/tably/tably/internal/metrics"

	amqpAdapter "github.com/tably/tably/internal/adapter/amqp"
	httpAdapter "github.com/tably/tably/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: api-server, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx := context.Background()

	// Initialize logger
	lgr := logger.New(*mode)

	// Connect to RabbitMQ
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api-server":
		// Connect to PostgreSQL
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

		runAPIServer(ctx, cfg, db, mqConn, lgr)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPIServer(ctx context.Context, cfg *config.Config, db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger) {
	// Identity of this instance in the status-event relay
	origin := uuid.NewString()

	// Initialize repositories
	orderRepo := postgres.NewOrderRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)

	// Initialize realtime fan-out
	hub := realtime.NewHub(lgr)
	publisher := rabbitmq.NewPublisher(mqConn, origin)
	broadcaster := realtime.NewFanoutBroadcaster(hub, publisher, lgr)

	// Initialize push dispatch
	pushSender := push.NewSender(subRepo, lgr, cfg.Notify.PushTimeout())

	// Initialize services
	clk := clock.NewSystem()
	orderService := orders.NewService(orderRepo, lgr, clk)
	statusService := orderstatus.NewService(orderRepo, broadcaster, pushSender, lgr, clk, cfg.Notify.Timeout())
	subService := subscriptions.NewService(subRepo, lgr, clk)

	// Initialize HTTP handlers
	orderHandler := httpAdapter.NewOrderHandler(orderService, statusService, lgr)
	subHandler := httpAdapter.NewSubscriptionHandler(subService, lgr)
	wsHandler := httpAdapter.NewWSHandler(hub, lgr)

	// Consume relayed status events from other instances
	relayCtx, cancelRelay := context.WithCancel(ctx)
	defer cancelRelay()

	consumer := rabbitmq.NewConsumer(mqConn)
	relayHandler := amqpAdapter.NewRelayHandler(hub, origin, lgr)
	go func() {
		if err := consumer.ConsumeStatusEvents(relayCtx, relayHandler.HandleStatusEvent); err != nil && relayCtx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming status events", "runtime", nil, err)
		}
	}()

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", orderHandler.HandleOrders)
	mux.HandleFunc("/orders/", orderHandler.HandleOrders)
	mux.HandleFunc("/subscriptions", subHandler.HandleSubscriptions)
	mux.HandleFunc("/subscriptions/", subHandler.HandleSubscriptions)
	mux.HandleFunc("/ws/venues/", wsHandler.HandleVenueSocket)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Apply middleware
	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTP.IdleTimeout) * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API Server started on port %d", cfg.HTTP.Port), "startup", map[string]interface{}{
		"port":   cfg.HTTP.Port,
		"origin": origin,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API Server", "shutdown", nil)
		cancelRelay()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeStatusEvents(ctx, notificationHandler.HandleStatusEvent); err != nil {
			lgr.Error("consumer_error", "Error consuming status events", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}
