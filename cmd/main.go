package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"people-graphql-api/internal/config"
	"people-graphql-api/internal/events"
	"people-graphql-api/internal/infrastructure/mail"
	"people-graphql-api/internal/logger"
	"people-graphql-api/internal/routes"
	"people-graphql-api/internal/usecase/user"
	"people-graphql-api/pkg/mqtt"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close(context.Background())

	publisher, broker, closePublisher := newPublisher(cfg)
	defer closePublisher()

	mailer := mail.New(cfg, logger.Logger)
	userService := user.NewService(store.users, store.otps, mailer, publisher, cfg)

	if store.purgeOTPs {
		interval := time.Duration(cfg.OTP.PurgeIntervalMinutes) * time.Minute
		if interval <= 0 {
			interval = time.Minute
		}
		go userService.StartOTPPurgeJob(ctx, interval)
	}

	router, err := routes.SetupRoutes(ctx, cfg, routes.Services{
		Users:  userService,
		Health: userService,
		Broker: broker,
	})
	if err != nil {
		logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
			zap.String("graphql_endpoint", "http://"+addr+"/graphql"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}

// newPublisher connects to the MQTT broker when one is configured. Events are
// dropped, and broker is nil, when no broker is set or the connection fails.
func newPublisher(cfg *config.Config) (publisher events.Publisher, broker routes.BrokerStatus, closeFn func()) {
	if cfg.Events.Broker == "" {
		return events.NopPublisher{}, nil, func() {}
	}

	client := mqtt.NewClient(&mqtt.Config{
		Broker:               cfg.Events.Broker,
		ClientID:             cfg.Events.ClientID,
		Username:             cfg.Events.Username,
		Password:             cfg.Events.Password,
		CleanSession:         true,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
		PublishTimeout:       5 * time.Second,
	}, logger.Logger)

	if err := client.Connect(); err != nil {
		logger.Warn("Account events disabled", zap.Error(err))
		return events.NopPublisher{}, nil, func() {}
	}

	return events.NewMQTTPublisher(client, cfg.Events.TopicPrefix), client, client.Disconnect
}
