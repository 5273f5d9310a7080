package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"acgl-management-api/internal/config"
	"acgl-management-api/internal/database"
	"acgl-management-api/internal/handler"
	"acgl-management-api/internal/middleware"
	"acgl-management-api/internal/notification"
	"acgl-management-api/internal/repository"
	"acgl-management-api/internal/router"
	"acgl-management-api/internal/service"
	servicenotification "acgl-management-api/internal/service/notification"
	"acgl-management-api/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database (creates tables and seed rows on first run)
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	logger := log.Default()

	// Optional change-notification webhook
	var notifier service.NotificationService
	if cfg.Notification.URL != "" {
		client := notification.NewNotifierWithConfig(notification.NotificationConfig{
			URL:            cfg.Notification.URL,
			Timeout:        cfg.Notification.Timeout,
			RetryAttempts:  cfg.Notification.RetryAttempts,
			RetryDelay:     cfg.Notification.RetryDelay,
			MaxPayloadSize: cfg.Notification.MaxPayloadSize,
		})
		notifier = servicenotification.NewServiceAdapter(client)
	}

	// Services
	sessions := session.NewStore(cfg.Session.TTL)
	inventory := service.NewInventoryFromDB(db, notifier, logger)
	auth := service.NewAuth(repository.NewUserStore(db), sessions, logger)

	// Handlers
	entityHandler := handler.NewEntityHandler(inventory, logger)
	authHandler := handler.NewAuthHandler(auth, logger)
	lookupHandler := handler.NewLookupHandler(repository.NewLookupStore(db), logger)

	// Session gate and router
	authMW := middleware.NewAuthMiddleware(auth, logger)
	r := router.NewRouter(entityHandler, authHandler, lookupHandler, authMW, cfg)

	// Wrap router with logging middleware
	loggingMW := middleware.NewLoggingMiddleware(logger)
	finalHandler := loggingMW.LogRequests(r)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        finalHandler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Channel to listen for interrupt signal to gracefully shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %d (db=%s)", cfg.Port, cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-done
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Security.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server exited gracefully")
	}
}
