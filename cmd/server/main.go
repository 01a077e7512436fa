package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/vendacell/fiado-engine/internal/config"
	"github.com/vendacell/fiado-engine/internal/handler"
	"github.com/vendacell/fiado-engine/internal/repository"
	"github.com/vendacell/fiado-engine/internal/service"
	"github.com/vendacell/fiado-engine/pkg/response"
)

func main() {
	// Load .env before viper reads the environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	debtRepo := repository.NewDebtRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	storeRepo := repository.NewStoreRepository(db)

	// Initialize services
	ledgerService := service.NewLedgerService(debtRepo, paymentRepo, redisClient, cfg)
	commissionService := service.NewCommissionService(storeRepo, redisClient, cfg)
	feeCalculator := service.NewFeeCalculator(cfg)

	ledgerHandler := handler.NewLedgerHandler(ledgerService, commissionService, feeCalculator)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(ledgerHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(ledgerHandler *handler.LedgerHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/sales/values", ledgerHandler.ComputeSaleValues).Methods("POST")
	api.HandleFunc("/stores/{storeId}/commission", ledgerHandler.GetCommission).Methods("GET")
	api.HandleFunc("/debts", ledgerHandler.CreateDebt).Methods("POST")
	api.HandleFunc("/debts/statistics", ledgerHandler.GetStatistics).Methods("GET")
	api.HandleFunc("/debts/{debtId}", ledgerHandler.GetDebt).Methods("GET")
	api.HandleFunc("/debts/{debtId}/payments", ledgerHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/debts/{debtId}/payments", ledgerHandler.ListPayments).Methods("GET")

	return router
}
