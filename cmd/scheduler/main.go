package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/vendacell/fiado-engine/internal/config"
	"github.com/vendacell/fiado-engine/internal/repository"
	"github.com/vendacell/fiado-engine/internal/service"

	"github.com/robfig/cron/v3"
)

func main() {
	log.Println("Starting fiado scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ledgerService := service.NewLedgerService(
		repository.NewDebtRepository(db),
		repository.NewPaymentRepository(db),
		redisClient,
		cfg,
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	setupCronJobs(c, ledgerService)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, ledger *service.LedgerService) {
	// Daily scan for debts behind their payment cadence (runs at midnight)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		scanBehindSchedule(ledger)
	})
	if err != nil {
		log.Printf("Error scheduling behind-schedule scan: %v", err)
	}

	// Hourly refresh of the aggregate statistics cache
	_, err = c.AddFunc("0 0 * * * *", func() {
		refreshStatistics(ledger)
	})
	if err != nil {
		log.Printf("Error scheduling statistics refresh: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func scanBehindSchedule(ledger *service.LedgerService) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("Running daily behind-schedule scan...")

	behind, err := ledger.ListBehindSchedule(ctx)
	if err != nil {
		log.Printf("Behind-schedule scan failed: %v", err)
		return
	}

	for _, detail := range behind {
		log.Printf("Debt %s (%s, sale %s) is behind schedule: paid %s of %s",
			detail.Debt.ID,
			detail.Debt.CustomerName,
			detail.Debt.SaleRef,
			detail.TotalPaid,
			detail.Debt.TotalAmount,
		)
	}

	log.Printf("Behind-schedule scan done, %d debt(s) flagged", len(behind))
}

func refreshStatistics(ledger *service.LedgerService) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := ledger.GetStatistics(ctx)
	if err != nil {
		log.Printf("Statistics refresh failed: %v", err)
		return
	}

	log.Printf("Statistics refreshed: %d open / %d settled, outstanding %s",
		stats.OpenCount, stats.SettledCount, stats.OutstandingBalance)
}
