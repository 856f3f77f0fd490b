package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danesper/rewards-backend/internal/config"
	"github.com/danesper/rewards-backend/internal/handler"
	"github.com/danesper/rewards-backend/internal/logging"
	"github.com/danesper/rewards-backend/internal/middleware"
	"github.com/danesper/rewards-backend/internal/repository"
	"github.com/danesper/rewards-backend/internal/service"
	"github.com/danesper/rewards-backend/internal/service/withdrawal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("rewards-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(cfg, db),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func buildRouter(cfg *config.Config, db *sql.DB) http.Handler {
	ledgerRepo := repository.NewLedgerRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	bankAccountRepo := repository.NewBankAccountRepository(db)
	userRepo := repository.NewUserRepository(db)

	rewardsSvc := service.NewRewardsService(ledgerRepo)
	bankAccountSvc := service.NewBankAccountService(bankAccountRepo)
	withdrawalSvc := withdrawal.NewService(withdrawalRepo, ledgerRepo, bankAccountRepo, db, cfg)

	rewardsHdl := handler.NewRewardsHandler(rewardsSvc, !cfg.IsProduction())
	withdrawalHdl := handler.NewWithdrawalHandler(withdrawalSvc)
	bankAccountHdl := handler.NewBankAccountHandler(bankAccountSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/rewards/summary", rewardsHdl.Summary)
	api.HandleFunc("GET /api/v1/rewards/transactions", rewardsHdl.Transactions)
	api.HandleFunc("POST /api/v1/rewards/income", rewardsHdl.CreateIncome)
	api.HandleFunc("POST /api/v1/withdrawals", withdrawalHdl.Create)
	api.HandleFunc("GET /api/v1/withdrawals/{id}", withdrawalHdl.Get)
	api.HandleFunc("GET /api/v1/bank-accounts", bankAccountHdl.List)

	// Identity runs before Logging so request logs carry the resolved user.
	identity := middleware.Identity(cfg, userRepo)
	mux.Handle("/api/v1/", identity(middleware.Logging(api)))

	return middleware.Tracing(middleware.Recovery(mux))
}
