// @title        lumen-wallet API
// @version      1.0
// @description  Custodial Solana wallet: sealed keys, authorized signing.
// @BasePath     /
// @securityDefinitions.basic  BasicAuth
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/AlexZinkM/lumen-wallet/docs"
	"github.com/AlexZinkM/lumen-wallet/internal/api"
	"github.com/AlexZinkM/lumen-wallet/internal/auth"
	"github.com/AlexZinkM/lumen-wallet/internal/client"
	"github.com/AlexZinkM/lumen-wallet/internal/config"
	"github.com/AlexZinkM/lumen-wallet/internal/crypto"
	"github.com/AlexZinkM/lumen-wallet/internal/handler"
	"github.com/AlexZinkM/lumen-wallet/internal/logging"
	"github.com/AlexZinkM/lumen-wallet/internal/storage/sqlite"
	"github.com/AlexZinkM/lumen-wallet/wallet"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal error:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("config loaded",
		zap.String("addr", cfg.Addr()),
		zap.String("db_path", cfg.DBPath),
		zap.String("rpc_url", cfg.SolanaRPCURL),
		zap.Duration("ledger_timeout", cfg.LedgerTimeout),
		zap.Bool("price_feed", cfg.PriceFeedEnabled),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and run migrations.
	db, err := sqlite.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", zap.Error(closeErr))
		}
	}()

	if err := sqlite.RunMigrations(db.Writer); err != nil {
		return err
	}
	logger.Info("migrations complete")

	// 4. Wire clients, services and handlers.
	solanaClient := client.NewSolanaClient(cfg.SolanaRPCURL)

	var prices wallet.PriceFeed
	if cfg.PriceFeedEnabled {
		prices = client.NewCoinGeckoClient(cfg.PriceFeedURL)
	}

	walletSvc := wallet.NewService(
		sqlite.NewWalletRepo(db),
		solanaClient,
		solanaClient,
		prices,
		wallet.Options{
			LedgerTimeout:  cfg.LedgerTimeout,
			FaucetLamports: cfg.FaucetLamports,
			HistoryLimit:   cfg.HistoryLimit,
			PayCooldown:    cfg.PayCooldown,
			Scrypt:         crypto.Params{N: cfg.ScryptN},
			PriceCurrency:  cfg.PriceCurrency,
		},
		logger.Named("wallet"),
	)

	router := api.NewRouter(api.RouterConfig{
		Wallet:           handler.NewWalletHandler(walletSvc, logger.Named("handler")),
		Auth:             auth.NewAuthenticator(sqlite.NewUserRepo(db), logger.Named("auth")),
		Health:           db,
		Logger:           logger.Named("http"),
		SendPerMinute:    cfg.SendRatePerMinute,
		BalancePerMinute: cfg.BalanceRatePerMinute,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.LedgerTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 5. Wait for shutdown signal or a server failure.
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}
