package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/nikolayk812/pizzeria-cart/internal/config"
	"github.com/nikolayk812/pizzeria-cart/internal/customization"
	"github.com/nikolayk812/pizzeria-cart/internal/httpapi"
	"github.com/nikolayk812/pizzeria-cart/internal/invoice"
	"github.com/nikolayk812/pizzeria-cart/internal/logging"
	"github.com/nikolayk812/pizzeria-cart/internal/menu"
	"github.com/nikolayk812/pizzeria-cart/internal/migrations"
	"github.com/nikolayk812/pizzeria-cart/internal/payment"
	"github.com/nikolayk812/pizzeria-cart/internal/port"
	"github.com/nikolayk812/pizzeria-cart/internal/repository"
	"github.com/nikolayk812/pizzeria-cart/internal/totals"
)

func main() {
	configPath := flag.String("config", "configs/base.yaml", "path to the yaml config file")
	envPath := flag.String("env", ".env", "optional dotenv file with STOREFRONT_ overrides")
	flag.Parse()

	// variables already set in the process environment win over the file
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal(fmt.Errorf("godotenv.Load: %w", err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger := logging.Init("storefront", cfg.App.LogFile, cfg.App.LogLevel)

	m, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		return fmt.Errorf("menu.Load: %w", err)
	}
	if m.IsEmpty() {
		logger.Warn("menu is empty, nothing can be added to carts", "path", cfg.Menu.Path)
	}

	calc, err := totals.NewCalculator(totals.Policy{
		Currency:     cfg.Currency(),
		DiscountRate: cfg.DiscountRate(),
		TaxRate:      cfg.TaxRate(),
	})
	if err != nil {
		return fmt.Errorf("totals.NewCalculator: %w", err)
	}

	repo, cleanup, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := httpapi.NewServer(httpapi.Deps{
		Repo:    repo,
		Menu:    m,
		Catalog: customization.Default(),
		Calc:    calc,
		Issuer:  invoice.NewIssuer(cfg.Invoice.Prefix, calc),
		Payee: payment.Payee{
			VPA:          cfg.Payment.PayeeVPA,
			Name:         cfg.Payment.PayeeName,
			MerchantCode: cfg.Payment.MerchantCode,
			URL:          cfg.Payment.URL,
		},
		Currency: cfg.Currency(),
		Log:      logging.New("http"),

		CORSOrigins: cfg.App.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", cfg.App.HTTPAddr, "postgres", cfg.Postgres.DSN != "")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}

// openRepository keeps carts in Postgres when a DSN is configured and in
// memory otherwise.
func openRepository(ctx context.Context, cfg config.Config) (port.CartRepository, func(), error) {
	if cfg.Postgres.DSN == "" {
		return repository.NewMemoryCart(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := migrations.Up(ctx, db); err != nil {
		db.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("migrations.Up: %w", err)
	}

	return repository.NewCart(pool), func() {
		db.Close()
		pool.Close()
	}, nil
}
