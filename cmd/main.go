// cmd/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rovshanmuradov/teleswap-backend/internal/api"
	"github.com/rovshanmuradov/teleswap-backend/internal/bot"
	"github.com/rovshanmuradov/teleswap-backend/internal/cache"
	"github.com/rovshanmuradov/teleswap-backend/internal/config"
	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/rovshanmuradov/teleswap-backend/internal/events"
	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"github.com/rovshanmuradov/teleswap-backend/pkg/simpleswap"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.LogLevel, cfg.IsDev()); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Sync()

	if err := run(cfg); err != nil {
		logging.Fatal("Service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	if cfg.IsDev() {
		db.LogSchema(conn, "users", "exchange_logs")
	}

	opts := []exchange.Option{exchange.WithRevShare(cfg.RevShareRate)}

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, exchange.WithLanguageCache(cache.NewLanguageCache(rdb, cfg.LanguageCacheTTL)))
		logging.Info("Language cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
		opts = append(opts, exchange.WithPublisher(pub))
	}

	svc := exchange.NewService(db.NewRepository(conn), cfg.PrimaryRate, opts...)

	swaps := simpleswap.NewClient(cfg.SimpleSwapBaseURL, cfg.SimpleSwapAPIKey)
	if !swaps.Enabled() {
		logging.Warn("SIMPLESWAP_API_KEY is not set, support replies use stored status only")
	}

	tg, err := bot.NewBot(cfg, svc, swaps)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	svc.AddPublisher(tg)
	go tg.Start()
	defer tg.Stop()

	router := api.NewRouter(svc, api.Options{
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		BotToken:        cfg.TelegramToken,
		InitDataTTL:     cfg.InitDataTTL,
		RequireInitData: cfg.RequireInitData,
		Ready:           func(ctx context.Context) error { return db.Ping(ctx, conn) },
		Debug:           cfg.IsDev(),
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server is running", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
