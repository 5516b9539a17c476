package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/bot"
	"github.com/Palindrome-NT/attendance-logs-script/config"
	"github.com/Palindrome-NT/attendance-logs-script/internal/handlers"
	"github.com/Palindrome-NT/attendance-logs-script/internal/obs"
	"github.com/Palindrome-NT/attendance-logs-script/internal/repository"
	"github.com/Palindrome-NT/attendance-logs-script/internal/services"
	"github.com/Palindrome-NT/attendance-logs-script/internal/state"
)

func main() {
	log := obs.Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	obs.InitMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	var notifier services.CycleNotifier
	if cfg.TelegramBotToken != "" {
		if err := bot.Init(cfg.TelegramBotToken, cfg.AuthorizedChatID); err != nil {
			log.Warn("telegram bot init failed, alerts disabled", "error", err)
		} else {
			bot.StartPolling()
			notifier = bot.NewNotifier()
		}
	}

	store, err := state.New(cfg.StateDir)
	if err != nil {
		log.Error("failed to open state store", "dir", cfg.StateDir, "error", err)
		os.Exit(1)
	}

	shiftRepo := repository.NewRESTShiftRepository(cfg.ShiftAPIURL, cfg.BranchID, cfg.CompanyID, cfg.APIKey)
	delivery := repository.NewRESTDeliveryRepository(cfg.APIURL)

	terminal, bridgeServer := initTerminal(cfg)
	if bridgeServer != nil {
		go func() {
			log.Info("punch bridge listening", "addr", cfg.ListenAddr)
			if err := bridgeServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("punch bridge failed", "error", err)
				cancel()
			}
		}()
	}

	if cfg.MetricsAddr != "" {
		go func() {
			log.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, obs.MetricsHandler()); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	svc := services.NewSyncService(
		terminal,
		services.NewShiftConfigStore(shiftRepo, store),
		delivery,
		store,
		notifier,
		services.Options{
			CompanyID:  cfg.CompanyID,
			BranchID:   cfg.BranchID,
			DeviceName: cfg.DeviceName,
			StartFrom:  cfg.StartDate,
		},
	)

	runSyncLoop(ctx, svc, cfg.CycleInterval)

	if bridgeServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := bridgeServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("punch bridge shutdown error", "error", err)
		}
	}

	log.Info("worker stopped")
}

// initTerminal selects the punch source: the HTTP push bridge vs a replay
// file for testing and backfills.
func initTerminal(cfg *config.Config) (repository.Terminal, *http.Server) {
	if cfg.PunchSource != "bridge" {
		return repository.NewFileTerminal(cfg.PunchSource), nil
	}

	buf := repository.NewPunchBuffer()
	handler := handlers.NewPunchHandler(buf)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/punch", handler.HandlePunch)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return buf, server
}

// runSyncLoop runs one cycle immediately, then one per interval until the
// context is cancelled. Cycles never overlap.
func runSyncLoop(ctx context.Context, svc *services.SyncService, interval time.Duration) {
	log := obs.Logger()

	cycle := func() {
		if err := svc.RunCycle(ctx); err != nil {
			log.Error("sync cycle failed", "error", err)
		}
	}

	cycle()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycle()
		}
	}
}
