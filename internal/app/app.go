// Package app wires the components together and owns the process
// lifecycle: the inbound update loop, the scheduler loop, the HTTP
// surface, and graceful shutdown.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/uthkarsh2006/contestbot/internal/broadcast"
	"github.com/uthkarsh2006/contestbot/internal/config"
	"github.com/uthkarsh2006/contestbot/internal/cycle"
	"github.com/uthkarsh2006/contestbot/internal/feed"
	"github.com/uthkarsh2006/contestbot/internal/scheduler"
	"github.com/uthkarsh2006/contestbot/internal/store"
	"github.com/uthkarsh2006/contestbot/internal/telegram"
)

type App struct {
	cfg  config.Config
	log  *zap.Logger
	bot  *tgbotapi.BotAPI
	repo store.Repo
}

// New authorizes the Bot API client. The token being rejected here is
// the only startup failure besides bad configuration.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	return &App{cfg: cfg, log: log, bot: bot}, nil
}

// Run starts every component and blocks until a shutdown signal.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting contest bot",
		zap.String("mode", a.cfg.RunMode),
		zap.String("http", a.cfg.HTTPAddr),
		zap.Int("daily_hour", a.cfg.DailyHour),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath, a.log)
	if err != nil {
		a.log.Error("open subscriber store failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("subscriber store ready", zap.String("path", a.cfg.DBPath))

	contests := feed.NewFile(a.cfg.ContestsPath, a.log)
	gateway := telegram.NewBotGateway(a.bot)
	engine := broadcast.NewEngine(repo, gateway, a.log, a.cfg.SendRate)
	sched := scheduler.New(a.log)
	driver := cycle.NewDriver(contests, engine, sched, a.log)
	router := telegram.NewRouter(gateway, a.log, repo, contests)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)

	updates, err := a.updateStream(mux)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)
	// Startup cycle covers restarts mid-day, then the driver re-arms
	// itself daily through the scheduler.
	go driver.Start(ctx, a.cfg.DailyHour)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			// Armed but unfired reminders are dropped here; the next
			// startup cycle re-arms whatever is still in the future.
			_ = a.repo.Close()
			return nil

		case upd := <-updates:
			router.HandleUpdate(ctx, upd)
		}
	}
}

// updateStream returns the inbound update channel: long-polling by
// default, or webhook delivery mounted on the shared mux. The polling
// channel tracks its own offset and backs off internally on transport
// errors, so no update is processed twice either way.
func (a *App) updateStream(mux *http.ServeMux) (tgbotapi.UpdatesChannel, error) {
	if a.cfg.RunMode == "webhook" {
		wh, err := tgbotapi.NewWebhook(a.cfg.WebhookURL)
		if err != nil {
			return nil, err
		}
		if _, err := a.bot.Request(wh); err != nil {
			return nil, err
		}

		updates := make(chan tgbotapi.Update, 64)
		mux.HandleFunc("/telegram/"+a.bot.Token, func(w http.ResponseWriter, req *http.Request) {
			upd, err := a.bot.HandleUpdate(req)
			if err != nil {
				a.log.Warn("bad webhook payload", zap.Error(err))
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			updates <- *upd
		})
		a.log.Info("webhook registered", zap.String("url", a.cfg.WebhookURL))
		return updates, nil
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	a.log.Info("long-polling for updates")
	return a.bot.GetUpdatesChan(u), nil
}

// handleHealthz is the liveness probe: static status plus the current
// subscriber count.
func (a *App) handleHealthz(w http.ResponseWriter, req *http.Request) {
	payload := map[string]any{"status": "ok"}
	if n, err := a.repo.Count(req.Context()); err == nil {
		payload["subscribers"] = n
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
