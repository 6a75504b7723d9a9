package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thewug/eventmaster/auth"
	"github.com/thewug/eventmaster/config"
	"github.com/thewug/eventmaster/store"
	"github.com/thewug/eventmaster/web"
)

func main() {
	settings_path := flag.String("settings", "./settings.json", "path to the settings file")
	flag.Parse()

	settings, err := config.Load(*settings_path)
	if err != nil {
		log.Fatal("Load settings: ", err.Error())
	}

	level, _ := settings.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	session_key := settings.SessionKey
	if session_key == "" {
		// sessions will not survive a restart, which is fine for a one-day event
		session_key, err = auth.RandomKey()
		if err != nil {
			log.Fatal("Generate session key: ", err.Error())
		}
	}
	if err := auth.Init(session_key, settings.SessionCoder, settings.AdminPassword); err != nil {
		log.Fatal("Init sessions: ", err.Error())
	}

	pick_rng, err := store.NewRNG(settings.Seed)
	if err != nil {
		log.Fatal("Seed draw: ", err.Error())
	}
	roll_rng, err := store.NewRNG(0)
	if err != nil {
		log.Fatal("Seed roll: ", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := web.NewRaffleHub(logger)
	go hub.Run(ctx)

	event := store.NewEvent(store.EventOptions{
		Rng:     pick_rng,
		RollRng: roll_rng,
		Roll: store.Roll{
			Duration: settings.RollDuration.Duration,
			Tick:     settings.RollTick.Duration,
		},
		Listener: hub,
	})
	defer event.Close()

	server := &web.Server{
		Event:        event,
		Hub:          hub,
		DefaultPrize: settings.DefaultPrize,
		Logger:       logger,
	}

	srv := &http.Server{
		Addr:    settings.Addr,
		Handler: server.Handler(),
	}

	go func() {
		logger.Info("event master listening", "addr", settings.Addr, "operator_login", auth.Required())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ListenAndServe", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdown_ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown_ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
