package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathima-sithara/chatroom-service/internal/api"
	"github.com/fathima-sithara/chatroom-service/internal/auth"
	"github.com/fathima-sithara/chatroom-service/internal/config"
	"github.com/fathima-sithara/chatroom-service/internal/core"
	"github.com/fathima-sithara/chatroom-service/internal/events"
	"github.com/fathima-sithara/chatroom-service/internal/logger"
	"github.com/fathima-sithara/chatroom-service/internal/metrics"
	"github.com/fathima-sithara/chatroom-service/internal/persistence"
	"github.com/fathima-sithara/chatroom-service/internal/ws"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is required")
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	metrics.Init()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				zl.Warnw("metrics listener stopped", "err", err)
			}
		}()
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	sink, err := persistence.New(startupCtx, cfg.Persistence)
	cancelStartup()
	if err != nil {
		log.Fatalf("persistence init: %v", err)
	}

	registry := ws.NewRegistry()
	directory := auth.NewDirectory()

	var mirror core.EventMirror
	var producer *events.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, zl)
		mirror = producer
	}

	hub := core.NewHub(core.HubConfig{
		RetentionWindow: cfg.RetentionWindow,
		DefaultRoom:     cfg.Chat.DefaultRoom,
	}, registry, directory, mirror, zl)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	state, err := sink.Load(loadCtx)
	cancelLoad()
	if err != nil {
		zl.Warnw("saved state unreadable, starting empty", "err", err)
	} else {
		hub.ImportState(state)
	}

	validator := auth.NewValidator(cfg.JWT.Secret)
	wsrv := ws.NewServer(hub, registry, validator, directory, ws.ConnOptions{
		PingInterval:   cfg.PingInterval,
		WriteDeadline:  cfg.WriteDeadline,
		ReadDeadline:   cfg.ReadDeadline,
		MaxMessageSize: cfg.WS.MaxMessageSizeBytes,
	}, zl)

	app := api.NewServer(hub, wsrv)

	errs := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		zl.Infow("starting chatroom service", "addr", addr)
		errs <- app.Listen(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case e := <-errs:
		zl.Fatalw("server error", "err", e)
	case s := <-sig:
		zl.Infow("signal received", "signal", s.String())
	}

	if err := app.Shutdown(); err != nil {
		zl.Warnw("fiber shutdown", "err", err)
	}

	saveCtx, cancelSave := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSave()
	if err := sink.Save(saveCtx, hub.ExportState()); err != nil {
		zl.Errorw("state save failed", "err", err)
	}
	if producer != nil {
		_ = producer.Close()
	}
	zl.Info("shut down")
}
