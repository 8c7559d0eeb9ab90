package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energydash/internal/api"
	"energydash/internal/config"
	"energydash/internal/engine"
	"energydash/internal/logging"
	"energydash/internal/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("DASH_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logrus.WithError(err).Fatal("configure logging")
	}

	// 1. Server with no data: data endpoints answer 503 until the load finishes
	m := metrics.New()
	e := api.NewServer(cfg, m, log)
	h := api.NewHandler(cfg, nil, m, log)
	h.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// 2. Load the dataset in the background; failure is fatal
	g.Go(func() error {
		t0 := time.Now()
		ds, err := engine.Load(cfg.Dataset.Path, log)
		if err != nil {
			log.WithError(err).Fatal("load dataset")
		}
		h.SetData(ds)
		log.WithField("elapsed", time.Since(t0).String()).Info("dataset ready")
		return nil
	})

	// 3. Serve
	g.Go(func() error {
		log.WithField("addr", cfg.Server.Addr).Info("server listening (dataset loading in background)")
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
