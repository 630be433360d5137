package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"hotel/internal/app"
	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/pkg/metrics"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if cfg.IsProdLike() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Connect(cfg.DB.URL, log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	if cfg.Gateway.TmnCode == "" || cfg.Gateway.HashSecret == "" {
		log.Warn("VNP_TMN_CODE/VNP_HASH_SECRET not set; gateway payments are disabled")
	}

	router := app.NewRouter(app.Deps{
		Config:   cfg,
		DB:       db,
		Log:      log,
		Metrics:  metrics.New(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.App.Port, "env": cfg.App.Env}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
