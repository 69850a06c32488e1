package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadmart/config"
	"leadmart/internal/database"
	"leadmart/internal/domain"
	"leadmart/internal/router"
	"leadmart/pkg/cloudinary"
	"leadmart/pkg/payment"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if cfg.Server.Env != domain.EnvProduction {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
	if err := cfg.Validate(log); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	database.SeedPlans(db, log)
	database.SeedAdmin(db, log, cfg.Admin.Email, cfg.Admin.Password)

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.WithError(err).Fatal("cloudinary init failed")
	}

	var provider payment.Provider
	if cfg.Stripe.SecretKey != "" {
		provider = payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.Currency)
		log.Info("stripe payments enabled")
	} else {
		provider = &payment.StubProvider{}
		log.Warn("STRIPE_SECRET_KEY not set; using stub payment provider")
	}

	engine := router.Setup(cfg, db, cloud, provider, log)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server shutdown failed")
	}
	log.Info("server stopped")
}
