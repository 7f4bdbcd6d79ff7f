package main

import (
	"net/http"
	"os"
	"time"

	"apnifarm-api/internal/adapters/auth/firebase"
	pg "apnifarm-api/internal/adapters/storage/postgres"
	"apnifarm-api/internal/config"
	"apnifarm-api/internal/domain/herd"
	"apnifarm-api/internal/platform/logger"
	"apnifarm-api/internal/ports/auth"
	"apnifarm-api/internal/router"
)

// @title ApniFarm API
// @version 1.0
// @description Backend multi-tenant de gestión de granjas: registro de animales, genealogía y producción de leche.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	opts := router.Options{
		StatusPolicy: herd.StatusPolicy{
			MaleDefault:   herd.Status(cfg.DefaultMaleStatus),
			FemaleDefault: herd.Status(cfg.DefaultFemaleStatus),
		},
		Log: log,
	}

	if cfg.DatabaseURL != "" {
		db, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("db open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		if err := pg.Migrate(db); err != nil {
			log.Error("migrate failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	}

	// Sin firebase configurado arranca en modo dev (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if cfg.Firebase.Configured() {
		client := firebase.NewClient(firebase.Config{
			BaseURL: cfg.Firebase.BaseURL,
			APIKey:  cfg.Firebase.APIKey,
			Timeout: cfg.Firebase.Timeout,
		})
		verifier = firebase.NewVerifier(client, cfg.Firebase.CacheTTL)
	} else {
		log.Warn("firebase not configured, running in dev auth mode", nil)
	}
	opts.AuthVerifier = verifier

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr, "db": cfg.DatabaseURL != ""})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
