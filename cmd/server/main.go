package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountrepo "admin-console/api/internal/account/repository"
	"admin-console/api/internal/audit"
	auditrepo "admin-console/api/internal/audit/repository"
	"admin-console/api/internal/auth"
	"admin-console/api/internal/config"
	"admin-console/api/internal/db"
	"admin-console/api/internal/security"
	"admin-console/api/internal/server"
	sessiondomain "admin-console/api/internal/session/domain"
	sessionrepo "admin-console/api/internal/session/repository"
	"admin-console/api/internal/telemetry"
	telemetryotel "admin-console/api/internal/telemetry/otel"
	userrepo "admin-console/api/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	// Refusing to start without a signing secret beats issuing unsigned tokens.
	codec, err := security.NewCodec(cfg.SessionSecrets())
	if err != nil {
		log.Fatalf("session secrets: %v", err)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "admin-console-api", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	emitter := telemetryotel.NewEventEmitter(providers.LoggerProvider)

	accounts := accountrepo.NewPostgresRepository(database)
	users := userrepo.NewPostgresRepository(database)
	sessions := sessionrepo.NewPostgresRepository(database)
	auditLog := audit.NewLogger(auditrepo.NewPostgresRepository(database))

	hasher := security.NewHasher(cfg.BcryptCost)
	authSvc := auth.NewService(accounts, users, sessions, hasher, codec,
		cfg.SessionTTL(), cfg.RegistrationsEnabled)

	cookie := sessiondomain.ResolveCookieSpec(sessiondomain.CookieConfig{
		Production:   cfg.Production(),
		Name:         cfg.SessionName,
		TTL:          cfg.SessionTTL(),
		RefreshEvery: cfg.SessionRefreshEvery(),
		SameSite:     cfg.SessionSameSite,
		Domain:       cfg.SessionDomain,
	})

	srv := server.New(authSvc, sessions, accounts, codec, cookie, auditLog, emitter, cfg.ClientOrigin)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async telemetry drain before tearing down the exporters.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
