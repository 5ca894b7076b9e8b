package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/abhijithgoodboi/petclinic/internal/availability"
	"github.com/abhijithgoodboi/petclinic/internal/config"
	"github.com/abhijithgoodboi/petclinic/internal/diagnosis"
	"github.com/abhijithgoodboi/petclinic/internal/httpapi"
	"github.com/abhijithgoodboi/petclinic/internal/store"
	"github.com/abhijithgoodboi/petclinic/internal/store/memory"
	"github.com/abhijithgoodboi/petclinic/internal/store/postgres"
	"github.com/abhijithgoodboi/petclinic/internal/telemetry"
	"github.com/abhijithgoodboi/petclinic/internal/triage"
)

func main() {
	cfg := config.Load()

	shutdownTelemetry := telemetry.Setup("triage-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	var st store.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer pool.Close()
		st = postgres.NewStore(pool, postgres.Options{AvgWaitMinutes: cfg.AvgWaitMinutes})
	} else {
		log.Printf("no DB_DSN set, using in-memory store")
		st = memory.NewStore(memory.Options{AvgWaitMinutes: cfg.AvgWaitMinutes})
	}

	var library *triage.PatternLibrary
	if cfg.PatternLibraryPath != "" {
		loaded, err := triage.LoadPatternLibrary(cfg.PatternLibraryPath, cfg.AssessmentPath)
		if err != nil {
			log.Fatalf("pattern library: %v", err)
		}
		library = loaded
	}
	reasoner := triage.NewReasoningClassifier(triage.ReasoningConfig{
		APIKey:  cfg.ReasoningAPIKey,
		BaseURL: cfg.ReasoningBaseURL,
		Model:   cfg.ReasoningModel,
		Timeout: cfg.ReasoningTimeout,
	})
	engine := triage.DefaultEngine(library, reasoner)

	var classifier diagnosis.ImageClassifier
	if cfg.ModelServiceURL != "" {
		classifier = diagnosis.NewHTTPClassifier(cfg.ModelServiceURL, cfg.ModelTimeout)
	}

	handler := httpapi.NewHandler(st, engine, httpapi.Options{
		Calendar:        availability.NewCalendar(cfg.ClinicOffDays, cfg.ClinicHolidays),
		Classifier:      classifier,
		SeriousDiseases: cfg.SeriousDiseases,
	})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
	})
	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(handler.Routes())), "triage-service")

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("triage-service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	go func() {
		if cfg.NoShowGrace <= 0 || cfg.NoShowInterval <= 0 {
			return
		}
		ticker := time.NewTicker(cfg.NoShowInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			count, err := st.AutoNoShow(ctx, time.Now().UTC().Add(-cfg.NoShowGrace), cfg.NoShowBatchSize)
			cancel()
			if err != nil {
				log.Printf("auto no-show error: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("auto no-show processed %d appointments", count)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
