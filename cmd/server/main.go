// Package main is the entry point for the SSOMA dashboard backend server.
// It provides a REST API for safety, health, and environment records
// (ATS, PETAR, inspections, HHC training, PMA evidence, activities and
// programs), evidence uploads through a provider chain, and accident
// rate indices aggregated from yearly counters.
//
// Architecture:
//   - Record tables live in Postgres; each table is created on demand
//   - Yearly stats counters live in Redis; indices are derived on read
//   - Evidence uploads are compressed, renamed deterministically, and
//     routed to Drive, S3-compatible blob storage, or local disk
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/config"
	"github.com/consorciovial/ssoma-server/internal/database"
	"github.com/consorciovial/ssoma-server/internal/handlers"
	"github.com/consorciovial/ssoma-server/internal/middleware"
	"github.com/consorciovial/ssoma-server/internal/models"
	"github.com/consorciovial/ssoma-server/internal/services"
	"github.com/consorciovial/ssoma-server/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting SSOMA Server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"upload_backend", storage.Select(cfg).String(),
	)

	// Initialize database connection pool
	db, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis (stats counters)
	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Initialize services
	activitySvc := services.NewActivityService(db, sugar)
	inspectionSvc := services.NewInspectionService(db, sugar)
	hhcSvc := services.NewHhcService(db, sugar)
	atsSvc := services.NewAtsService(db, sugar)
	petarSvc := services.NewPetarService(db, sugar)
	pmaSvc := services.NewPmaService(db, sugar)
	monthlySvc := services.NewMonthlyProgramService(db, sugar)
	annualSvc := services.NewAnnualProgramService(db, sugar)
	statsSvc := services.NewStatsService(rdb, sugar)
	userSvc := services.NewUserService(db, cfg.JWTSecret, sugar)

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(storage.NewChain(cfg, sugar), sugar)
	statsHandler := handlers.NewStatsHandler(statsSvc, sugar)
	authHandler := handlers.NewAuthHandler(userSvc, sugar)
	programHandler := handlers.NewProgramHandler(monthlySvc, sugar)
	healthHandler := handlers.NewHealthHandler(db, rdb, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		// Record endpoints, one list/action pair per table
		r.Route("/records", func(r chi.Router) {
			mountRecords(r, "activities", handlers.NewRecordHandler[models.Activity]("activities", activitySvc, sugar))
			mountRecords(r, "inspections", handlers.NewRecordHandler[models.Inspection]("inspections", inspectionSvc, sugar))
			mountRecords(r, "hhc", handlers.NewRecordHandler[models.Hhc]("hhc", hhcSvc, sugar))
			mountRecords(r, "ats", handlers.NewRecordHandler[models.Ats]("ats", atsSvc, sugar))
			mountRecords(r, "petar", handlers.NewRecordHandler[models.Petar]("petar", petarSvc, sugar))
			mountRecords(r, "pma", handlers.NewRecordHandler[models.Pma]("pma", pmaSvc, sugar))
			mountRecords(r, "monthly_program", handlers.NewRecordHandler[models.MonthlyProgramEntry]("monthly_program", monthlySvc, sugar))
			mountRecords(r, "annual_program", handlers.NewRecordHandler[models.AnnualProgramEntry]("annual_program", annualSvc, sugar))

			r.Post("/monthly_program/replace", programHandler.ReplaceMonth)
		})

		// Evidence upload
		r.Post("/upload", uploadHandler.Upload)

		// Yearly counters and derived indices
		r.Route("/stats", func(r chi.Router) {
			r.Get("/{year}", statsHandler.Get)
			r.Put("/{year}", statsHandler.Put)
			r.Get("/{year}/indices", statsHandler.Indices)
		})

		// Accounts
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}

// mountRecords wires the GET list and POST action endpoints for one
// record type under /records/{name}.
func mountRecords[T any](r chi.Router, name string, h *handlers.RecordHandler[T]) {
	r.Get("/"+name, h.List)
	r.Post("/"+name, h.Handle)
}
