package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/enablehub/enable-api/internal/config"
	"github.com/enablehub/enable-api/internal/domain/auth"
	"github.com/enablehub/enable-api/internal/domain/certificate"
	"github.com/enablehub/enable-api/internal/domain/customer"
	"github.com/enablehub/enable-api/internal/domain/ledger"
	"github.com/enablehub/enable-api/internal/domain/message"
	moduleDomain "github.com/enablehub/enable-api/internal/domain/module"
	"github.com/enablehub/enable-api/internal/domain/notification"
	"github.com/enablehub/enable-api/internal/domain/schulung"
	"github.com/enablehub/enable-api/internal/middleware"
	"github.com/enablehub/enable-api/internal/pkg/database"
	"github.com/enablehub/enable-api/internal/pkg/jwt"
	"github.com/enablehub/enable-api/internal/pkg/logger"
	pkgresponse "github.com/enablehub/enable-api/internal/pkg/response"
	"github.com/enablehub/enable-api/internal/realtime"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting EnableHub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Repositories ----------
	customerRepo := customer.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	moduleRepo := moduleDomain.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	messageRepo := message.NewRepository(db)
	schulungRepo := schulung.NewRepository(db)
	certificateRepo := certificate.NewRepository(db)
	adminRepo := auth.NewAdminRepository(db)

	// ---------- WebSocket hub ----------
	hub := realtime.NewHub(redisClient)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Services ----------
	notificationService := notification.NewService(notificationRepo, realtime.NewNotificationPublisher(hub))
	messageService := message.NewService(messageRepo, &messageNotifier{svc: notificationService})
	customerService := customer.NewService(customerRepo, messageService)
	ledgerService := ledger.NewService(ledgerRepo)
	moduleService := moduleDomain.NewService(moduleRepo,
		moduleDomain.NewNotificationAdapter(notificationService), messageService)
	schulungService := schulung.NewService(schulungRepo, &schulungNotifier{svc: notificationService}, messageService)
	certificateService := certificate.NewService(certificateRepo)
	authService := auth.NewService(customerRepo, adminRepo, jwtService, redisClient)

	// ---------- Handlers ----------
	customerHandler := customer.NewHandler(customerService)
	ledgerHandler := ledger.NewHandler(ledgerService)
	moduleHandler := moduleDomain.NewHandler(moduleService)
	notificationHandler := notification.NewHandler(notificationService)
	messageHandler := message.NewHandler(messageService)
	schulungHandler := schulung.NewHandler(schulungService)
	certificateHandler := certificate.NewHandler(certificateService)
	authHandler := auth.NewHandler(authService)

	realtimeHandler := realtime.NewHandler(hub, wsOriginChecker(cfg.AllowedOrigins))

	authMiddleware := middleware.Auth(jwtService)
	adminOnly := middleware.RequireAdmin()

	// Prune read notifications in the background
	cleanup := notification.NewCleanupJob(notificationRepo, 90)
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go cleanup.Start(cleanupCtx, 12*time.Hour)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		token := req.URL.Query().Get("token")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(realtimeHandler.WebSocket)).ServeHTTP(w, req)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes())
		mountCustomerRoutes(r,
			customerHandler.Routes(authMiddleware, adminOnly),
			ledgerHandler.Routes(authMiddleware, adminOnly),
			messageHandler.Routes(authMiddleware),
			schulungHandler.AssignmentRoutes(authMiddleware, adminOnly),
		)
		r.Mount("/modules", moduleHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/schulungen", schulungHandler.CatalogRoutes(authMiddleware, adminOnly))
		r.Mount("/certificates", certificateHandler.Routes(authMiddleware, adminOnly))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// mountCustomerRoutes mounts the customer router next to the per-customer
// resource routers nested under /customers/{id}. The nested param mounts and
// the customer router's catch-all must coexist on the same /customers prefix.
func mountCustomerRoutes(r chi.Router, customers, points, messages, schulungen http.Handler) {
	r.Mount("/customers", customers)
	r.Mount("/customers/{id}/points", points)
	r.Mount("/customers/{id}/messages", messages)
	r.Mount("/customers/{id}/schulungen", schulungen)
}

// wsOriginChecker allows websocket upgrades from the configured origins
func wsOriginChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Adapter implementations to bridge interface mismatches

// messageNotifier adapts the notification service to message.Notifier
type messageNotifier struct {
	svc *notification.Service
}

func (a *messageNotifier) NotifyMessageReceived(ctx context.Context, customerID uuid.UUID, subject string) error {
	_, err := a.svc.NotifyMessageReceived(ctx, customerID, subject)
	return err
}

// schulungNotifier adapts the notification service to schulung.Notifier
type schulungNotifier struct {
	svc *notification.Service
}

func (a *schulungNotifier) NotifySchulungAssigned(ctx context.Context, customerID uuid.UUID, schulungTitle string) error {
	_, err := a.svc.NotifySchulungAssigned(ctx, customerID, schulungTitle)
	return err
}
