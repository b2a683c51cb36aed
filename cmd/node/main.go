package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/acmesa/branchsync/internal/client"
	clientrepository "github.com/acmesa/branchsync/internal/client/repository"
	"github.com/acmesa/branchsync/internal/config"
	"github.com/acmesa/branchsync/internal/order"
	orderrepository "github.com/acmesa/branchsync/internal/order/repository"
	"github.com/acmesa/branchsync/internal/product"
	productrepository "github.com/acmesa/branchsync/internal/product/repository"
	"github.com/acmesa/branchsync/internal/replication"
	replicationhttp "github.com/acmesa/branchsync/internal/replication/delivery/http"
	statushttp "github.com/acmesa/branchsync/internal/status/delivery/http"
	statusquery "github.com/acmesa/branchsync/internal/status/usecase/query"
	"github.com/acmesa/branchsync/internal/stock"
	stockrepository "github.com/acmesa/branchsync/internal/stock/repository"
	"github.com/acmesa/branchsync/internal/user"
	userdomain "github.com/acmesa/branchsync/internal/user/domain"
	userrepository "github.com/acmesa/branchsync/internal/user/repository"
	usercommand "github.com/acmesa/branchsync/internal/user/usecase/command"
	"github.com/acmesa/branchsync/pkg/auth"
	"github.com/acmesa/branchsync/pkg/database"
	"github.com/acmesa/branchsync/pkg/locker"
	"github.com/acmesa/branchsync/pkg/logger"
	"github.com/acmesa/branchsync/pkg/tracing"
)

const serviceName = "branchsync"

func main() {
	cfg := config.Load()

	// Initialize logger
	logger.Init(serviceName, cfg.NodeName, cfg.IsDevelopment())
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("node", cfg.NodeName).
		Str("environment", cfg.Environment).
		Strs("peers", cfg.Peers).
		Msg("Starting branch node")

	auth.Configure(cfg.JWTSecret, cfg.JWTExpires)

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName, cfg.NodeName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	// Connect to the node database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Repositories shared by replication, status and the admin seed
	clientRepo := clientrepository.NewGormClientRepository(db)
	productRepo := productrepository.NewGormProductRepository(db)
	userRepo := userrepository.NewGormUserRepository(db)
	stockRepo := stockrepository.NewGormStockRepository(db)
	orderRepo := orderrepository.NewGormOrderRepository(db)

	// Run migrations
	for _, migrate := range []func() error{
		clientRepo.AutoMigrate,
		productRepo.AutoMigrate,
		userRepo.AutoMigrate,
		stockRepo.AutoMigrate,
		orderRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	locks := locker.New()
	sync := replication.NewSynchronizer(cfg.Peers, cfg.ReplicationToken, cfg.ReplicationRetry)
	applier := replication.NewApplier(db, locks, clientRepo, productRepo, userRepo, stockRepo, orderRepo)

	seedAdmin(userRepo, sync, cfg)

	sync.Start()
	defer sync.Stop()

	// Initialize handlers with Wire DI
	userHandler, err := user.InitializeHTTPHandler(db, sync)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}
	authMiddleware := userHandler.Middleware()

	clientHandler, err := client.InitializeHTTPHandler(db, sync, authMiddleware)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize client handler")
	}
	productHandler, err := product.InitializeHTTPHandler(db, sync, authMiddleware)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize product handler")
	}
	stockHandler, err := stock.InitializeHTTPHandler(db, locks, sync, authMiddleware, cfg.NodeName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize stock handler")
	}
	orderHandler, err := order.InitializeHTTPHandler(db, locks, sync, authMiddleware, cfg.NodeName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize order handler")
	}

	statusHandler := statushttp.NewStatusHandler(
		statusquery.NewGetStatusHandler(cfg.NodeName, clientRepo, productRepo, userRepo, orderRepo, stockRepo, sync),
		authMiddleware,
	)
	replicaHandler := replicationhttp.NewReplicaHandler(applier, cfg.ReplicationToken)

	// Setup router
	router := mux.NewRouter()
	router.Use(metricsMiddleware)

	userHandler.RegisterRoutes(router)
	clientHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router)
	stockHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	statusHandler.RegisterRoutes(router)
	replicaHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", healthCheck(sqlDB)).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(c.Handler(router), "node-http"),
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced server shutdown")
	}
}

// seedAdmin ensures the configured admin account exists and broadcasts it so
// the peers converge on the same credentials.
func seedAdmin(repo userdomain.UserRepository, sync *replication.Synchronizer, cfg *config.Config) {
	if _, err := repo.FindByUsername(cfg.AdminUser); err == nil {
		return
	}

	admin, err := usercommand.NewCreateUserHandler(repo).Handle(usercommand.CreateUserCommand{
		Username: cfg.AdminUser,
		Password: cfg.AdminPassword,
		Role:     userdomain.RoleAdmin,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	sync.Broadcast(replication.EventUserUpsert, replication.UserUpsertPayload{
		User:         *admin,
		PasswordHash: admin.PasswordHash,
	})

	logger.Logger.Info().Str("username", admin.Username).Msg("Seeded admin account")
}

// healthCheck reports database connectivity
func healthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
