package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitplanner/internal/auth"
	"github.com/2beens/fitplanner/internal/config"
	"github.com/2beens/fitplanner/internal/db"
	"github.com/2beens/fitplanner/internal/gemini"
	"github.com/2beens/fitplanner/internal/middleware"
	"github.com/2beens/fitplanner/internal/telemetry/metrics"
	"github.com/2beens/fitplanner/internal/telemetry/tracing"
	"github.com/2beens/fitplanner/internal/workout"
	"github.com/2beens/fitplanner/pkg"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	workoutRepo    *workout.Repo
	catalog        *workout.Catalog
	sessionStore   *auth.SessionStore
	authHandler    *auth.Handler
	authMiddleware *middleware.AuthMiddlewareHandler
	workoutHandler *workout.Handler
	rateLimiter    middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets
	if err := secrets.Validate(); err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.DBPassword,
		TracingEnabled: secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitplanner", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	serviceName := secrets.OtelServiceName
	if serviceName == "" {
		serviceName = "fitplanner-backend"
	}
	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, serviceName, rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	geminiClient, err := gemini.NewClient(ctx, gemini.ClientParams{
		Endpoint:   cfg.GeminiEndpoint,
		APIKey:     secrets.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		HTTPClient: tracedHttpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("new gemini client: %w", err)
	}

	sessionStore := auth.NewSessionStore(cfg.SessionTTL, rdb)
	tokenIssuer := auth.NewTokenIssuer(secrets.JWTSecret, cfg.SessionTTL)
	authService := auth.NewService(
		auth.NewUsersRepo(dbPool),
		sessionStore,
		tokenIssuer,
		metricsManager,
	)

	workoutRepo := workout.NewRepo(dbPool)
	catalog := workout.NewCatalog(workoutRepo, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
	generator := workout.NewGenerator(
		geminiClient,
		catalog,
		workoutRepo,
		metricsManager,
		cfg.GenerationTimeout,
	)

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		workoutRepo:  workoutRepo,
		catalog:      catalog,
		sessionStore: sessionStore,
		authHandler:  auth.NewHandler(authService, cfg.Environment == "production"),
		authMiddleware: middleware.NewAuthMiddlewareHandler(
			auth.NewLoginChecker(tokenIssuer, sessionStore),
		),
		workoutHandler: workout.NewHandler(
			workout.NewService(workoutRepo, catalog, generator, metricsManager),
			cfg.DefaultPageSize,
		),
		rateLimiter: redis_rate.NewLimiter(rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitplanner-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS").Name("root")

	s.authHandler.SetupRoutes(r, middleware.RateLimit(
		s.rateLimiter, "auth", s.config.LoginRateLimitAllowedPerMin, s.metricsManager,
	))
	s.workoutHandler.SetupRoutes(r, middleware.RateLimit(
		s.rateLimiter, "workout-generate", s.config.GenerateRateLimitAllowedPerMin, s.metricsManager,
	))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONMessage(w, http.StatusNotFound, "Not found")
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(s.authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(middleware.DefaultMaxBodyBytes))

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "I'm OK, thanks ;)",
		"version": s.versionInfo,
	})
}

// Migrate brings the schema up to date and seeds the exercise catalog.
func (s *Server) Migrate(ctx context.Context) error {
	version, err := db.ApplyMigrations(ctx, s.dbPool)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	added, err := s.workoutRepo.SeedExercises(ctx, workout.SeedExercises)
	if err != nil {
		return fmt.Errorf("seed exercises: %w", err)
	}
	if added > 0 {
		s.catalog.Invalidate()
	}
	log.Infof("schema at version %d, %d exercises added to the catalog", version, added)
	return nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// generation calls may take up to the configured timeout
		WriteTimeout: s.config.GenerationTimeout + 30*time.Second,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.cleanupSessionsLoop(ctx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) cleanupSessionsLoop(ctx context.Context) {
	ticker := time.NewTicker(sessionsCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessionStore.ScanAndClean(ctx)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
