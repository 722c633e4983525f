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
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/config"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/db"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/exercises"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/middleware"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/prs"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/metrics"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/templates"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/users"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/workouts"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymtracker", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymtracker-backend")
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymtracker-router"))

	usersRepo := users.NewRepo(s.dbPool)
	exercisesRepo := exercises.NewRepo(s.dbPool)
	templatesRepo := templates.NewRepo(s.dbPool)
	workoutsRepo := workouts.NewRepo(s.dbPool)

	prCache := prs.NewCache(
		s.redisClient,
		time.Duration(s.config.PRCacheTTLSeconds)*time.Second,
	)

	usersService := users.NewService(usersRepo, workoutsRepo, exercisesRepo, templatesRepo, prCache)
	usersHandler := users.NewHandler(usersRepo, usersService, s.metricsManager)
	r.HandleFunc("/users", usersHandler.HandleList).Methods("GET", "OPTIONS").Name("list-users")
	r.HandleFunc("/users", usersHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-user")
	r.HandleFunc("/users/{id}", usersHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-user")
	r.HandleFunc("/users/{id}", usersHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-user")

	exercisesHandler := exercises.NewHandler(exercisesRepo)
	r.HandleFunc("/exercises", exercisesHandler.HandleListGlobal).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises", exercisesHandler.HandleAddGlobal).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/exercises/library/{userId}", exercisesHandler.HandleLibrary).Methods("GET", "OPTIONS").Name("exercise-library")
	r.HandleFunc("/exercises/custom/{userId}/{exerciseId}", exercisesHandler.HandleDeleteCustom).Methods("DELETE", "OPTIONS").Name("remove-custom-exercise")
	r.HandleFunc("/exercises/{id}", exercisesHandler.HandleDeleteGlobal).Methods("DELETE", "OPTIONS").Name("remove-exercise")

	// the auto-save endpoint gets hit on keystrokes, so it is rate limited
	// per user
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	r.Handle(
		"/exercises/custom/{userId}",
		middleware.RateLimit(
			reqRateLimiter,
			"exercise-auto-save",
			s.config.ExerciseAutoSaveRateLimitPerMin,
			s.metricsManager,
		)(http.HandlerFunc(exercisesHandler.HandleAddCustom)),
	).Methods("POST", "OPTIONS").Name("new-custom-exercise")

	templatesHandler := templates.NewHandler(templatesRepo)
	r.HandleFunc("/templates/global", templatesHandler.HandleListGlobal).Methods("GET", "OPTIONS").Name("list-global-templates")
	r.HandleFunc("/templates/library/{userId}", templatesHandler.HandleLibrary).Methods("GET", "OPTIONS").Name("template-library")
	r.HandleFunc("/templates/byid/{id}", templatesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")
	r.HandleFunc("/templates", templatesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-template")
	r.HandleFunc("/templates/{id}", templatesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-template")
	r.HandleFunc("/templates/{userId}", templatesHandler.HandleListForUser).Methods("GET", "OPTIONS").Name("list-user-templates")

	workoutsHandler := workouts.NewHandler(workoutsRepo, usersRepo, prCache, s.metricsManager)
	r.HandleFunc("/workouts", workoutsHandler.HandleLog).Methods("POST", "OPTIONS").Name("log-workout")
	r.HandleFunc("/workouts/byid/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-workout")
	r.HandleFunc("/workouts/{userId}", workoutsHandler.HandleListForUser).Methods("GET", "OPTIONS").Name("list-workouts")

	prsHandler := prs.NewHandler(prs.NewAnalyzer(workoutsRepo), prCache, s.metricsManager)
	r.HandleFunc("/prs/{userId}", prsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-prs")

	versionInfo := s.versionInfo
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, pkg.ContentType.Text, fmt.Sprintf("ok [%s]", versionInfo), http.StatusOK)
	}).Methods("GET").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
