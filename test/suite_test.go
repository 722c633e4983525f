package test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

const (
	serverPort = 9002
	serverHost = "127.0.0.1"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// IntegrationTestSuite spins up postgres and redis containers, starts the
// whole server against them, and exercises the HTTP surface end to end.
type IntegrationTestSuite struct {
	suite.Suite

	dockerPool *dockertest.Pool
	httpClient *http.Client
	server     *internal.Server
	teardown   []func()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	fmt.Println("setting up test suite...")

	s.teardown = make([]func(), 0)
	s.httpClient = &http.Client{Timeout: 10 * time.Second}

	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup redis: %s", err)
	}
	fmt.Println("redis setup successful")

	pgPort, err := s.postgresSetup(ctx)
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}
	fmt.Println("postgres setup successful")

	cfg := getTestConfig(redisPort, pgPort)
	s.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			RedisPassword:           "",
			VersionInfo:             "test-version-info",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		s.cleanup()
		log.Fatalf("new server: %s", err)
	}

	s.server.Serve(cfg.Host, cfg.Port)
	fmt.Println("server started")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	fmt.Println(" --> cleaning up test suite...")
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
	fmt.Println(" --> test suite cleanup done")
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:                     "test",
		Host:                            serverHost,
		Port:                            serverPort,
		LogToStdout:                     true,
		LogLevel:                        "trace",
		RedisHost:                       "localhost",
		RedisPort:                       redisPort,
		PostgresHost:                    "localhost",
		PostgresPort:                    postgresPort,
		PostgresDBName:                  "gym_tracker",
		PrometheusMetricsHost:           serverHost,
		PrometheusMetricsPort:           "9102",
		ExerciseAutoSaveRateLimitPerMin: 1000,
		PRCacheTTLSeconds:               300,
	}
}

func (s *IntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *IntegrationTestSuite) postgresSetup(ctx context.Context) (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=gym_tracker",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf(
		"postgres://postgres@localhost:%s/gym_tracker?sslmode=disable",
		pgPort,
	)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return "", fmt.Errorf("parse db config: %w", err)
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return "", fmt.Errorf("create connection pool: %w", err)
	}
	defer db.Close()

	if err := s.dockerPool.Retry(func() error {
		return db.Ping(ctx)
	}); err != nil {
		return "", fmt.Errorf("connect to db: %s", err)
	}

	if _, err := db.Exec(ctx, initSQL); err != nil {
		return "", fmt.Errorf("run init script: %s", err)
	}

	return pgPort, nil
}

const initSQL = `
CREATE TABLE public.gym_user
(
    id         VARCHAR PRIMARY KEY,
    name       VARCHAR NOT NULL,
    email      VARCHAR NOT NULL,
    age        INTEGER NOT NULL DEFAULT 0,
    weight_lbs DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL
);

ALTER TABLE public.gym_user OWNER TO postgres;
CREATE INDEX ix_gym_user_created_at ON public.gym_user (created_at);

CREATE TABLE public.exercise
(
    exercise_id   VARCHAR NOT NULL,
    name          VARCHAR NOT NULL,
    type          VARCHAR NOT NULL,
    muscle_groups TEXT[]  NOT NULL DEFAULT '{}',
    user_id       VARCHAR REFERENCES public.gym_user (id),
    created_at    TIMESTAMPTZ NOT NULL
);

ALTER TABLE public.exercise OWNER TO postgres;
-- one id per scope: the global scope and each user's scope are independent
CREATE UNIQUE INDEX ux_exercise_global ON public.exercise (exercise_id) WHERE user_id IS NULL;
CREATE UNIQUE INDEX ux_exercise_custom ON public.exercise (user_id, exercise_id) WHERE user_id IS NOT NULL;

CREATE TABLE public.template
(
    id         VARCHAR PRIMARY KEY,
    name       VARCHAR NOT NULL,
    exercises  JSONB   NOT NULL DEFAULT '[]',
    is_global  BOOLEAN NOT NULL DEFAULT FALSE,
    user_id    VARCHAR REFERENCES public.gym_user (id),
    created_at TIMESTAMPTZ NOT NULL
);

ALTER TABLE public.template OWNER TO postgres;
CREATE INDEX ix_template_user_id ON public.template (user_id);

CREATE TABLE public.workout
(
    id                 VARCHAR PRIMARY KEY,
    user_id            VARCHAR NOT NULL,
    date               TIMESTAMPTZ NOT NULL,
    total_time_minutes INTEGER NOT NULL DEFAULT 0,
    exercises          JSONB   NOT NULL DEFAULT '[]'
);

ALTER TABLE public.workout OWNER TO postgres;
CREATE INDEX ix_workout_user_date ON public.workout (user_id, date DESC);
`
