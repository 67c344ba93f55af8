package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/angelmondragon/propertyhub/api/routes"
	"github.com/angelmondragon/propertyhub/internal/admin"
	"github.com/angelmondragon/propertyhub/internal/auth"
	"github.com/angelmondragon/propertyhub/internal/companies"
	"github.com/angelmondragon/propertyhub/internal/roles"
	"github.com/angelmondragon/propertyhub/internal/seed"
	"github.com/angelmondragon/propertyhub/internal/users"
	"github.com/angelmondragon/propertyhub/internal/workitems"
	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	"github.com/angelmondragon/propertyhub/pkg/config"
	"github.com/angelmondragon/propertyhub/pkg/db"
	"github.com/angelmondragon/propertyhub/pkg/logger"
	"github.com/angelmondragon/propertyhub/pkg/metrics"
	"github.com/angelmondragon/propertyhub/pkg/migrate"
	"github.com/angelmondragon/propertyhub/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}
	if cfg.FeatureFlags.SeedOnStart {
		if _, err := seed.Run(ctx, seed.Params{
			DB:          dbClient,
			Seed:        cfg.Seed,
			PasswordCfg: cfg.Password,
			Logger:      logg,
		}); err != nil {
			return err
		}
	}

	kv, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, kv.Close()) }()

	sessions, err := session.NewManager(kv, cfg.Session)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := buildServices(cfg, logg, dbClient, reg, loc)
	if err != nil {
		return err
	}
	deps.DBPinger = dbClient
	deps.KVPinger = kv
	deps.RateLimiter = kv
	deps.Sessions = sessions
	deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
	deps.Gatherer = reg

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"db":       dbClient.Dialect(),
		"kv":       kv.Backend(),
		"timezone": loc.String(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, reg prometheus.Registerer, loc *time.Location) (routes.Dependencies, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		DB:          dbClient,
		PasswordCfg: cfg.Password,
		SeedCfg:     cfg.Seed,
		Logger:      logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}
	items, err := workitems.NewServices(workitems.ServiceParams{
		DB:       dbClient,
		Metrics:  metrics.NewWorkItemMetrics(reg),
		Location: loc,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}
	userService, err := users.NewService(users.ServiceParams{DB: dbClient, PasswordCfg: cfg.Password})
	if err != nil {
		return routes.Dependencies{}, err
	}
	companyService, err := companies.NewService(companies.ServiceParams{DB: dbClient})
	if err != nil {
		return routes.Dependencies{}, err
	}
	roleService, err := roles.NewService(roles.ServiceParams{DB: dbClient})
	if err != nil {
		return routes.Dependencies{}, err
	}
	adminService, err := admin.NewService(admin.ServiceParams{
		DB:        dbClient,
		Users:     userService,
		Companies: companyService,
		Roles:     roleService,
		WorkItems: items,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		Auth:      authService,
		WorkItems: items,
		Users:     userService,
		Companies: companyService,
		Roles:     roleService,
		Admin:     adminService,
	}, nil
}
