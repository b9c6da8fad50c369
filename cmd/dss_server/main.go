package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dronesurvey/dss/internal/broadcast"
	"github.com/dronesurvey/dss/internal/cache"
	"github.com/dronesurvey/dss/internal/config"
	"github.com/dronesurvey/dss/internal/database"
	"github.com/dronesurvey/dss/internal/geometry"
	"github.com/dronesurvey/dss/internal/missions"
	"github.com/dronesurvey/dss/internal/model"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

type App struct {
	logger      *slog.Logger
	config      *config.AppConfig
	dbm         *database.DatabaseManager
	registry    *broadcast.Registry
	broadcaster *broadcast.Broadcaster
	controller  *missions.Controller
	planner     geometry.Planner
	analytics   *cache.Cache[*AnalyticsSummary]
}

func NewApp(cfg *config.AppConfig) (*App, error) {
	db, err := database.GetDatabase(cfg.DB(), cfg.Debug())
	if err != nil {
		return nil, err
	}

	app := &App{
		logger:   slog.Default().With("logger", "app"),
		config:   cfg,
		dbm:      database.New(db),
		registry: broadcast.NewRegistry(),
		planner:  geometry.NoopPlanner{},
	}

	if err := app.dbm.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	app.broadcaster = broadcast.New(app.registry)
	app.controller = missions.NewController(app.dbm, app)
	app.analytics = cache.NewWithTTL[*AnalyticsSummary](cfg.AnalyticsTTL(), app.loadAnalytics)

	return app, nil
}

// Publish is called by the controller after every committed transition.
func (app *App) Publish(missionID uint, snapshot *model.MissionDTO) {
	app.analytics.Invalidate(analyticsKey)
	app.broadcaster.Publish(missionID, snapshot)
}

func (app *App) seedDrones() {
	drones, err := app.config.Drones()
	if err != nil {
		app.logger.Error("can't load drones", slog.Any("error", err))
		return
	}

	if len(drones) == 0 {
		return
	}

	n, err := app.dbm.SeedDrones(drones)
	if err != nil {
		app.logger.Error("drone seed error", slog.Any("error", err))
	}

	app.logger.Info(fmt.Sprintf("%d new drones from %s", n, app.config.DronesFile()))
}

func (app *App) Run() {
	app.seedDrones()

	api := NewHttp(app, app.config.APIAddr())

	go func() {
		app.logger.Info("listening api at " + api.Address())

		if err := api.Listen(); err != nil {
			app.logger.Error("api server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	app.logger.Info("exiting...")

	if err := api.Shutdown(time.Second * 5); err != nil {
		app.logger.Error("shutdown error", slog.Any("error", err))
	}
}

func main() {
	fmt.Printf("version %s %s\n", gitRevision, gitBranch)

	var debug = flag.Bool("debug", false, "debug mode")
	var conf = flag.String("config", "dss.yml", "name of config file")
	flag.Parse()

	cfg := config.NewAppConfig()
	cfg.Load(*conf)
	cfg.LoadEnv("DSS")

	if *debug {
		cfg.Set("debug", true)
	}

	level := slog.LevelInfo
	if cfg.Debug() {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("can't start", slog.Any("error", err))
		os.Exit(1)
	}

	app.Run()
}
