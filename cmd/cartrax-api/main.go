package main

import (
	"flag"
	"fmt"

	"github.com/CarTrax/CarTrax/internal/car"
	"github.com/CarTrax/CarTrax/internal/carspec"
	"github.com/CarTrax/CarTrax/internal/common/config"
	"github.com/CarTrax/CarTrax/internal/common/db"
	"github.com/CarTrax/CarTrax/internal/common/logger"
	"github.com/CarTrax/CarTrax/internal/common/server"
	"github.com/CarTrax/CarTrax/internal/common/tracing"
	"github.com/CarTrax/CarTrax/internal/parts"
	"github.com/gofiber/fiber/v2"
)

var (
	configPath      = flag.String("config", "configs/cartrax-api.json", "config file path")
	consulConfigKey = flag.String("consul-config-key", "", "load config from this Consul KV key instead of the file")
	consulAddr      = flag.String("consul-addr", "localhost", "consul agent host (KV config only)")
	consulPort      = flag.Int("consul-port", 8500, "consul agent port (KV config only)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error
	if *consulConfigKey != "" {
		cfg, err = config.LoadConfigFromConsulKV(*consulAddr, *consulPort, *consulConfigKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLoggerWithBackend(cfg.Log.Backend, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(&carspec.CarSpec{}, &car.Car{}); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}
	if err := parts.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate part tables: %v", err)
	}

	carsRepo := car.NewRepo(gormDB)
	specsRepo := carspec.NewRepo(gormDB)
	partsRepo := parts.NewRepo(gormDB)
	expander := carspec.NewExpander(partsRepo)
	svc := car.NewService(carsRepo, specsRepo, expander)

	carHandler := car.NewHandler(svc, log)
	partsHandler := parts.NewHandler(partsRepo, log)

	if err := server.RunHTTPServer(cfg, log, func(app *fiber.App) error {
		car.RegisterRoutes(app, carHandler)
		parts.RegisterRoutes(app, partsHandler)
		return nil
	}); err != nil {
		log.Fatalf("cartrax-api exited with error: %v", err)
	}
}
