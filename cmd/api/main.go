package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"employee-crud-starter/internal/core/auth"
	"employee-crud-starter/internal/core/config"
	"employee-crud-starter/internal/core/database"
	"employee-crud-starter/internal/core/logger"
	"employee-crud-starter/internal/core/server"
	"employee-crud-starter/internal/domain"
	"employee-crud-starter/internal/repo"
	"employee-crud-starter/internal/service"
	"employee-crud-starter/internal/transport/http/handler"
	"employee-crud-starter/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.Setup(cfg.Log)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	employees := mustOpenRepo(cfg, log)
	svc := service.NewEmployeeService(employees)

	r := router.NewEngine(log, router.EngineOpts{
		Flavor: router.FlavorBlocking,
		Limits: cfg.Limits,
		JWT:    auth.FromConfig(cfg.JWT),
	}, router.NewRegistry(handler.NewEmployeeHandler(svc)))

	h := cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(h.Host, h.Port), r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	baseURL := server.HumanURL(h.Host, h.Port)
	log.Info("employee api starting",
		zap.String("flavor", router.FlavorBlocking),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("employees", baseURL+"/api/employees"),
	)
	if err := server.Run(ctx, srv, log); err != nil {
		log.Fatal("employee api FAILED", zap.Error(err))
	}
}

// mustOpenRepo db.driver=memory 时不连数据库
func mustOpenRepo(cfg *config.Config, l *zap.Logger) domain.EmployeeRepository {
	if cfg.DB.Driver == "memory" {
		l.Info("using in-memory store")
		return repo.NewMemoryEmployeeRepo()
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	employees := repo.NewEmployeeRepo(db)
	if cfg.DB.AutoMigrate {
		if err := employees.AutoMigrate(); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	return employees
}
