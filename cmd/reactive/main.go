package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"employee-crud-starter/internal/core/auth"
	"employee-crud-starter/internal/core/config"
	"employee-crud-starter/internal/core/kv"
	"employee-crud-starter/internal/core/logger"
	"employee-crud-starter/internal/core/server"
	"employee-crud-starter/internal/domain"
	"employee-crud-starter/internal/repo"
	"employee-crud-starter/internal/service"
	"employee-crud-starter/internal/transport/http/handler"
	"employee-crud-starter/internal/transport/http/router"
	"employee-crud-starter/pkg/reactive"
)

const drainTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.Setup(cfg.Log)
	defer cleanup()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	employees, closeStore := mustOpenStore(rootCtx, cfg, log)
	defer closeStore()

	sched := reactive.NewScheduler(cfg.App.Reactive.Workers)
	svc := service.NewReactiveEmployeeService(service.NewEmployeeService(employees), sched)

	r := router.NewEngine(log, router.EngineOpts{
		Flavor: router.FlavorReactive,
		Limits: cfg.Limits,
		JWT:    auth.FromConfig(cfg.JWT),
	}, router.NewRegistry(handler.NewReactiveEmployeeHandler(svc)))

	rc, h := cfg.App.Reactive, cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(rc.Host, rc.Port), r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	baseURL := server.HumanURL(rc.Host, rc.Port)
	log.Info("employee api starting",
		zap.String("flavor", router.FlavorReactive),
		zap.Int64("workers", rc.Workers),
		zap.String("open", baseURL),
		zap.String("employees", baseURL+"/api/employees"),
	)

	if err := serve(rootCtx, srv, sched, log); err != nil {
		log.Fatal("employee api FAILED", zap.Error(err))
	}
	log.Info("employee api stopped")
}

// serve 先停 HTTP（不再有新请求提交工作），再等 Scheduler 上已提交的工作结束
func serve(ctx context.Context, srv *http.Server, sched *reactive.Scheduler, l *zap.Logger) error {
	if err := server.Run(ctx, srv, l); err != nil {
		return err
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := sched.Wait(drainCtx); err != nil {
		l.Warn("scheduler drain timed out", zap.Error(err))
	}
	return nil
}

func mustOpenStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (domain.EmployeeRepository, func()) {
	if cfg.App.Reactive.Store == "memory" {
		l.Info("using in-memory store")
		return repo.NewMemoryEmployeeRepo(), func() {}
	}
	c := kv.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		l.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return repo.NewRedisEmployeeRepo(c), func() { _ = c.Close() }
}
