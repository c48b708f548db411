package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewRouter 基础 engine：panic 用 zap 记录，默认 CORS
func NewRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(l, true))
	r.Use(cors.Default())
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// HumanURL 0.0.0.0 换成 127.0.0.1，便于日志里直接点开
func HumanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// Run 启动 srv，ctx 结束后优雅关闭
func Run(ctx context.Context, srv *http.Server, l *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	l.Info("http stopped gracefully", zap.String("addr", srv.Addr))
	return nil
}
