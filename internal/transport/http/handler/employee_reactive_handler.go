package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"employee-crud-starter/internal/domain"
	httpez "employee-crud-starter/internal/transport/http/ez"
	"employee-crud-starter/pkg/reactive"
)

const ndjson = "application/x-ndjson"

// ReactiveEmployeeUseCase 由 service.ReactiveEmployeeService 实现
type ReactiveEmployeeUseCase interface {
	Create(ctx context.Context, candidate domain.Employee) *reactive.Mono[domain.Employee]
	GetByID(ctx context.Context, id string) *reactive.Mono[domain.Employee]
	ListAll(ctx context.Context) *reactive.Flux[domain.Employee]
	Update(ctx context.Context, id string, patch domain.Employee) *reactive.Mono[domain.Employee]
	DeleteByID(ctx context.Context, id string) *reactive.Mono[struct{}]
	FindByName(ctx context.Context, firstName, lastName string) *reactive.Mono[domain.Employee]
}

// ReactiveEmployeeHandler 非阻塞版本的 /api/employees；路由、状态码与阻塞版本一致，
// 删除返回 204，列表在 Accept: application/x-ndjson 时逐条输出。
type ReactiveEmployeeHandler struct {
	svc ReactiveEmployeeUseCase
}

func NewReactiveEmployeeHandler(svc ReactiveEmployeeUseCase) *ReactiveEmployeeHandler {
	return &ReactiveEmployeeHandler{svc: svc}
}

func (h *ReactiveEmployeeHandler) Priority() int { return employeePriority }

func (h *ReactiveEmployeeHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/employees"))

	httpez.RegisterAction(ez, httpez.Action[employeeIn, *domain.Employee]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *employeeIn) (*domain.Employee, error) {
			ctx := c.Request.Context()
			e, err := h.svc.Create(ctx, in.toDomain()).Await(ctx)
			return e, mapError(err)
		},
	})

	ez.Group().GET("", h.list)

	httpez.RegisterAction(ez, httpez.Action[nameQ, *domain.Employee]{
		Method: http.MethodGet,
		Path:   "/search",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *nameQ) (*domain.Employee, error) {
			ctx := c.Request.Context()
			return present(h.svc.FindByName(ctx, in.FirstName, in.LastName).Await(ctx))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.Employee]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Employee, error) {
			ctx := c.Request.Context()
			return present(h.svc.GetByID(ctx, c.Param("id")).Await(ctx))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[employeeIn, *domain.Employee]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *employeeIn) (*domain.Employee, error) {
			ctx := c.Request.Context()
			return present(h.svc.Update(ctx, c.Param("id"), in.toDomain()).Await(ctx))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Status: http.StatusNoContent,
		NoBody: true,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			ctx := c.Request.Context()
			_, err := h.svc.DeleteByID(ctx, c.Param("id")).Await(ctx)
			return struct{}{}, mapError(err)
		},
	})
}

func (h *ReactiveEmployeeHandler) list(c *gin.Context) {
	ctx := c.Request.Context()
	flux := h.svc.ListAll(ctx)

	if !strings.Contains(c.GetHeader("Accept"), ndjson) {
		list, err := flux.Collect(ctx)
		if err != nil {
			httpez.WriteError(c, mapError(err))
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	// 首个元素到达前出错仍可返回错误状态码
	started := false
	enc := json.NewEncoder(c.Writer)
	err := flux.Each(ctx, func(e domain.Employee) error {
		if !started {
			c.Header("Content-Type", ndjson)
			c.Status(http.StatusOK)
			started = true
		}
		if err := enc.Encode(e); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	switch {
	case err != nil && !started:
		httpez.WriteError(c, mapError(err))
	case err != nil:
		_ = c.Error(err)
	case !started:
		c.Header("Content-Type", ndjson)
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
	}
}
