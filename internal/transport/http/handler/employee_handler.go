package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-crud-starter/internal/domain"
	httpez "employee-crud-starter/internal/transport/http/ez"
	resp "employee-crud-starter/internal/transport/http/response"
)

const employeePriority = 10

// EmployeeUseCase 由 service.EmployeeService 实现
type EmployeeUseCase interface {
	Create(ctx context.Context, candidate domain.Employee) (*domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	ListAll(ctx context.Context) ([]domain.Employee, error)
	Update(ctx context.Context, id string, patch domain.Employee) (*domain.Employee, error)
	DeleteByID(ctx context.Context, id string) error
	FindByName(ctx context.Context, firstName, lastName string) (*domain.Employee, error)
}

// employeeIn 请求体里的 id 会被忽略
type employeeIn struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (in *employeeIn) toDomain() domain.Employee {
	return domain.Employee{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}
}

type nameQ struct {
	FirstName string `form:"firstName" binding:"required"`
	LastName  string `form:"lastName"  binding:"required"`
}

// EmployeeHandler 阻塞版本的 /api/employees
type EmployeeHandler struct {
	svc EmployeeUseCase
}

func NewEmployeeHandler(svc EmployeeUseCase) *EmployeeHandler { return &EmployeeHandler{svc: svc} }

// Priority 业务路由先于默认优先级（100）的模块挂载
func (h *EmployeeHandler) Priority() int { return employeePriority }

func (h *EmployeeHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/employees"))

	httpez.RegisterAction(ez, httpez.Action[employeeIn, *domain.Employee]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *employeeIn) (*domain.Employee, error) {
			e, err := h.svc.Create(c.Request.Context(), in.toDomain())
			return e, mapError(err)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Employee]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Employee, error) {
			list, err := h.svc.ListAll(c.Request.Context())
			return list, mapError(err)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[nameQ, *domain.Employee]{
		Method: http.MethodGet,
		Path:   "/search",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *nameQ) (*domain.Employee, error) {
			return present(h.svc.FindByName(c.Request.Context(), in.FirstName, in.LastName))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.Employee]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Employee, error) {
			return present(h.svc.GetByID(c.Request.Context(), c.Param("id")))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[employeeIn, *domain.Employee]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *employeeIn) (*domain.Employee, error) {
			return present(h.svc.Update(c.Request.Context(), c.Param("id"), in.toDomain()))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Status: http.StatusOK,
		NoBody: true,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, mapError(h.svc.DeleteByID(c.Request.Context(), c.Param("id")))
		},
	})
}

// present nil 结果转成 ErrAbsent
func present(e *domain.Employee, err error) (*domain.Employee, error) {
	if err != nil {
		return nil, mapError(err)
	}
	if e == nil {
		return nil, httpez.ErrAbsent
	}
	return e, nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDuplicateEmail):
		return httpez.Conflict(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return &httpez.AErr{Code: resp.CodeTimeout, Msg: "timeout", Err: err}
	default:
		return httpez.Internal("internal error", err)
	}
}
