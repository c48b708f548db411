package service

import (
	"context"

	"employee-crud-starter/internal/domain"
	"employee-crud-starter/pkg/reactive"
)

// ReactiveEmployeeService 是非阻塞风格的适配层：业务逻辑仍由 EmployeeService 完成，
// 每次调用在 Scheduler 上异步执行，结果以 Mono/Flux 返回。
type ReactiveEmployeeService struct {
	svc   *EmployeeService
	sched *reactive.Scheduler
}

func NewReactiveEmployeeService(svc *EmployeeService, sched *reactive.Scheduler) *ReactiveEmployeeService {
	return &ReactiveEmployeeService{svc: svc, sched: sched}
}

func (r *ReactiveEmployeeService) Create(ctx context.Context, candidate domain.Employee) *reactive.Mono[domain.Employee] {
	return reactive.MonoFrom(r.sched, ctx, func(ctx context.Context) (*domain.Employee, error) {
		return r.svc.Create(ctx, candidate)
	})
}

// GetByID 空 Mono 表示不存在
func (r *ReactiveEmployeeService) GetByID(ctx context.Context, id string) *reactive.Mono[domain.Employee] {
	return reactive.MonoFrom(r.sched, ctx, func(ctx context.Context) (*domain.Employee, error) {
		return r.svc.GetByID(ctx, id)
	})
}

func (r *ReactiveEmployeeService) ListAll(ctx context.Context) *reactive.Flux[domain.Employee] {
	return reactive.FluxFrom(r.sched, ctx, func(ctx context.Context, emit func(domain.Employee) error) error {
		list, err := r.svc.ListAll(ctx)
		if err != nil {
			return err
		}
		for _, e := range list {
			if err := emit(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ReactiveEmployeeService) Update(ctx context.Context, id string, patch domain.Employee) *reactive.Mono[domain.Employee] {
	return reactive.MonoFrom(r.sched, ctx, func(ctx context.Context) (*domain.Employee, error) {
		return r.svc.Update(ctx, id, patch)
	})
}

func (r *ReactiveEmployeeService) DeleteByID(ctx context.Context, id string) *reactive.Mono[struct{}] {
	return reactive.MonoFrom(r.sched, ctx, func(ctx context.Context) (*struct{}, error) {
		if err := r.svc.DeleteByID(ctx, id); err != nil {
			return nil, err
		}
		return &struct{}{}, nil
	})
}

func (r *ReactiveEmployeeService) FindByName(ctx context.Context, firstName, lastName string) *reactive.Mono[domain.Employee] {
	return reactive.MonoFrom(r.sched, ctx, func(ctx context.Context) (*domain.Employee, error) {
		return r.svc.FindByName(ctx, firstName, lastName)
	})
}
