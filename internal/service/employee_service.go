package service

import (
	"context"
	"fmt"

	"employee-crud-starter/internal/domain"
)

// EmployeeService 承载 Employee 的全部业务规则，本身无状态。
//
// Create 的“先查邮箱再插入”不是原子的：并发创建同一邮箱时两者都可能通过检查。
// 这里保持该行为，由存储层自行决定是否另加约束。
type EmployeeService struct {
	repo domain.EmployeeRepository
}

func NewEmployeeService(repo domain.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// Create 邮箱已存在时返回 ErrDuplicateEmail，且不会调用 Insert。
func (s *EmployeeService) Create(ctx context.Context, candidate domain.Employee) (*domain.Employee, error) {
	existing, err := s.repo.FindByEmail(ctx, candidate.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, candidate.Email)
	}
	candidate.ID = ""
	return s.repo.Insert(ctx, &candidate)
}

// GetByID 查不到返回 (nil, nil)。
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeService) ListAll(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Employee{}
	}
	return list, nil
}

// Update 整体覆盖 firstName/lastName/email（空串也覆盖），id 不变。
// 不重新校验邮箱唯一性。
func (s *EmployeeService) Update(ctx context.Context, id string, patch domain.Employee) (*domain.Employee, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	existing.FirstName = patch.FirstName
	existing.LastName = patch.LastName
	existing.Email = patch.Email
	return s.repo.Save(ctx, existing)
}

// DeleteByID 幂等：记录不存在也算成功，只返回存储层故障。
func (s *EmployeeService) DeleteByID(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

func (s *EmployeeService) FindByName(ctx context.Context, firstName, lastName string) (*domain.Employee, error) {
	return s.repo.FindByName(ctx, firstName, lastName)
}
