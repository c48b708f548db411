package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"employee-crud-starter/internal/domain"
	"employee-crud-starter/internal/feature/employee"
	"employee-crud-starter/pkg/utils"
)

type EmployeeRepo struct{ db *gorm.DB }

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

// AutoMigrate 建表 employees
func (r *EmployeeRepo) AutoMigrate() error { return r.db.AutoMigrate(&employee.EmployeeModel{}) }

func (r *EmployeeRepo) Insert(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	m := employee.FromDomain(e)
	m.ID = utils.NewID()
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *EmployeeRepo) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *EmployeeRepo) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *EmployeeRepo) FindByName(ctx context.Context, firstName, lastName string) (*domain.Employee, error) {
	return r.first(ctx, "first_name = ? AND last_name = ?", firstName, lastName)
}

// FindByNameNative 与 FindByName 等价，走原生 SQL
func (r *EmployeeRepo) FindByNameNative(ctx context.Context, firstName, lastName string) (*domain.Employee, error) {
	var ms []employee.EmployeeModel
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM employees e WHERE e.first_name = ? AND e.last_name = ? LIMIT 1", firstName, lastName).
		Scan(&ms).Error
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, nil
	}
	return ms[0].ToDomain(), nil
}

func (r *EmployeeRepo) FindAll(ctx context.Context) ([]domain.Employee, error) {
	var ms []employee.EmployeeModel
	if err := r.db.WithContext(ctx).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Employee, 0, len(ms))
	for _, m := range ms {
		out = append(out, *m.ToDomain())
	}
	return out, nil
}

// Save 按 id upsert
func (r *EmployeeRepo) Save(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	m := employee.FromDomain(e)
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *EmployeeRepo) DeleteByID(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&employee.EmployeeModel{}).Error
}

func (r *EmployeeRepo) first(ctx context.Context, query string, args ...any) (*domain.Employee, error) {
	var m employee.EmployeeModel
	err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}
