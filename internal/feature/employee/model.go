package employee

import "employee-crud-starter/internal/domain"

// EmployeeModel email 只建普通索引：唯一性由服务层在创建时保证。
type EmployeeModel struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	FirstName string `gorm:"size:64"`
	LastName  string `gorm:"size:64"`
	Email     string `gorm:"index;size:191;not null"`
}

func (EmployeeModel) TableName() string { return "employees" }

func FromDomain(e *domain.Employee) EmployeeModel {
	return EmployeeModel{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName, Email: e.Email}
}

func (m EmployeeModel) ToDomain() *domain.Employee {
	return &domain.Employee{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email}
}
