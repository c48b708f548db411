package domain

import (
	"context"
	"encoding/json"
)

type Employee struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// MarshalBinary / UnmarshalBinary 让 go-redis 直接存取文档
func (e *Employee) MarshalBinary() ([]byte, error) { return json.Marshal(e) }

func (e *Employee) UnmarshalBinary(data []byte) error { return json.Unmarshal(data, e) }

// EmployeeRepository 是持久层协作者。
// FindXxx 查不到时返回 (nil, nil)，与错误区分开。
type EmployeeRepository interface {
	Insert(ctx context.Context, e *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByName(ctx context.Context, firstName, lastName string) (*Employee, error)
	FindAll(ctx context.Context) ([]Employee, error)
	Save(ctx context.Context, e *Employee) (*Employee, error)
	DeleteByID(ctx context.Context, id string) error
}
