package repo

import (
	"context"
	"strconv"
	"sync"

	"employee-crud-starter/internal/domain"
)

// MemoryEmployeeRepo 进程内存储，id 依次为 "1"、"2"……，保持插入顺序
type MemoryEmployeeRepo struct {
	mu    sync.RWMutex
	seq   int
	rows  map[string]domain.Employee
	order []string
}

func NewMemoryEmployeeRepo() *MemoryEmployeeRepo {
	return &MemoryEmployeeRepo{rows: make(map[string]domain.Employee)}
}

func (r *MemoryEmployeeRepo) Insert(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *e
	row.ID = r.nextID()
	r.put(row)
	return &row, nil
}

func (r *MemoryEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *MemoryEmployeeRepo) FindByEmail(_ context.Context, email string) (*domain.Employee, error) {
	return r.findFirst(func(e domain.Employee) bool { return e.Email == email }), nil
}

func (r *MemoryEmployeeRepo) FindByName(_ context.Context, firstName, lastName string) (*domain.Employee, error) {
	return r.findFirst(func(e domain.Employee) bool {
		return e.FirstName == firstName && e.LastName == lastName
	}), nil
}

func (r *MemoryEmployeeRepo) FindAll(context.Context) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rows[id])
	}
	return out, nil
}

func (r *MemoryEmployeeRepo) Save(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *e
	if row.ID == "" {
		row.ID = r.nextID()
	}
	r.put(row)
	return &row, nil
}

func (r *MemoryEmployeeRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return nil
	}
	delete(r.rows, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count 当前记录数
func (r *MemoryEmployeeRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// nextID 跳过 Save 时外部指定过的 id
func (r *MemoryEmployeeRepo) nextID() string {
	for {
		r.seq++
		id := strconv.Itoa(r.seq)
		if _, taken := r.rows[id]; !taken {
			return id
		}
	}
}

func (r *MemoryEmployeeRepo) put(row domain.Employee) {
	if _, ok := r.rows[row.ID]; !ok {
		r.order = append(r.order, row.ID)
	}
	r.rows[row.ID] = row
}

func (r *MemoryEmployeeRepo) findFirst(match func(domain.Employee) bool) *domain.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if row := r.rows[id]; match(row) {
			return &row
		}
	}
	return nil
}
