package repo

import (
	"context"

	"github.com/redis/go-redis/v9"

	"employee-crud-starter/internal/core/kv"
	"employee-crud-starter/internal/domain"
	"employee-crud-starter/pkg/utils"
)

// RedisEmployeeRepo 文档式存储：
//
//	<prefix>employees               hash  id → JSON 文档
//	<prefix>employees:email:<email> set   id（更新后可能多个 id 共用一个邮箱）
type RedisEmployeeRepo struct {
	kv   *kv.Client
	docs string
}

func NewRedisEmployeeRepo(c *kv.Client) *RedisEmployeeRepo {
	return &RedisEmployeeRepo{kv: c, docs: c.Key("employees")}
}

func (r *RedisEmployeeRepo) emailKey(email string) string {
	return r.kv.Key("employees", "email", email)
}

func (r *RedisEmployeeRepo) Insert(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	doc := *e
	doc.ID = utils.NewID()
	if err := r.write(ctx, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *RedisEmployeeRepo) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	return kv.HGet[domain.Employee](r.kv, ctx, r.docs, id)
}

func (r *RedisEmployeeRepo) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	ids, err := r.kv.RDB.SMembers(ctx, r.emailKey(email)).Result()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		doc, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc != nil && doc.Email == email {
			return doc, nil
		}
	}
	return nil, nil
}

func (r *RedisEmployeeRepo) FindByName(ctx context.Context, firstName, lastName string) (*domain.Employee, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].FirstName == firstName && all[i].LastName == lastName {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (r *RedisEmployeeRepo) FindAll(ctx context.Context) ([]domain.Employee, error) {
	return kv.HVals[domain.Employee](r.kv, ctx, r.docs)
}

func (r *RedisEmployeeRepo) Save(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	doc := *e
	if doc.ID == "" {
		doc.ID = utils.NewID()
	}
	prev, err := r.FindByID(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if err := r.write(ctx, prev, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *RedisEmployeeRepo) DeleteByID(ctx context.Context, id string) error {
	prev, err := r.FindByID(ctx, id)
	if err != nil || prev == nil {
		return err
	}
	_, err = r.kv.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, r.docs, id)
		p.SRem(ctx, r.emailKey(prev.Email), id)
		return nil
	})
	return err
}

// write 在一个 MULTI 中写文档并维护邮箱索引
func (r *RedisEmployeeRepo) write(ctx context.Context, prev, doc *domain.Employee) error {
	_, err := r.kv.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if prev != nil && prev.Email != doc.Email {
			p.SRem(ctx, r.emailKey(prev.Email), doc.ID)
		}
		p.HSet(ctx, r.docs, doc.ID, doc)
		p.SAdd(ctx, r.emailKey(doc.Email), doc.ID)
		return nil
	})
	return err
}
