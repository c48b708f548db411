package kv

import (
	"context"
	"encoding"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	RDB    *redis.Client
	Prefix string
}

func New(addr, pass string, db int, prefix string) *Client {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix)
}

func NewWithClient(rdb *redis.Client, prefix string) *Client {
	return &Client{RDB: rdb, Prefix: prefix}
}

// Key 拼接带前缀的 key，如 Key("employees", "email") → "<prefix>employees:email"
func (c *Client) Key(parts ...string) string { return c.Prefix + strings.Join(parts, ":") }

func (c *Client) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Client) Close() error { return c.RDB.Close() }

type binaryPtr[T any] interface {
	*T
	encoding.BinaryUnmarshaler
}

// HGet 读取 hash 字段并解码；字段不存在返回 (nil, nil)
func HGet[T any, P binaryPtr[T]](c *Client, ctx context.Context, key, field string) (*T, error) {
	b, err := c.RDB.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out T
	if err := P(&out).UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return &out, nil
}

// HVals 解码 hash 的全部值，顺序由 redis 决定
func HVals[T any, P binaryPtr[T]](c *Client, ctx context.Context, key string) ([]T, error) {
	vals, err := c.RDB.HVals(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		var item T
		if err := P(&item).UnmarshalBinary([]byte(v)); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
