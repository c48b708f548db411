package reactive

import (
	"context"
	"sync"
)

// Mono 是一个最终可用的单值结果；完成时可能为空（nil, nil）。
type Mono[T any] struct {
	done chan struct{}
	once sync.Once
	val  *T
	err  error
}

func newMono[T any]() *Mono[T] { return &Mono[T]{done: make(chan struct{})} }

func (m *Mono[T]) complete(v *T, err error) {
	m.once.Do(func() {
		m.val, m.err = v, err
		close(m.done)
	})
}

// Done 在结果可用时关闭
func (m *Mono[T]) Done() <-chan struct{} { return m.done }

// Await 阻塞到结果可用或 ctx 结束。空结果返回 (nil, nil)。
func (m *Mono[T]) Await(ctx context.Context) (*T, error) {
	select {
	case <-m.done:
		return m.val, m.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func Just[T any](v T) *Mono[T] {
	m := newMono[T]()
	m.complete(&v, nil)
	return m
}

func Empty[T any]() *Mono[T] {
	m := newMono[T]()
	m.complete(nil, nil)
	return m
}

func Error[T any](err error) *Mono[T] {
	m := newMono[T]()
	m.complete(nil, err)
	return m
}

// MonoFrom 在 Scheduler 上执行一次阻塞调用
func MonoFrom[T any](s *Scheduler, ctx context.Context, fn func(context.Context) (*T, error)) *Mono[T] {
	m := newMono[T]()
	var v *T
	s.run(ctx, func(ctx context.Context) error {
		var err error
		v, err = fn(ctx)
		return err
	}, func(err error) {
		if err != nil {
			m.complete(nil, err)
			return
		}
		m.complete(v, nil)
	})
	return m
}
