package reactive

import "context"

const fluxBuffer = 16

// Flux 是一个最终完成的序列。生产者按需阻塞，消费者必须通过 Each/Collect 消费。
type Flux[T any] struct {
	items  chan T
	cancel context.CancelFunc
	err    error // 在 items 关闭前写入
}

func FromSlice[T any](items []T) *Flux[T] {
	f := &Flux[T]{items: make(chan T, len(items)), cancel: func() {}}
	for _, v := range items {
		f.items <- v
	}
	close(f.items)
	return f
}

// FluxFrom 在 Scheduler 上运行生产函数，emit 在消费者离开后返回 ctx 错误
func FluxFrom[T any](s *Scheduler, ctx context.Context, fn func(ctx context.Context, emit func(T) error) error) *Flux[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Flux[T]{items: make(chan T, fluxBuffer), cancel: cancel}
	s.run(ctx, func(ctx context.Context) error {
		return fn(ctx, func(v T) error {
			select {
			case f.items <- v:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}, func(err error) {
		f.err = err
		close(f.items)
	})
	return f
}

// Each 依次处理元素；fn 返回错误时停止并取消生产者
func (f *Flux[T]) Each(ctx context.Context, fn func(T) error) error {
	defer f.cancel()
	for {
		select {
		case v, ok := <-f.items:
			if !ok {
				return f.err
			}
			if err := fn(v); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Collect 收集全部元素；空序列返回空切片而不是 nil
func (f *Flux[T]) Collect(ctx context.Context) ([]T, error) {
	out := []T{}
	err := f.Each(ctx, func(v T) error {
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
