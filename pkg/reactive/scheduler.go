// Package reactive 提供“最终可用”的结果类型：Mono 为单值（可为空），Flux 为序列。
// 阻塞式的业务逻辑通过 Scheduler 异步执行后，以 Mono/Flux 交给调用方。
package reactive

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

const defaultMaxInFlight = 64

// Scheduler 限制同时在执行的工作单元数量
type Scheduler struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

func NewScheduler(maxInFlight int64) *Scheduler {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	return &Scheduler{sem: semaphore.NewWeighted(maxInFlight)}
}

// run 异步执行 work；finish 恰好被调用一次（work 的错误、排队时 ctx 取消或 panic）。
func (s *Scheduler) run(ctx context.Context, work func(context.Context) error, finish func(error)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.sem.Acquire(ctx, 1); err != nil {
			finish(err)
			return
		}
		defer s.sem.Release(1)

		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("reactive: panic in scheduled work: %v", r)
				}
			}()
			err = work(ctx)
		}()
		finish(err)
	}()
}

// Wait 等待所有已提交的工作结束，或 ctx 到期
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
