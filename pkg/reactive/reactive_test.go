package reactive

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestMono_Constructors(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)

	v, err := Just(7).Await(ctx)
	if err != nil || v == nil || *v != 7 {
		t.Fatalf("Just: %v, %v", v, err)
	}

	empty, err := Empty[int]().Await(ctx)
	if err != nil || empty != nil {
		t.Fatalf("Empty: %v, %v", empty, err)
	}

	boom := errors.New("boom")
	if _, err := Error[int](boom).Await(ctx); !errors.Is(err, boom) {
		t.Fatalf("Error: %v", err)
	}
}

func TestMonoFrom_ResolvesLater(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	s := NewScheduler(1)

	release := make(chan struct{})
	m := MonoFrom(s, ctx, func(context.Context) (*string, error) {
		<-release
		v := "done"
		return &v, nil
	})

	select {
	case <-m.Done():
		t.Fatalf("expected mono to be pending")
	default:
	}
	close(release)

	v, err := m.Await(ctx)
	if err != nil || v == nil || *v != "done" {
		t.Fatalf("Await: %v, %v", v, err)
	}
}

func TestMonoFrom_Panic(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)

	m := MonoFrom(NewScheduler(1), ctx, func(context.Context) (*int, error) {
		panic("kaboom")
	})
	if _, err := m.Await(ctx); err == nil {
		t.Fatalf("expected panic to surface as error")
	}
}

func TestMono_AwaitHonoursContext(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	defer close(block)
	m := MonoFrom(NewScheduler(1), context.Background(), func(context.Context) (*int, error) {
		<-block
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestScheduler_BoundsInFlight(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	s := NewScheduler(2)

	var inFlight, peak int32
	monos := make([]*Mono[int], 0, 10)
	for i := 0; i < 10; i++ {
		monos = append(monos, MonoFrom(s, ctx, func(context.Context) (*int, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return nil, nil
		}))
	}
	for _, m := range monos {
		if _, err := m.Await(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Fatalf("expected at most 2 in flight, got %d", p)
	}
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestScheduler_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	s := NewScheduler(1)
	block := make(chan struct{})
	defer close(block)
	started := make(chan struct{})
	_ = MonoFrom(s, context.Background(), func(context.Context) (*int, error) {
		close(started)
		<-block
		return nil, nil
	})
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Bool
	queued := MonoFrom(s, ctx, func(context.Context) (*int, error) {
		ran.Store(true)
		return nil, nil
	})

	_, err := queued.Await(testCtx(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran.Load() {
		t.Fatalf("expected queued work not to run")
	}
}

func TestFlux_FromSliceAndCollect(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)

	got, err := FromSlice([]int{1, 2, 3}).Collect(ctx)
	if err != nil || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Collect: %v, %v", got, err)
	}

	empty, err := FromSlice[int](nil).Collect(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v, %v", empty, err)
	}
}

func TestFluxFrom_EmitsInOrder(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)

	f := FluxFrom(NewScheduler(1), ctx, func(ctx context.Context, emit func(int) error) error {
		for i := 0; i < 100; i++ {
			if err := emit(i); err != nil {
				return err
			}
		}
		return nil
	})
	got, err := f.Collect(ctx)
	if err != nil || len(got) != 100 {
		t.Fatalf("Collect: %d items, %v", len(got), err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("expected %d at position %d, got %d", i, i, v)
		}
	}
}

func TestFluxFrom_ProducerError(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	boom := errors.New("boom")

	f := FluxFrom(NewScheduler(1), ctx, func(ctx context.Context, emit func(int) error) error {
		_ = emit(1)
		return boom
	})
	if _, err := f.Collect(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestFlux_EachStopsProducer(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	s := NewScheduler(1)
	stop := errors.New("stop")

	f := FluxFrom(s, ctx, func(ctx context.Context, emit func(int) error) error {
		for i := 0; ; i++ {
			if err := emit(i); err != nil {
				return err
			}
		}
	})
	seen := 0
	err := f.Each(ctx, func(int) error {
		seen++
		if seen == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop, got %v", err)
	}
	// 生产者被取消后 Scheduler 能排空
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("producer did not stop: %v", err)
	}
}
