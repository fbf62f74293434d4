package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
)

// Group 基于 errgroup + context 管理多个任务的并发运行和协调关闭。
//
// 任一任务返回错误或 Cancel 被调用时，所有任务都会收到取消信号。
// Go、GoWithName、Cancel 可并发调用；Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group，返回的 context 在任一任务出错或 Cancel 后被取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)

	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     options,
	}, egCtx
}

// Go 启动一个任务。fn 应监听 ctx.Done() 并在取消后尽快返回。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，额外记录任务的启停。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		attrs := []slog.Attr{slog.String("group", g.opts.name), slog.String("service", name)}
		g.opts.logger.Debug(g.ctx, "service starting", attrs...)

		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.opts.logger.Warn(g.ctx, "service exited with error", append(attrs, xlog.Err(err))...)
		} else {
			g.opts.logger.Debug(g.ctx, "service stopped", attrs...)
		}
		return err
	})
}

// Wait 等待所有任务退出。
//
// 返回第一个非 nil 错误。context.Canceled 被过滤，但 Cancel(cause) 给出的
// 非 Canceled 原因（如 *SignalError）会被返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()

	if errors.Is(err, context.Canceled) {
		// causeCtx 未取消说明 Canceled 来自任务内部，原样返回
		if g.causeCtx.Err() == nil {
			return err
		}
		return g.cause()
	}
	if err == nil && g.causeCtx.Err() != nil {
		return g.cause()
	}
	return err
}

func (g *Group) cause() error {
	if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}

// Cancel 取消所有任务。cause 为 nil 时 Wait 返回 nil，否则返回 cause。
//
// cause 不应包装 context.Canceled，否则会被当作普通取消过滤掉。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// DefaultSignals 返回 Run 默认监听的信号：SIGINT、SIGTERM。每次返回新切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

// Run 在 Group 中运行 services，并注册信号监听。
//
// 全部 services 返回后 Run 返回；收到信号时取消所有任务并返回 *SignalError。
// 可通过 WithoutSignalHandler 关闭信号监听。
func Run(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)

	var wg sync.WaitGroup
	wg.Add(len(services))
	for _, svc := range services {
		g.Go(func(ctx context.Context) error {
			defer wg.Done()
			if svc == nil {
				return ErrNilFunc
			}
			return svc(ctx)
		})
	}

	if !g.opts.noSignalHandler {
		signals := g.opts.signals
		if len(signals) == 0 {
			signals = DefaultSignals()
		}
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		g.Go(func(ctx context.Context) error {
			return g.waitSignal(ctx, signals, done)
		})
	}
	return g.Wait()
}

func (g *Group) waitSignal(ctx context.Context, signals []os.Signal, done <-chan struct{}) error {
	testc := testSigChan(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-testc:
	case sig = <-sigCh:
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}

	g.opts.logger.Info(ctx, "received signal",
		slog.String("group", g.opts.name),
		slog.String("signal", sig.String()),
	)
	g.cancel(&SignalError{Signal: sig})
	return nil
}

// testSigChanKey 测试通过 context 注入信号，避免向进程发送真实信号
type testSigChanKey struct{}

func testSigChan(ctx context.Context) <-chan os.Signal {
	c, _ := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	return c
}

func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}
