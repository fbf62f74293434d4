package xlog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
)

// errorHandler 总是返回错误的 Handler
type errorHandler struct {
	slog.Handler
	err error
}

func (h *errorHandler) Handle(context.Context, slog.Record) error { return h.err }

func (h *errorHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *errorHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *errorHandler) WithGroup(string) slog.Handler { return h }

func newFailing(onError func(error)) *xlogger {
	return &xlogger{
		handler:        &errorHandler{err: errors.New("disk full")},
		levelVar:       new(slog.LevelVar),
		onError:        onError,
		errorCount:     new(atomic.Uint64),
		inErrorHandler: new(atomic.Bool),
	}
}

func TestXlogger_HandleError(t *testing.T) {
	var (
		calls   atomic.Int32
		lastErr error
	)
	l := newFailing(func(err error) {
		calls.Add(1)
		lastErr = err
	})

	l.Info(context.Background(), "x")

	if calls.Load() != 1 {
		t.Errorf("onError calls = %d, want 1", calls.Load())
	}
	if lastErr == nil || lastErr.Error() != "disk full" {
		t.Errorf("lastErr = %v", lastErr)
	}
	if l.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", l.ErrorCount())
	}
}

func TestXlogger_OnErrorRecursionGuard(t *testing.T) {
	var calls atomic.Int32
	var l *xlogger
	l = newFailing(func(error) {
		calls.Add(1)
		// 回调内再次写日志不会再次进入回调
		l.Error(context.Background(), "inside callback")
	})

	l.Info(context.Background(), "x")

	if calls.Load() != 1 {
		t.Errorf("onError calls = %d, want 1", calls.Load())
	}
	if l.ErrorCount() != 2 {
		t.Errorf("ErrorCount() = %d, want 2", l.ErrorCount())
	}
}

func TestXlogger_OnErrorPanicIsolated(t *testing.T) {
	l := newFailing(func(error) { panic("callback bug") })

	l.Warn(context.Background(), "x")

	// 写入失败 + 回调 panic
	if l.ErrorCount() != 2 {
		t.Errorf("ErrorCount() = %d, want 2", l.ErrorCount())
	}
	if l.inErrorHandler.Load() {
		t.Error("recursion guard should be released after panic")
	}
}

func TestXlogger_DerivedShareState(t *testing.T) {
	l := newFailing(nil)
	child, ok := l.With(slog.String("k", "v")).WithGroup("g").(*xlogger)
	if !ok {
		t.Fatal("derived logger should be *xlogger")
	}

	child.Debug(context.Background(), "x")
	l.Debug(context.Background(), "y")

	if l.ErrorCount() != 2 || child.ErrorCount() != 2 {
		t.Errorf("shared count = %d/%d, want 2/2", l.ErrorCount(), child.ErrorCount())
	}
	if child.inErrorHandler != l.inErrorHandler {
		t.Error("derived logger should share recursion guard")
	}
}

func TestXlogger_ConcurrentErrors(t *testing.T) {
	l := newFailing(func(error) {})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				l.Error(context.Background(), "x")
			}
		}()
	}
	wg.Wait()

	if l.ErrorCount() != 800 {
		t.Errorf("ErrorCount() = %d, want 800", l.ErrorCount())
	}
}
