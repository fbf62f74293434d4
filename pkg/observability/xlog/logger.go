package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

var (
	_ LoggerWithLevel = (*xlogger)(nil)
	_ ErrorCounter    = (*xlogger)(nil)
)

// xlogger Logger 接口的实现
//
// errorCount 与 inErrorHandler 在 With/WithGroup 派生的 logger 间共享。
type xlogger struct {
	handler        slog.Handler
	levelVar       *slog.LevelVar
	onError        func(error)
	errorCount     *atomic.Uint64
	addSource      bool
	inErrorHandler *atomic.Bool
}

// log 记录一条日志。
//
//go:noinline
func (l *xlogger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	if l.addSource {
		var pcs [1]uintptr
		// Callers → log → Debug/Info/… → 调用方
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)

	if err := l.handler.Handle(ctx, r); err != nil {
		l.handleError(err)
	}
}

// handleError 计数并回调 onError。
//
// 并发出错时只有一个 goroutine 进入回调，其余只计数。
func (l *xlogger) handleError(err error) {
	l.errorCount.Add(1)
	if l.onError == nil {
		return
	}
	if l.inErrorHandler.CompareAndSwap(false, true) {
		defer l.inErrorHandler.Store(false)
		l.safeOnError(err)
	}
}

func (l *xlogger) safeOnError(err error) {
	defer func() {
		if r := recover(); r != nil {
			l.errorCount.Add(1)
		}
	}()
	l.onError(err)
}

// Debug 记录 Debug 级别日志
func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelDebug, msg, attrs)
}

// Info 记录 Info 级别日志
func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, msg, attrs)
}

// Warn 记录 Warn 级别日志
func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelWarn, msg, attrs)
}

// Error 记录 Error 级别日志
func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelError, msg, attrs)
}

func (l *xlogger) derive(h slog.Handler) *xlogger {
	return &xlogger{
		handler:        h,
		levelVar:       l.levelVar,
		onError:        l.onError,
		errorCount:     l.errorCount,
		addSource:      l.addSource,
		inErrorHandler: l.inErrorHandler,
	}
}

// With 返回带额外属性的派生 Logger
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return l.derive(l.handler.WithAttrs(attrs))
}

// WithGroup 返回带分组的派生 Logger
func (l *xlogger) WithGroup(name string) Logger {
	if name == "" {
		return l
	}
	return l.derive(l.handler.WithGroup(name))
}

// SetLevel 动态设置日志级别
func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(slog.Level(level))
}

// GetLevel 获取当前日志级别
func (l *xlogger) GetLevel() Level {
	return Level(l.levelVar.Level())
}

// Enabled 检查指定级别是否启用
func (l *xlogger) Enabled(ctx context.Context, level Level) bool {
	return l.handler.Enabled(ctx, slog.Level(level))
}

// ErrorCount 返回 handler 写入失败（含回调 panic）的累计次数
func (l *xlogger) ErrorCount() uint64 {
	return l.errorCount.Load()
}
