package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// globalLogger 全局 Logger 实例
var globalLogger atomic.Pointer[LoggerWithLevel]

// globalMu 保护 globalOnce 的执行与重置
var globalMu sync.Mutex

var globalOnce sync.Once

// newBuilder 默认 Logger 使用的构建器工厂，测试中替换以覆盖降级路径
var newBuilder = New

func defaultLogger() LoggerWithLevel {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalOnce.Do(func() {
		logger, _, err := newBuilder().Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "xlog: failed to build default logger: %v, using fallback\n", err)
			logger = newFallback(os.Stderr)
		}
		globalLogger.Store(&logger)
	})
	return *globalLogger.Load()
}

func newFallback(w io.Writer) LoggerWithLevel {
	return &xlogger{
		handler:        slog.NewTextHandler(w, nil),
		levelVar:       new(slog.LevelVar),
		errorCount:     new(atomic.Uint64),
		inErrorHandler: new(atomic.Bool),
	}
}

// Default 返回全局默认 Logger（首次调用时创建：stderr、Info 级别、text 格式）。
//
// xsink 构建默认控制台失败时退回到它。
func Default() LoggerWithLevel {
	if l := globalLogger.Load(); l != nil {
		return *l
	}
	return defaultLogger()
}

// SetDefault 替换全局默认 Logger，nil 被忽略。
func SetDefault(l LoggerWithLevel) {
	if l == nil {
		return
	}
	globalLogger.Store(&l)
}

// ResetDefault 重置全局 Logger 为未初始化状态（仅用于测试）
func ResetDefault() {
	globalMu.Lock()
	globalLogger.Store(nil)
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

// Discard 返回丢弃所有输出的 Logger。
func Discard() LoggerWithLevel {
	return &xlogger{
		handler:        slog.DiscardHandler,
		levelVar:       new(slog.LevelVar),
		errorCount:     new(atomic.Uint64),
		inErrorHandler: new(atomic.Bool),
	}
}
