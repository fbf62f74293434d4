// xlog.go 定义核心接口：Logger、Leveler、LoggerWithLevel
//
// 约定：
//   - 所有方法接收 context，便于 handler 读取调用方信息
//   - 级别可在运行时调整
//   - Build() 返回 cleanup 函数，负责关闭轮转文件
//   - 方法签名只接受 slog.Attr
package xlog

import (
	"context"
	"log/slog"
)

// Logger 日志接口
//
// xlogkit 中既用作控制台输出，也用作内部诊断通道。
type Logger interface {
	// Debug 记录 Debug 级别日志
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)

	// Info 记录 Info 级别日志
	Info(ctx context.Context, msg string, attrs ...slog.Attr)

	// Warn 记录 Warn 级别日志
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)

	// Error 记录 Error 级别日志
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带额外属性的派生 Logger，派生 logger 共享父级的级别。
	With(attrs ...slog.Attr) Logger

	// WithGroup 返回带分组的派生 Logger
	WithGroup(name string) Logger
}

// Leveler 级别控制接口
type Leveler interface {
	// SetLevel 动态设置日志级别
	SetLevel(level Level)

	// GetLevel 获取当前日志级别
	GetLevel() Level

	// Enabled 检查指定级别是否启用
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 组合接口：Logger + Leveler
type LoggerWithLevel interface {
	Logger
	Leveler
}

// ErrorCounter 由 Build 返回的 logger 实现，报告 handler 写入失败次数。
type ErrorCounter interface {
	ErrorCount() uint64
}
