package xsink

import "errors"

var (
	// ErrArgMismatch 模板占位符数量与参数数量不一致
	ErrArgMismatch = errors.New("xsink: argument mismatch")

	// ErrUnsupportedPayload 无法识别的日志内容类型
	ErrUnsupportedPayload = errors.New("xsink: unsupported payload")

	// ErrUnknownLevel 未定义的日志级别
	ErrUnknownLevel = errors.New("xsink: unknown level")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("xsink: invalid config")
)
