package xsink

import (
	"context"
	"fmt"
	"strings"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
	"github.com/omeyang/xlogkit/pkg/observability/xrotate"
)

// Level 日志级别
type Level int

// 日志级别
const (
	LevelDebug Level = iota
	LevelLog
	LevelInfo
	LevelWarn
	LevelError
)

// levelSpec 级别到输出目标的映射
type levelSpec struct {
	name string
	// file 级别专属文件的逻辑名，为空表示没有专属文件
	file string
	// prefix 写入文件时附加在内容前的标记
	prefix  string
	console func(ctx context.Context, l xlog.Logger, msg string)
}

var levels = [...]levelSpec{
	LevelDebug: {
		name: "DEBUG",
		console: func(ctx context.Context, l xlog.Logger, msg string) {
			l.Debug(ctx, msg)
		},
	},
	LevelLog: {
		name:   "LOG",
		file:   xrotate.NameLog,
		prefix: "[LOG]",
		console: func(ctx context.Context, l xlog.Logger, msg string) {
			l.Info(ctx, msg, xlog.LevelName("LOG"))
		},
	},
	LevelInfo: {
		name:   "INFO",
		file:   xrotate.NameInfo,
		prefix: "[INFO]",
		console: func(ctx context.Context, l xlog.Logger, msg string) {
			l.Info(ctx, msg)
		},
	},
	LevelWarn: {
		name:   "WARN",
		file:   xrotate.NameWarn,
		prefix: "[WARN]",
		console: func(ctx context.Context, l xlog.Logger, msg string) {
			l.Warn(ctx, msg)
		},
	},
	LevelError: {
		name:   "ERROR",
		file:   xrotate.NameError,
		prefix: "[ERROR]",
		console: func(ctx context.Context, l xlog.Logger, msg string) {
			l.Error(ctx, msg)
		},
	},
}

// debugPrefix DEBUG 关闭时写入 verbose 日志的标记
const debugPrefix = "[DEBUG]"

// Valid 报告是否为已定义的级别
func (l Level) Valid() bool {
	return l >= LevelDebug && l <= LevelError
}

func (l Level) String() string {
	if l.Valid() {
		return levels[l].name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Prefix 返回写入文件时的级别标记，DEBUG 为空
func (l Level) Prefix() string {
	if l.Valid() {
		return levels[l].prefix
	}
	return ""
}

// ParseLevel 解析级别名（忽略大小写与首尾空白）
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, ent := range levels {
		if ent.name == name {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// MarshalText 实现 encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
