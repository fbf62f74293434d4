package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，与 slog.Level 兼容
type Level slog.Level

// 日志级别常量
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String 标准级别返回大写名称，其余委托给 slog.Level.String()（如 "INFO+2"）。
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return slog.Level(l).String()
}

// MarshalText 实现 encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，便于从配置文件直接解析。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析 debug/info/warn/warning/error（忽略大小写与首尾空白）。
//
// xlogkit 的 LOG 级别在控制台上按 Info 输出，因此 "log" 也解析为 LevelInfo。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "log":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
	}
}
