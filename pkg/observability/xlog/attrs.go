package xlog

import (
	"log/slog"
	"time"
)

// 诊断日志的标准字段名
const (
	KeyError     = "error"
	KeyComponent = "component"
	KeyOp        = "op"
	KeyFile      = "file"
	KeyTarget    = "target"
	KeyBucket    = "bucket"
	KeyReason    = "reason"
	KeyLevel     = "level_name"
	KeyCount     = "count"
	KeyDuration  = "duration"
)

// Err 创建错误属性，err 为 nil 时返回空属性（被 slog 忽略）。
//
//	if err != nil {
//	    logger.Error(ctx, "append failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Component 组件名
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Op 操作名，如 backup、sweep
func Op(name string) slog.Attr {
	return slog.String(KeyOp, name)
}

// File 相对日志根目录的文件路径
func File(p string) slog.Attr {
	return slog.String(KeyFile, p)
}

// Target 移动或写入的目标路径
func Target(p string) slog.Attr {
	return slog.String(KeyTarget, p)
}

// Reason 备份被清理的原因：expired 或 unrecognized
func Reason(r string) slog.Attr {
	return slog.String(KeyReason, r)
}

// Bucket 轮转小时桶
func Bucket(b string) slog.Attr {
	return slog.String(KeyBucket, b)
}

// LevelName xlogkit 自身的级别名（DEBUG/LOG/INFO/WARN/ERROR）
func LevelName(name string) slog.Attr {
	return slog.String(KeyLevel, name)
}

// Count 计数
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Duration 人类可读的耗时，如 "1.5s"
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}
