package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 单文件日志轮转器接口
//
// 隐式实现 [io.WriteCloser]，可直接作为 xlog 的输出目标。
// 所有实现都必须是并发安全的：
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]
//   - Rotate 可以在任意时刻调用
type Rotator interface {
	// Write 写入日志数据，满足轮转条件时自动轮转
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器，重复调用返回 [ErrClosed]
	Close() error

	// Rotate 手动触发轮转
	Rotate() error
}
