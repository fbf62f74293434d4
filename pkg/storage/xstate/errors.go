package xstate

import "errors"

var (
	// ErrNotFound 键不存在。
	ErrNotFound = errors.New("xstate: key not found")

	// ErrEmptyKey 键名为空。
	ErrEmptyKey = errors.New("xstate: key is empty")

	// ErrNilClient 客户端为空。
	ErrNilClient = errors.New("xstate: nil client")

	// ErrNoEndpoints 未配置 etcd 端点。
	ErrNoEndpoints = errors.New("xstate: no etcd endpoints configured")

	// ErrCorrupted 持久化数据无法解析。
	ErrCorrupted = errors.New("xstate: corrupted state")
)

// IsNotFound 检查错误是否为键不存在。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
