package xstate

import "context"

// KeyLastRotation 记录最近一次轮转小时桶（yyyyMMddHH）的键名。
const KeyLastRotation = "last_back_file"

// Store 轮转状态存储接口。
//
// 实现必须是并发安全的。
type Store interface {
	// Get 读取键值，键不存在时返回 ErrNotFound。
	Get(ctx context.Context, key string) (string, error)

	// Put 写入键值，已存在时覆盖。
	Put(ctx context.Context, key, value string) error
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
