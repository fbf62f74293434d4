package xsink

import "context"

// Notifier 实时提醒通道（弹窗、聊天机器人等）
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

// NotifierFunc 函数适配器
type NotifierFunc func(ctx context.Context, msg string) error

// Notify 实现 Notifier
func (f NotifierFunc) Notify(ctx context.Context, msg string) error {
	return f(ctx, msg)
}
