package xrotate

import (
	"context"
	"time"
)

// DefaultRetentionDays 默认备份保留天数
const DefaultRetentionDays = 3

// 诊断事件的操作类型
const (
	OpState  = "state"  // 读写轮转桶
	OpRotate = "rotate" // 一个轮转周期开始
	OpBackup = "backup" // 移动日志文件到备份目录
	OpInit   = "init"   // 重新初始化日志文件
	OpSweep  = "sweep"  // 删除过期备份
)

// Event 轮转过程中的诊断事件
//
// Err 为 nil 表示操作成功；errors.Is(Err, ErrMissingSource) 表示正常跳过。
// OpSweep 事件的 Reason 说明删除原因：nil 为时间戳过期，
// 否则为包装 ErrUnrecognizedBackup 的错误。
type Event struct {
	Op     string
	Path   string
	Target string
	Err    error
	Reason error
}

// Observer 接收诊断事件。
//
// 在轮转调用方的 goroutine 中同步执行，且持有轮转锁，
// 回调内不得再触发同一个 Hourly 的轮转。
type Observer func(ctx context.Context, ev Event)

// Option 轮转与清理的配置选项
type Option func(*options)

type options struct {
	layout    Layout
	now       func() time.Time
	retention func() int
	observer  Observer
}

func defaultOptions() *options {
	return &options{
		layout:    DefaultLayout(),
		now:       time.Now,
		retention: func() int { return DefaultRetentionDays },
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithLayout 设置目录布局，默认 DefaultLayout()。
func WithLayout(l Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithClock 设置时间源，主要用于测试。nil 被忽略。
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRetention 设置备份保留天数的来源。
//
// 每次清理时调用 fn，因此配置热更新后立即生效。
// fn 返回值 <= 0 时使用 DefaultRetentionDays。
func WithRetention(fn func() int) Option {
	return func(o *options) {
		if fn != nil {
			o.retention = fn
		}
	}
}

// WithObserver 设置诊断事件回调。
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// emit 调用 observer，隔离回调 panic。
func (o *options) emit(ctx context.Context, ev Event) {
	if o.observer == nil {
		return
	}
	defer func() { recover() }() //nolint:errcheck // 回调 panic 不扩散到轮转流程
	o.observer(ctx, ev)
}

func (o *options) retentionDays() int {
	if d := o.retention(); d > 0 {
		return d
	}
	return DefaultRetentionDays
}
