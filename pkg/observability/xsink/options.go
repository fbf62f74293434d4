package xsink

import (
	"time"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
	"github.com/omeyang/xlogkit/pkg/observability/xmetrics"
	"github.com/omeyang/xlogkit/pkg/observability/xrotate"
	"github.com/omeyang/xlogkit/pkg/storage/xstate"
	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// Option Sink 配置选项
type Option func(*options)

type options struct {
	fs       *xfile.FS
	store    xstate.Store
	console  xlog.Logger
	diag     xlog.Logger
	notifier Notifier
	recorder xmetrics.Recorder
	layout   xrotate.Layout
	now      func() time.Time
	onError  func(error)
}

// WithFS 设置日志根文件系统，默认 xfile.NewOS(Config.Root)
func WithFS(fsys *xfile.FS) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithStore 设置轮转状态存储，默认在日志根目录下使用 xstate.NewFile
func WithStore(store xstate.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithConsole 设置控制台输出，默认 xlog.Default()
func WithConsole(l xlog.Logger) Option {
	return func(o *options) {
		o.console = l
	}
}

// WithDiagnostics 设置诊断日志输出（轮转、清理、写入失败），默认与控制台相同
func WithDiagnostics(l xlog.Logger) Option {
	return func(o *options) {
		o.diag = l
	}
}

// WithNotifier 设置实时提醒通道，未设置时 notify 参数无效
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithRecorder 设置指标记录器，默认 xmetrics.Noop()
func WithRecorder(r xmetrics.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithLayout 设置日志目录布局，默认 xrotate.DefaultLayout()
func WithLayout(l xrotate.Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithClock 设置时间源，主要用于测试
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithOnError 设置失败回调。
//
// 每个被吞掉的失败在触发它的方法返回前同步回调一次，此时 Sink 的写锁已释放，
// 回调内可以继续使用同一 Sink。回调 panic 被隔离；回调内再次产生的失败只计数，不再回调。
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
