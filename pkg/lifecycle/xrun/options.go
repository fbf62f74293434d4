package xrun

import (
	"os"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
)

// Option 配置 Group 的选项函数。
type Option func(*groupOptions)

type groupOptions struct {
	logger          xlog.Logger
	name            string
	signals         []os.Signal
	noSignalHandler bool
}

func defaultOptions() *groupOptions {
	return &groupOptions{
		logger: xlog.Discard(),
		name:   "xrun",
	}
}

// WithLogger 设置记录任务启停的日志器，默认丢弃。
func WithLogger(logger xlog.Logger) Option {
	return func(o *groupOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 Group 名称，默认 "xrun"。
func WithName(name string) Option {
	return func(o *groupOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置 Run 监听的信号列表，默认 DefaultSignals()。
func WithSignals(signals []os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *groupOptions) {
		o.signals = copied
	}
}

// WithoutSignalHandler 禁止 Run 注册信号监听。
func WithoutSignalHandler() Option {
	return func(o *groupOptions) {
		o.noSignalHandler = true
	}
}
