package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xlogkit/pkg/observability/xrotate"
)

// ReplaceAttrFunc 属性替换函数类型
//
// 返回空 Key 的 Attr 时该属性被移除。
type ReplaceAttrFunc func(groups []string, a slog.Attr) slog.Attr

// Builder 日志配置构建器
type Builder struct {
	output      io.Writer
	levelVar    *slog.LevelVar
	format      string
	addSource   bool
	component   string
	omitTime    bool
	replaceAttr ReplaceAttrFunc
	rotator     xrotate.Rotator
	onError     func(error)
	err         error
}

// New 创建配置构建器，默认输出到 stderr、Info 级别、text 格式。
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		format:   "text",
	}
}

// SetOutput 设置日志输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		b.err = fmt.Errorf("xlog: nil output")
		return b
	}
	b.output = w
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		b.err = err
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值使用 text。
func (b *Builder) SetFormat(format string) *Builder {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		b.err = fmt.Errorf("xlog: unknown format %q", format)
	}
	return b
}

// SetAddSource 是否在日志中添加源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetComponent 为每条日志添加固定的 component 属性
func (b *Builder) SetComponent(name string) *Builder {
	b.component = name
	return b
}

// SetOmitTime 去掉 handler 自带的 time 字段。
//
// 控制台输出场景下调用方已自行拼接时间戳时使用；测试中也用于得到稳定输出。
func (b *Builder) SetOmitTime(omit bool) *Builder {
	b.omitTime = omit
	return b
}

// SetRotation 输出到按 p 切割的文件，Build 返回的 cleanup 负责关闭。
func (b *Builder) SetRotation(filename string, p xrotate.SizePolicy) *Builder {
	rotator, err := xrotate.NewLumberjack(filename, p)
	if err != nil {
		b.err = err
		return b
	}
	b.rotator = rotator
	b.output = rotator
	return b
}

// SetOnError 设置内部错误回调
//
// Handler.Handle 失败时同步调用。回调内再次触发的日志错误不会递归回调，
// 回调 panic 被吞掉并计入错误计数。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// SetReplaceAttr 设置属性替换函数
func (b *Builder) SetReplaceAttr(fn ReplaceAttrFunc) *Builder {
	b.replaceAttr = fn
	return b
}

// Build 构建 Logger 实例
//
// 遇到第一个配置错误后 Build 返回该错误；已创建的轮转文件会被关闭。
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		if b.rotator != nil {
			_ = b.rotator.Close()
		}
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{
		Level:       b.levelVar,
		AddSource:   b.addSource,
		ReplaceAttr: b.composeReplaceAttr(),
	}

	var handler slog.Handler
	switch b.format {
	case "json":
		handler = slog.NewJSONHandler(b.output, opts)
	default:
		handler = slog.NewTextHandler(b.output, opts)
	}

	if b.component != "" {
		handler = handler.WithAttrs([]slog.Attr{Component(b.component)})
	}

	logger := &xlogger{
		handler:        handler,
		levelVar:       b.levelVar,
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		addSource:      b.addSource,
		inErrorHandler: new(atomic.Bool),
	}

	return logger, b.createCleanup(), nil
}

func (b *Builder) composeReplaceAttr() func([]string, slog.Attr) slog.Attr {
	user := b.replaceAttr
	if !b.omitTime {
		return user
	}
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		if user != nil {
			return user(groups, a)
		}
		return a
	}
}

// createCleanup 创建幂等的清理函数
func (b *Builder) createCleanup() func() error {
	var once sync.Once
	rotator := b.rotator

	return func() error {
		var err error
		once.Do(func() {
			if rotator != nil {
				err = rotator.Close()
			}
		})
		return err
	}
}
