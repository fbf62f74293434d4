package xmetrics

import "context"

// 属性键
const (
	AttrLevel = "level"
	AttrOp    = "op"
)

// Recorder 记录 xlogkit 的运行指标，实现必须并发安全且不阻塞。
type Recorder interface {
	// Emit 记录一次日志写入调用
	Emit(ctx context.Context, level string)

	// Error 记录一次被吞掉的失败，op 为失败环节（append、backup、sweep 等）
	Error(ctx context.Context, op string)

	// Rotated 记录一次完整轮转
	Rotated(ctx context.Context)

	// Swept 记录被清理的备份数量
	Swept(ctx context.Context, n int)
}

type noop struct{}

// Noop 返回丢弃所有记录的 Recorder
func Noop() Recorder { return noop{} }

func (noop) Emit(context.Context, string) {}

func (noop) Error(context.Context, string) {}

func (noop) Rotated(context.Context) {}

func (noop) Swept(context.Context, int) {}
