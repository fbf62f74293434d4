package xsink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
	"github.com/omeyang/xlogkit/pkg/observability/xmetrics"
	"github.com/omeyang/xlogkit/pkg/observability/xrotate"
	"github.com/omeyang/xlogkit/pkg/storage/xstate"
	"github.com/omeyang/xlogkit/pkg/util/xdate"
	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// 诊断与指标中使用的失败环节
const (
	opFormat = "format"
	opNotify = "notify"
	opAppend = "append"
	opLevel  = "level"
)

// Sink 分级日志输出。
//
// 一次 Emit：渲染内容 → 按需推送提醒 → 追加 verbose 日志（期间检查小时轮转）
// → 追加级别文件 → 控制台输出。任何失败都不会返回给调用方，而是写入诊断日志、
// 计数并回调 OnError。
//
// Sink 可并发使用，文件写入在进程内串行。
type Sink struct {
	cfg atomic.Pointer[Config]

	fs       *xfile.FS
	layout   xrotate.Layout
	verbose  string
	rotator  *xrotate.Hourly
	console  xlog.Logger
	diag     xlog.Logger
	notifier Notifier
	recorder xmetrics.Recorder
	now      func() time.Time
	onError  func(error)

	mu             sync.Mutex
	errorCount     atomic.Uint64
	inErrorHandler atomic.Bool

	// 待回调的失败，释放 mu 之后再交给 onError
	pendingMu sync.Mutex
	pending   []error
}

// consoleOutput 未注入控制台时的输出目标，测试中替换
var consoleOutput io.Writer = os.Stderr

// defaultConsole 未注入控制台时使用的 DEBUG 级别 logger，
// ShowDebugLog 打开后调试日志不会被级别过滤掉。
func defaultConsole() xlog.Logger {
	l, _, err := xlog.New().SetOutput(consoleOutput).SetLevel(xlog.LevelDebug).Build()
	if err != nil {
		return xlog.Default()
	}
	return l
}

// New 创建 Sink。
func New(cfg Config, opts ...Option) (*Sink, error) {
	o := &options{
		layout: xrotate.DefaultLayout(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.fs == nil {
		fsys, err := xfile.NewOS(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("%w: root: %w", ErrInvalidConfig, err)
		}
		o.fs = fsys
	}
	if o.store == nil {
		store, err := xstate.NewFile(o.fs, "")
		if err != nil {
			return nil, err
		}
		o.store = store
	}
	if o.console == nil {
		o.console = defaultConsole()
	}
	if o.diag == nil {
		o.diag = o.console
	}
	if o.recorder == nil {
		o.recorder = xmetrics.Noop()
	}

	s := &Sink{
		fs:       o.fs,
		console:  o.console,
		diag:     o.diag.With(xlog.Component("xlogkit")),
		notifier: o.notifier,
		recorder: o.recorder,
		now:      o.now,
		onError:  o.onError,
	}
	s.cfg.Store(&cfg)

	rotator, err := xrotate.NewHourly(o.fs, o.store,
		xrotate.WithLayout(o.layout),
		xrotate.WithClock(o.now),
		xrotate.WithRetention(func() int { return s.Config().RetentionDays() }),
		xrotate.WithObserver(s.observe),
	)
	if err != nil {
		return nil, err
	}
	s.rotator = rotator
	s.layout = rotator.Layout()

	verbose, ok := s.layout.Path(xrotate.NameVerbose)
	if !ok {
		return nil, fmt.Errorf("%w: layout has no %q file", xrotate.ErrInvalidLayout, xrotate.NameVerbose)
	}
	s.verbose = verbose
	return s, nil
}

// Config 返回当前配置
func (s *Sink) Config() Config {
	return *s.cfg.Load()
}

// SetConfig 替换配置，下一次调用立即生效。Root 的变化被忽略。
func (s *Sink) SetConfig(cfg Config) {
	cfg.Root = s.Config().Root
	s.cfg.Store(&cfg)
}

// ErrorCount 返回被吞掉的失败总数（含 OnError 回调 panic）
func (s *Sink) ErrorCount() uint64 {
	return s.errorCount.Load()
}

// Debug 输出 DEBUG 日志
func (s *Sink) Debug(ctx context.Context, content any) { s.Emit(ctx, LevelDebug, content, false) }

// Log 输出 LOG 日志
func (s *Sink) Log(ctx context.Context, content any) { s.Emit(ctx, LevelLog, content, false) }

// Info 输出 INFO 日志
func (s *Sink) Info(ctx context.Context, content any) { s.Emit(ctx, LevelInfo, content, false) }

// Warn 输出 WARN 日志
func (s *Sink) Warn(ctx context.Context, content any) { s.Emit(ctx, LevelWarn, content, false) }

// Error 输出 ERROR 日志
func (s *Sink) Error(ctx context.Context, content any) { s.Emit(ctx, LevelError, content, false) }

// Notify 输出日志并推送实时提醒
func (s *Sink) Notify(ctx context.Context, level Level, content any) {
	s.Emit(ctx, level, content, true)
}

// Emit 按级别输出一条日志，notify 为 true 时同时推送实时提醒。
//
// DEBUG 在 ShowDebugLog 关闭时不输出到控制台、不推送，只以 "[DEBUG]" 标记写入 verbose 日志。
// SaveLogFile 关闭时不访问文件系统与状态存储，控制台照常输出。
func (s *Sink) Emit(ctx context.Context, level Level, content any, notify bool) {
	defer s.dispatchPending()
	if !level.Valid() {
		s.report(ctx, opLevel, fmt.Errorf("%w: %d", ErrUnknownLevel, int(level)))
		return
	}
	cfg := s.Config()
	ent := levels[level]
	s.recorder.Emit(ctx, ent.name)

	msg := s.format(ctx, content)

	if level == LevelDebug && !cfg.ShowDebugLog {
		if cfg.SaveLogFile {
			s.mu.Lock()
			s.appendVerboseLocked(ctx, s.line(debugPrefix, msg))
			s.mu.Unlock()
		}
		return
	}

	if notify && s.notifier != nil {
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.report(ctx, opNotify, err)
		}
	}

	if cfg.SaveLogFile {
		line := s.line(ent.prefix, msg)
		s.mu.Lock()
		s.appendVerboseLocked(ctx, line)
		if ent.file != "" {
			s.appendLevelLocked(ctx, ent.file, line)
		}
		s.mu.Unlock()
	}

	ent.console(ctx, s.console, msg)
}

// AppendVerbose 以 prefix 标记写入 verbose 日志，写入前检查小时轮转。
//
// 受 SaveLogFile 控制，不输出到控制台。
func (s *Sink) AppendVerbose(ctx context.Context, content any, prefix string) {
	if !s.Config().SaveLogFile {
		return
	}
	defer s.dispatchPending()
	msg := s.format(ctx, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendVerboseLocked(ctx, s.line(prefix, msg))
}

// ClearAllLogFiles 无条件执行一次完整轮转：备份全部日志文件、重建头信息、清理过期备份。
func (s *Sink) ClearAllLogFiles(ctx context.Context) {
	defer s.dispatchPending()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotator.RotateAll(ctx)
}

// SweepOldBackups 清理过期与无法识别的备份，返回被删除的文件名。
func (s *Sink) SweepOldBackups(ctx context.Context) []string {
	defer s.dispatchPending()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotator.Sweeper().Sweep(ctx)
}

// Layout 返回生效的目录布局
func (s *Sink) Layout() xrotate.Layout {
	return s.layout
}

func (s *Sink) format(ctx context.Context, content any) string {
	msg, err := Format(content)
	if err != nil {
		s.report(ctx, opFormat, err)
	}
	return msg
}

// line 返回写入文件的一行：{yyyy-MM-dd HH:mm:ss.SSS}:{prefix}{msg}\n
func (s *Sink) line(prefix, msg string) []byte {
	ts := xdate.Format(s.now(), xdate.PatternLine)
	b := make([]byte, 0, len(ts)+1+len(prefix)+len(msg)+1)
	b = append(b, ts...)
	b = append(b, ':')
	b = append(b, prefix...)
	b = append(b, msg...)
	return append(b, '\n')
}

func (s *Sink) appendVerboseLocked(ctx context.Context, line []byte) {
	s.rotator.CheckAndRotate(ctx)

	err := s.fs.EnsureDir(xfile.Dir(s.verbose))
	if err == nil {
		err = s.fs.Append(s.verbose, line)
	}
	if err != nil {
		s.report(ctx, opAppend, err, xlog.File(s.verbose))
	}
}

func (s *Sink) appendLevelLocked(ctx context.Context, name string, line []byte) {
	p, ok := s.layout.Path(name)
	if !ok {
		return
	}
	if err := s.fs.Append(p, line); err != nil {
		s.report(ctx, opAppend, err, xlog.File(p))
	}
}

// observe 将轮转事件转为诊断日志与指标
func (s *Sink) observe(ctx context.Context, ev xrotate.Event) {
	switch {
	case ev.Err == nil:
		switch ev.Op {
		case xrotate.OpRotate:
			s.recorder.Rotated(ctx)
			s.diag.Info(ctx, "rotation started", xlog.Op(ev.Op), xlog.Target(ev.Target))
		case xrotate.OpSweep:
			s.recorder.Swept(ctx, 1)
			s.diag.Debug(ctx, "expired backup removed", xlog.Op(ev.Op), xlog.File(ev.Path), sweepReason(ev.Reason))
		default:
			s.diag.Debug(ctx, "rotation step done", xlog.Op(ev.Op), xlog.File(ev.Path), xlog.Target(ev.Target))
		}
	case errors.Is(ev.Err, xrotate.ErrMissingSource):
		s.diag.Info(ctx, "live file missing, backup skipped", xlog.Op(ev.Op), xlog.File(ev.Path))
	default:
		attrs := []slog.Attr{xlog.File(ev.Path), xlog.Target(ev.Target)}
		if ev.Reason != nil {
			attrs = append(attrs, sweepReason(ev.Reason))
		}
		s.report(ctx, ev.Op, ev.Err, attrs...)
	}
}

func sweepReason(reason error) slog.Attr {
	if errors.Is(reason, xrotate.ErrUnrecognizedBackup) {
		return xlog.Reason("unrecognized")
	}
	return xlog.Reason("expired")
}

// report 记录一次被吞掉的失败
func (s *Sink) report(ctx context.Context, op string, err error, attrs ...slog.Attr) {
	s.errorCount.Add(1)
	s.recorder.Error(ctx, op)
	s.diag.Error(ctx, "log failure", append([]slog.Attr{xlog.Op(op), xlog.Err(err)}, attrs...)...)

	// 回调内产生的失败只计数
	if s.onError == nil || s.inErrorHandler.Load() {
		return
	}
	s.pendingMu.Lock()
	s.pending = append(s.pending, err)
	s.pendingMu.Unlock()
}

// dispatchPending 在公开方法返回前、mu 已释放时回调 onError。
func (s *Sink) dispatchPending() {
	if s.onError == nil {
		return
	}
	s.pendingMu.Lock()
	errs := s.pending
	s.pending = nil
	s.pendingMu.Unlock()

	for i, err := range errs {
		// 其他 goroutine 正在回调，剩余的留给下一次
		if !s.inErrorHandler.CompareAndSwap(false, true) {
			s.pendingMu.Lock()
			s.pending = append(errs[i:], s.pending...)
			s.pendingMu.Unlock()
			return
		}
		s.safeOnError(err)
		s.inErrorHandler.Store(false)
	}
}

func (s *Sink) safeOnError(err error) {
	defer func() {
		if r := recover(); r != nil {
			s.errorCount.Add(1)
		}
	}()
	s.onError(err)
}
