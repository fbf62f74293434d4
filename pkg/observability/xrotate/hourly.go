package xrotate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/omeyang/xlogkit/pkg/storage/xstate"
	"github.com/omeyang/xlogkit/pkg/util/xdate"
	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// Hourly 按小时桶轮转日志文件。
//
// 每次写入前调用 CheckAndRotate：当前小时桶（yyyyMMddHH）与状态存储中记录的
// 不同时，先写入新桶，再把所有受管理文件移入备份目录、重建带头信息的新文件，
// 最后清理过期备份。同一个 Hourly 的轮转是串行的。
type Hourly struct {
	mu      sync.Mutex
	fs      *xfile.FS
	store   xstate.Store
	layout  Layout
	opts    *options
	sweeper *Sweeper
}

// NewHourly 创建小时轮转管理器。
func NewHourly(fsys *xfile.FS, store xstate.Store, opts ...Option) (*Hourly, error) {
	if fsys == nil {
		return nil, ErrNilFS
	}
	if store == nil {
		return nil, ErrNilStore
	}

	o := applyOptions(opts)
	layout, err := o.layout.validate()
	if err != nil {
		return nil, err
	}
	o.layout = layout

	return &Hourly{
		fs:      fsys,
		store:   store,
		layout:  layout,
		opts:    o,
		sweeper: &Sweeper{fs: fsys, dir: layout.BackupDir, opts: o},
	}, nil
}

// Layout 返回生效的目录布局。
func (h *Hourly) Layout() Layout {
	return h.layout
}

// Sweeper 返回与本管理器共享配置的清理器。
func (h *Hourly) Sweeper() *Sweeper {
	return h.sweeper
}

// CheckAndRotate 检查小时桶并在需要时执行一次完整轮转，返回是否发生了轮转。
//
// 状态读取失败（非 ErrNotFound）或写入失败时不轮转，下次调用重试。
// 单个文件的备份或初始化失败只上报诊断事件，不中断其余文件。
func (h *Hourly) CheckAndRotate(ctx context.Context) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.opts.now()
	bucket := xdate.Format(now, xdate.PatternBucket)

	last, err := h.store.Get(ctx, xstate.KeyLastRotation)
	if err != nil && !xstate.IsNotFound(err) {
		h.opts.emit(ctx, Event{Op: OpState, Path: xstate.KeyLastRotation, Err: err})
		return false
	}
	if err == nil && last == bucket {
		return false
	}

	if err := h.store.Put(ctx, xstate.KeyLastRotation, bucket); err != nil {
		h.opts.emit(ctx, Event{Op: OpState, Path: xstate.KeyLastRotation, Target: bucket, Err: err})
		return false
	}

	h.rotateLocked(ctx, now)
	return true
}

// RotateAll 无条件执行一次完整轮转，不读写状态存储。
func (h *Hourly) RotateAll(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rotateLocked(ctx, h.opts.now())
}

func (h *Hourly) rotateLocked(ctx context.Context, now time.Time) {
	// 备份覆盖的是上一个小时的内容
	stamp := xdate.Format(now.Add(-time.Hour), xdate.PatternBackup)
	h.opts.emit(ctx, Event{Op: OpRotate, Target: stamp})

	for _, f := range h.layout.Files {
		h.backup(ctx, f, stamp)
		h.initFile(ctx, f, now)
	}
	h.sweeper.Sweep(ctx)
}

func (h *Hourly) backup(ctx context.Context, f TrackedFile, stamp string) {
	if !h.fs.Exists(f.Path) {
		h.opts.emit(ctx, Event{Op: OpBackup, Path: f.Path, Err: fmt.Errorf("%w: %s", ErrMissingSource, f.Path)})
		return
	}

	target, err := h.layout.BackupPath(f.Name, stamp)
	if err == nil {
		err = h.fs.EnsureDir(h.layout.BackupDir)
	}
	if err == nil {
		err = h.fs.Move(f.Path, target)
	}
	h.opts.emit(ctx, Event{Op: OpBackup, Path: f.Path, Target: target, Err: err})
}

func (h *Hourly) initFile(ctx context.Context, f TrackedFile, now time.Time) {
	err := h.fs.EnsureDir(xfile.Dir(f.Path))
	if err == nil {
		err = h.fs.WriteFile(f.Path, []byte(Header(f.Name, now)))
	}
	h.opts.emit(ctx, Event{Op: OpInit, Path: f.Path, Err: err})
}

// Header 返回新建日志文件的首行：{name} logs for [yyyy-MM-dd HH:mm:ss]
func Header(name string, now time.Time) string {
	return name + " logs for [" + xdate.Format(now, xdate.PatternDefault) + "]\n"
}
