package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 默认防抖时间
const DefaultDebounce = 100 * time.Millisecond

// WatchCallback 配置变更回调，err 非 nil 表示重载失败或 watcher 出错，
// 此时 cfg 仍保留上一次成功加载的内容。
type WatchCallback func(cfg Config, err error)

// WatchOption 监视器选项
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，时间窗内的多次变更只触发一次重载。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 配置文件监视器，由 [Watcher.Run] 驱动。
type Watcher struct {
	cfg      *koanfConfig
	fsw      *fsnotify.Watcher
	onChange WatchCallback
	debounce time.Duration

	started   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Watch 为从文件创建的配置创建监视器。
//
// 监视的是配置文件所在目录，编辑器"写临时文件再 rename"的保存方式同样能触发重载。
// 回调在 Run 所在的 goroutine 中串行执行。
//
//	w, err := xconf.Watch(cfg, func(c xconf.Config, err error) {
//	    if err != nil {
//	        return
//	    }
//	    if next, err := xsink.LoadConfig(c, ""); err == nil {
//	        sink.SetConfig(next)
//	    }
//	})
//	if err != nil {
//	    return err
//	}
//	return w.Run(ctx)
func Watch(cfg Config, onChange WatchCallback, opts ...WatchOption) (*Watcher, error) {
	kc, ok := cfg.(*koanfConfig)
	if !ok || kc.path == "" {
		return nil, ErrNotReloadable
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatchFailed, err)
	}
	dir := filepath.Dir(kc.path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s: %w", ErrWatchFailed, dir, err), fsw.Close())
	}

	w := &Watcher{cfg: kc, fsw: fsw, onChange: onChange, debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Run 阻塞监视，直到 ctx 取消或 Close 被调用，返回前释放 fsnotify 资源。
//
// 每个 Watcher 只能 Run 一次，再次调用返回 ErrWatcherStarted。
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrWatcherStarted
	}
	defer w.Close() //nolint:errcheck // 关闭错误通过显式 Close 获取

	name := filepath.Base(w.cfg.path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !touches(ev, name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if ctx.Err() != nil {
				return nil
			}
			w.notify(w.cfg.Reload())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.notify(fmt.Errorf("%w: %w", ErrWatchFailed, err))
		}
	}
}

// Close 关闭底层 fsnotify watcher，正在运行的 Run 随之返回。可重复调用。
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { w.closeErr = w.fsw.Close() })
	return w.closeErr
}

// touches 判断事件是否可能改变了配置文件内容。
func touches(ev fsnotify.Event, name string) bool {
	if filepath.Base(ev.Name) != name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) notify(err error) {
	if w.onChange != nil {
		w.onChange(w.cfg, err)
	}
}
