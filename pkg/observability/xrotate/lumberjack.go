package xrotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 策略取值上限
const (
	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650

	diagDirPerm os.FileMode = 0o750
)

// SizePolicy 按大小切割的策略。
//
// MaxBackups 与 MaxAgeDays 为 0 分别表示不按数量、不按天数清理，但不能同时为 0。
type SizePolicy struct {
	MaxSizeMB  int  // 单个文件上限（MB），1~10240
	MaxBackups int  // 保留的切割文件数，0~1024
	MaxAgeDays int  // 切割文件保留天数，0~3650
	Compress   bool // gzip 压缩切割文件
	LocalTime  bool // 切割文件名使用本地时间，默认 UTC
}

// DefaultSizePolicy 100MB 切割，保留 7 个文件、30 天。
func DefaultSizePolicy() SizePolicy {
	return SizePolicy{MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 30}
}

func (p SizePolicy) validate() error {
	switch {
	case p.MaxSizeMB <= 0 || p.MaxSizeMB > maxSizeMB:
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, p.MaxSizeMB, maxSizeMB)
	case p.MaxBackups < 0 || p.MaxBackups > maxBackups:
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, p.MaxBackups, maxBackups)
	case p.MaxAgeDays < 0 || p.MaxAgeDays > maxAgeDays:
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, p.MaxAgeDays, maxAgeDays)
	case p.MaxBackups == 0 && p.MaxAgeDays == 0:
		return ErrNoCleanupPolicy
	}
	return nil
}

// sizeRotator 以 lumberjack 实现 Rotator，关闭状态由 closed 统一判定。
type sizeRotator struct {
	lj     *lumberjack.Logger
	closed atomic.Bool
}

// NewLumberjack 创建按 p 切割 filename 的 Rotator，父目录不存在时以 0750 创建。
func NewLumberjack(filename string, p SizePolicy) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	filename = filepath.Clean(filename)
	if err := os.MkdirAll(filepath.Dir(filename), diagDirPerm); err != nil {
		return nil, fmt.Errorf("xrotate: create log dir: %w", err)
	}

	return &sizeRotator{lj: &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    p.MaxSizeMB,
		MaxBackups: p.MaxBackups,
		MaxAge:     p.MaxAgeDays,
		Compress:   p.Compress,
		LocalTime:  p.LocalTime,
	}}, nil
}

// guard 在已关闭时把任意结果统一为 ErrClosed。
func (r *sizeRotator) guard(err error) error {
	if r.closed.Load() {
		return ErrClosed
	}
	return err
}

func (r *sizeRotator) Write(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	n, err := r.lj.Write(p)
	if err != nil {
		return n, r.guard(err)
	}
	return n, nil
}

func (r *sizeRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	return r.lj.Close()
}

func (r *sizeRotator) Rotate() error {
	if err := r.guard(nil); err != nil {
		return err
	}
	if err := r.lj.Rotate(); err != nil {
		return r.guard(err)
	}
	return nil
}
