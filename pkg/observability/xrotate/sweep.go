package xrotate

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/omeyang/xlogkit/pkg/util/xdate"
	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// backupStamp 从备份文件名中提取最后一个紧邻 ".log" 的 12 位时间戳
var backupStamp = regexp.MustCompile(`.*(\d{12})\.log`)

// Sweeper 过期备份清理器
type Sweeper struct {
	fs   *xfile.FS
	dir  string
	opts *options
}

// NewSweeper 创建清理器，清理目录取自布局的 BackupDir。
func NewSweeper(fsys *xfile.FS, opts ...Option) (*Sweeper, error) {
	if fsys == nil {
		return nil, ErrNilFS
	}
	o := applyOptions(opts)
	layout, err := o.layout.validate()
	if err != nil {
		return nil, err
	}
	o.layout = layout
	return &Sweeper{fs: fsys, dir: layout.BackupDir, opts: o}, nil
}

// Dir 返回清理的备份目录。
func (s *Sweeper) Dir() string {
	return s.dir
}

// Cutoff 返回当前的清理界限（yyyyMMddHHmm），时间戳小于它的备份会被删除。
func (s *Sweeper) Cutoff() string {
	return s.cutoff(s.opts.now())
}

func (s *Sweeper) cutoff(now time.Time) string {
	days := s.opts.retentionDays()
	return xdate.Format(now.Add(-time.Duration(days)*24*time.Hour), xdate.PatternBackup)
}

// Expired 判断备份文件名是否应被清理，同时返回原因。
//
//   - 文件名不含 "{12 位数字}.log"：删除，原因为 ErrUnrecognizedBackup
//   - 时间戳按字典序小于 cutoff：删除
//   - 其他：保留
func Expired(name, cutoff string) (bool, error) {
	m := backupStamp.FindStringSubmatch(name)
	if m == nil {
		return true, fmt.Errorf("%w: %s", ErrUnrecognizedBackup, name)
	}
	return m[1] < cutoff, nil
}

// Sweep 删除过期和无法识别的备份，返回实际删除的文件名。
//
// 备份目录不存在时直接返回。每个删除相互独立，单个失败不影响其余条目。
func (s *Sweeper) Sweep(ctx context.Context) []string {
	if !s.fs.Exists(s.dir) {
		return nil
	}

	names, err := s.fs.ListDir(s.dir)
	if err != nil {
		s.opts.emit(ctx, Event{Op: OpSweep, Path: s.dir, Err: err})
		return nil
	}

	cutoff := s.Cutoff()
	var removed []string
	for _, name := range names {
		expired, reason := Expired(name, cutoff)
		if !expired {
			continue
		}
		p, err := xfile.Join(s.dir, name)
		if err == nil {
			err = s.fs.Remove(p)
		}
		s.opts.emit(ctx, Event{Op: OpSweep, Path: p, Err: err, Reason: reason})
		if err == nil {
			removed = append(removed, name)
		}
	}
	return removed
}
