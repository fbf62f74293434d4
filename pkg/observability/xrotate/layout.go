package xrotate

import (
	"fmt"

	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// 默认目录布局（相对日志根目录）
const (
	DefaultLogDir    = "logs"
	DefaultBackupDir = "logs/logback"
)

// 受管理日志文件的逻辑名
const (
	NameVerbose = "log-verboses"
	NameLog     = "log"
	NameInfo    = "info"
	NameWarn    = "warn"
	NameError   = "error"
)

// TrackedFile 参与轮转的日志文件
type TrackedFile struct {
	// Name 逻辑名，同时用作备份文件名前缀和头信息
	Name string
	// Path 相对日志根目录的路径
	Path string
}

// Layout 日志目录布局
//
// Files 的顺序即轮转顺序。
type Layout struct {
	LogDir    string
	BackupDir string
	Files     []TrackedFile
}

// DefaultLayout 返回默认布局：
//
//	logs/log-verboses.log  logs/error.log  logs/log.log  logs/warn.log  logs/info.log
//	logs/logback/
func DefaultLayout() Layout {
	names := []string{NameVerbose, NameError, NameLog, NameWarn, NameInfo}
	files := make([]TrackedFile, 0, len(names))
	for _, n := range names {
		files = append(files, TrackedFile{Name: n, Path: xfile.MustJoin(DefaultLogDir, n+".log")})
	}
	return Layout{
		LogDir:    DefaultLogDir,
		BackupDir: DefaultBackupDir,
		Files:     files,
	}
}

// Path 返回逻辑名对应的日志文件路径。
func (l Layout) Path(name string) (string, bool) {
	for _, f := range l.Files {
		if f.Name == name {
			return f.Path, true
		}
	}
	return "", false
}

// BackupPath 返回备份文件路径：{BackupDir}/{name}.{stamp}.log
func (l Layout) BackupPath(name, stamp string) (string, error) {
	return xfile.Join(l.BackupDir, name+"."+stamp+".log")
}

// validate 规范化并校验布局，返回副本。
func (l Layout) validate() (Layout, error) {
	logDir, err := xfile.Clean(l.LogDir)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: log dir: %w", ErrInvalidLayout, err)
	}
	backupDir, err := xfile.Clean(l.BackupDir)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: backup dir: %w", ErrInvalidLayout, err)
	}

	seen := make(map[string]struct{}, len(l.Files))
	files := make([]TrackedFile, 0, len(l.Files))
	for _, f := range l.Files {
		if f.Name == "" {
			return Layout{}, fmt.Errorf("%w: empty file name", ErrInvalidLayout)
		}
		if _, dup := seen[f.Name]; dup {
			return Layout{}, fmt.Errorf("%w: duplicate file name %q", ErrInvalidLayout, f.Name)
		}
		seen[f.Name] = struct{}{}

		p, err := xfile.Clean(f.Path)
		if err != nil {
			return Layout{}, fmt.Errorf("%w: file %q: %w", ErrInvalidLayout, f.Name, err)
		}
		files = append(files, TrackedFile{Name: f.Name, Path: p})
	}
	return Layout{LogDir: logDir, BackupDir: backupDir, Files: files}, nil
}
