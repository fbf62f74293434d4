package xfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// DefaultDirPerm 默认目录权限（gosec G301）
	DefaultDirPerm os.FileMode = 0o750

	// DefaultFilePerm 默认日志文件权限
	DefaultFilePerm os.FileMode = 0o644
)

// FS 根目录受限的文件系统原语集合。
//
// 所有路径参数都是相对根目录的路径，先经 [Clean] 校验再交给 afero。
// FS 本身不加锁，并发语义与底层 afero.Fs 一致。
type FS struct {
	fs afero.Fs
}

// New 基于已有的 afero.Fs 创建 FS。
//
// fs 的根目录即日志根目录，通常是 afero.NewBasePathFs 或 afero.NewMemMapFs。
func New(fs afero.Fs) (*FS, error) {
	if fs == nil {
		return nil, ErrNilFs
	}
	return &FS{fs: fs}, nil
}

// NewOS 以 root 为根目录创建基于操作系统文件系统的 FS。
// root 为空时使用当前工作目录，相对路径按当前工作目录解析为绝对路径。
func NewOS(root string) (*FS, error) {
	if containsNullByte(root) {
		return nil, fmt.Errorf("root %q contains null byte: %w", root, ErrNullByte)
	}
	if root == "" {
		root = "."
	}
	// BasePathFs 以前缀判断越界，基准必须是绝对路径
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: root %q: %w", ErrInvalidPath, root, err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), abs))
}

// Afero 返回底层的 afero.Fs。
func (f *FS) Afero() afero.Fs {
	return f.fs
}

// resolve 校验相对路径并转换为 afero 使用的根路径形式。
func resolve(p string) (string, error) {
	cleaned, err := Clean(p)
	if err != nil {
		return "", err
	}
	return "/" + cleaned, nil
}

// ioErr 包装 afero 错误，附带操作名与路径。
func ioErr(op, p string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrFileIO, op, p, err)
}

// Exists 报告路径是否存在。路径非法或 Stat 出错时返回 false。
func (f *FS) Exists(p string) bool {
	rp, err := resolve(p)
	if err != nil {
		return false
	}
	ok, err := afero.Exists(f.fs, rp)
	return err == nil && ok
}

// IsDir 报告路径是否为已存在的目录。
func (f *FS) IsDir(p string) bool {
	rp, err := resolve(p)
	if err != nil {
		return false
	}
	ok, err := afero.IsDir(f.fs, rp)
	return err == nil && ok
}

// EnsureDir 确保目录 dir 存在（含所有父目录）。已存在时不报错。
func (f *FS) EnsureDir(dir string) error {
	rp, err := resolve(dir)
	if err != nil {
		return err
	}
	if err := f.fs.MkdirAll(rp, DefaultDirPerm); err != nil {
		return ioErr("mkdir", dir, err)
	}
	return nil
}

// Move 将 src 重命名为 dst。
//
// dst 已存在时拒绝移动并返回包装了 fs.ErrExist 的错误，保证已有文件不被覆盖。
// dst 的父目录必须已存在。
func (f *FS) Move(src, dst string) error {
	rs, err := resolve(src)
	if err != nil {
		return err
	}
	rd, err := resolve(dst)
	if err != nil {
		return err
	}
	if ok, _ := afero.Exists(f.fs, rd); ok {
		return ioErr("move", src+" -> "+dst, fs.ErrExist)
	}
	if err := f.fs.Rename(rs, rd); err != nil {
		return ioErr("move", src+" -> "+dst, err)
	}
	return nil
}

// Replace 将 src 重命名为 dst，dst 已存在时被覆盖。
// 用于"写临时文件再替换"的原子更新。
func (f *FS) Replace(src, dst string) error {
	rs, err := resolve(src)
	if err != nil {
		return err
	}
	rd, err := resolve(dst)
	if err != nil {
		return err
	}
	if err := f.fs.Rename(rs, rd); err != nil {
		return ioErr("replace", src+" -> "+dst, err)
	}
	return nil
}

// WriteFile 以 data 覆盖写入文件，文件不存在时创建。
func (f *FS) WriteFile(p string, data []byte) error {
	rp, err := resolve(p)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(f.fs, rp, data, DefaultFilePerm); err != nil {
		return ioErr("write", p, err)
	}
	return nil
}

// Append 将 data 追加到文件末尾，文件不存在时创建。
func (f *FS) Append(p string, data []byte) (err error) {
	rp, err := resolve(p)
	if err != nil {
		return err
	}
	file, err := f.fs.OpenFile(rp, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DefaultFilePerm)
	if err != nil {
		return ioErr("append", p, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ioErr("append", p, cerr)
		}
	}()
	if _, err := file.Write(data); err != nil {
		return ioErr("append", p, err)
	}
	return nil
}

// ReadFile 读取整个文件。
func (f *FS) ReadFile(p string) ([]byte, error) {
	rp, err := resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(f.fs, rp)
	if err != nil {
		return nil, ioErr("read", p, err)
	}
	return data, nil
}

// ListDir 返回目录下所有条目的名称（按名称排序）。
func (f *FS) ListDir(dir string) ([]string, error) {
	rp, err := resolve(dir)
	if err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(f.fs, rp)
	if err != nil {
		return nil, ioErr("list", dir, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

// Remove 删除文件或空目录。目标不存在时返回包装了 fs.ErrNotExist 的错误。
func (f *FS) Remove(p string) error {
	rp, err := resolve(p)
	if err != nil {
		return err
	}
	if err := f.fs.Remove(rp); err != nil {
		return ioErr("remove", p, err)
	}
	return nil
}

// IsNotExist 报告 err 是否由目标不存在引起。
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Dir 返回相对路径的父目录，根目录下的文件返回 "."。
func Dir(p string) string {
	return path.Dir(p)
}
