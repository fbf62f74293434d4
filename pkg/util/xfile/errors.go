package xfile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 表示路径格式无效（绝对路径、目录路径等）。
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 表示检测到路径穿越（".." 路径段）。
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrNullByte 表示路径中包含空字节（\x00），Linux 内核会在空字节处截断路径，
	// 导致 Go 代码与操作系统看到的路径不一致。
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrNilFs 表示未提供底层文件系统。
	ErrNilFs = errors.New("xfile: nil afero.Fs")

	// ErrFileIO 包装所有文件读写、移动、删除失败。
	ErrFileIO = errors.New("xfile: file io failed")
)
