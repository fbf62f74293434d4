package xrotate

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidMaxSize MaxSizeMB 值无效（必须在 1~10240 范围内）
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSizeMB")

	// ErrInvalidMaxBackups MaxBackups 值无效（必须在 0~1024 范围内）
	ErrInvalidMaxBackups = errors.New("xrotate: invalid MaxBackups")

	// ErrInvalidMaxAge MaxAgeDays 值无效（必须在 0~3650 范围内）
	ErrInvalidMaxAge = errors.New("xrotate: invalid MaxAgeDays")

	// ErrNoCleanupPolicy MaxBackups 和 MaxAgeDays 不能同时为 0
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")

	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")

	// ErrNilFS 未提供文件系统
	ErrNilFS = errors.New("xrotate: nil file system")

	// ErrNilStore 未提供状态存储
	ErrNilStore = errors.New("xrotate: nil state store")

	// ErrInvalidLayout 目录布局无效（空目录、重复文件名、路径越界）
	ErrInvalidLayout = errors.New("xrotate: invalid layout")
)

// 轮转过程中上报的诊断错误
var (
	// ErrMissingSource 待备份的日志文件不存在，跳过备份。
	// 这是正常情况（例如首次运行），不应计为失败。
	ErrMissingSource = errors.New("xrotate: live file does not exist")

	// ErrUnrecognizedBackup 备份目录中的文件名不含 12 位时间戳。
	ErrUnrecognizedBackup = errors.New("xrotate: unrecognized backup file name")
)
