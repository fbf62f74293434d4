package xconf

import "errors"

// 配置加载和解析相关错误
var (
	// ErrEmptyPath 配置文件路径为空
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 不支持的配置格式
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 读取配置文件失败
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 解析配置内容失败
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrUnmarshalFailed 反序列化失败
	ErrUnmarshalFailed = errors.New("xconf: failed to unmarshal config")

	// ErrNotReloadable 配置不是从文件创建的，不能重载或监视
	ErrNotReloadable = errors.New("xconf: config is not backed by a file")

	// ErrWatchFailed 创建或运行文件监视失败
	ErrWatchFailed = errors.New("xconf: watch failed")

	// ErrWatcherStarted Watcher 已经运行过
	ErrWatcherStarted = errors.New("xconf: watcher already started")
)
