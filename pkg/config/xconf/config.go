package xconf

import "github.com/knadh/koanf/v2"

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 配置接口
//
// 只提供加载、反序列化与重载；其余读取操作直接使用 Client() 返回的 koanf 实例。
type Config interface {
	// Client 返回当前的 koanf 实例（快照，Reload 后指向旧数据）。
	Client() *koanf.Koanf

	// Unmarshal 将 path 下的配置反序列化到 target，path 为空时反序列化整个配置。
	Unmarshal(path string, target any) error

	// Reload 重新读取配置文件，解析失败时保留旧配置。
	// 从字节数据创建的 Config 返回 ErrNotReloadable。
	Reload() error

	// Version 返回成功加载的次数，首次加载为 1。
	Version() uint64

	// Path 返回配置文件路径，从字节数据创建时为空。
	Path() string

	// Format 返回配置格式。
	Format() Format
}
