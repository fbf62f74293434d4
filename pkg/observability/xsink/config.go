package xsink

import (
	"fmt"

	"github.com/omeyang/xlogkit/pkg/config/xconf"
	"github.com/omeyang/xlogkit/pkg/observability/xrotate"
)

// Config Sink 配置，键名与配置文件一致
type Config struct {
	// SaveLogFile 为 false 时不做任何文件与状态存储访问
	SaveLogFile bool `koanf:"saveLogFile"`

	// ShowDebugLog 控制 DEBUG 的路由
	ShowDebugLog bool `koanf:"show_debug_log"`

	// LogSavedDays 备份保留天数，<= 0 时按 3 天处理
	LogSavedDays int `koanf:"logSavedDays"`

	// Root 日志根目录，仅在创建 Sink 时生效
	Root string `koanf:"root"`
}

// DefaultConfig 返回默认配置：写文件、不显示 DEBUG、保留 3 天、根目录为当前目录
func DefaultConfig() Config {
	return Config{
		SaveLogFile:  true,
		LogSavedDays: xrotate.DefaultRetentionDays,
		Root:         ".",
	}
}

// RetentionDays 返回生效的保留天数。
//
// 0 和负数都退回 DefaultRetentionDays（3 天），负数不会原样参与清理界限的计算。
func (c Config) RetentionDays() int {
	if c.LogSavedDays <= 0 {
		return xrotate.DefaultRetentionDays
	}
	return c.LogSavedDays
}

// LoadConfig 以 DefaultConfig 为底，用 cfg 中的值覆盖。
//
// path 为空时读取顶层键，否则读取 path 下的子树。
func LoadConfig(cfg xconf.Config, path string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if err := cfg.Unmarshal(path, &c); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Root == "" {
		c.Root = "."
	}
	return c, nil
}
