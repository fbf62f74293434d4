package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// koanfConfig Config 的 koanf 实现
type koanfConfig struct {
	k       atomic.Pointer[koanf.Koanf]
	version atomic.Uint64
	reload  sync.Mutex // 串行化 Reload，防止旧内容覆盖新内容
	path    string
	format  Format
	opts    *Options
}

// New 从文件创建配置，按扩展名识别格式（.yaml/.yml/.json）。
func New(path string, opts ...Option) (Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	c := &koanfConfig{path: path, format: format, opts: applyOptions(opts)}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 从字节数据创建配置，空数据得到空配置。
func NewFromBytes(data []byte, format Format, opts ...Option) (Config, error) {
	if !isValidFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	c := &koanfConfig{format: format, opts: applyOptions(opts)}
	k, err := c.parse(data)
	if err != nil {
		return nil, err
	}
	c.k.Store(k)
	c.version.Store(1)
	return c, nil
}

// Client 返回当前的 koanf 实例
func (c *koanfConfig) Client() *koanf.Koanf {
	return c.k.Load()
}

// Unmarshal 将指定路径的配置反序列化到目标结构体
func (c *koanfConfig) Unmarshal(path string, target any) error {
	if err := c.k.Load().UnmarshalWithConf(path, target, koanf.UnmarshalConf{
		Tag: c.opts.Tag,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// Reload 重新加载配置文件
func (c *koanfConfig) Reload() error {
	if c.path == "" {
		return ErrNotReloadable
	}

	c.reload.Lock()
	defer c.reload.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, err := c.parse(data)
	if err != nil {
		return err
	}
	c.k.Store(k)
	c.version.Add(1)
	return nil
}

// Version 返回成功加载的次数
func (c *koanfConfig) Version() uint64 {
	return c.version.Load()
}

// Path 返回配置文件路径
func (c *koanfConfig) Path() string {
	return c.path
}

// Format 返回配置格式
func (c *koanfConfig) Format() Format {
	return c.format
}

func (c *koanfConfig) parse(data []byte) (*koanf.Koanf, error) {
	k := koanf.New(c.opts.Delim)
	if len(data) == 0 {
		return k, nil
	}

	var parser koanf.Parser
	switch c.format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, ErrUnsupportedFormat
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}

// DetectFormat 根据文件扩展名识别配置格式
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func isValidFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}
