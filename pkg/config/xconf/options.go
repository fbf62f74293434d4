package xconf

// Options 配置加载选项
type Options struct {
	// Delim 键分隔符，默认 "."
	Delim string

	// Tag 结构体标签名，默认 "koanf"
	Tag string
}

// Option 配置选项函数
type Option func(*Options)

func applyOptions(opts []Option) *Options {
	o := &Options{
		Delim: ".",
		Tag:   "koanf",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithDelim 设置键分隔符
func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签名
func WithTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.Tag = tag
		}
	}
}
