package xsink

import (
	"fmt"
	"strings"
)

// Placeholder 模板中的占位符
const Placeholder = "{}"

// Message 模板加位置参数形式的日志内容
type Message struct {
	Template string
	Args     []any
}

// M 构造 Message
//
//	sink.Info(ctx, xsink.M("用户{}登录{}次", "Alice", 3))
func M(template string, args ...any) Message {
	return Message{Template: template, Args: args}
}

// Format 将日志内容渲染为字符串。
//
// 支持的内容：
//   - string：原样返回
//   - Message、[]any、[]string：首元素为模板，其余为参数，按顺序替换 "{}"
//
// 模板不含占位符时忽略全部参数，原样返回模板。
// 占位符数量与参数数量不一致或内容类型不支持时，返回原始内容的 fmt.Sprint 形式，
// 同时返回包装了 ErrArgMismatch 或 ErrUnsupportedPayload 的错误。
func Format(payload any) (string, error) {
	switch p := payload.(type) {
	case string:
		return p, nil
	case Message:
		return render(p.Template, p.Args, payload)
	case []any:
		if len(p) == 0 {
			break
		}
		if tmpl, ok := p[0].(string); ok {
			return render(tmpl, p[1:], payload)
		}
	case []string:
		if len(p) == 0 {
			break
		}
		args := make([]any, len(p)-1)
		for i, s := range p[1:] {
			args[i] = s
		}
		return render(p[0], args, payload)
	}
	return fmt.Sprint(payload), fmt.Errorf("%w: %T", ErrUnsupportedPayload, payload)
}

// render 按顺序替换占位符，替换进来的文本不再参与匹配。
func render(tmpl string, args []any, orig any) (string, error) {
	n := strings.Count(tmpl, Placeholder)
	if n == 0 {
		return tmpl, nil
	}
	if n != len(args) {
		return fmt.Sprint(orig), fmt.Errorf("%w: %d placeholders, %d args", ErrArgMismatch, n, len(args))
	}

	var b strings.Builder
	b.Grow(len(tmpl) + 8*n)
	rest := tmpl
	for _, arg := range args {
		i := strings.Index(rest, Placeholder)
		b.WriteString(rest[:i])
		b.WriteString(fmt.Sprint(arg))
		rest = rest[i+len(Placeholder):]
	}
	b.WriteString(rest)
	return b.String(), nil
}
