package xfile

import (
	"fmt"
	"path"
	"strings"
)

// containsNullByte 检测路径是否包含空字节。
func containsNullByte(p string) bool {
	return strings.ContainsRune(p, 0)
}

// isWindowsAbsPath 检测 Windows 风格的绝对或驱动器相关路径："C:\..."、"C:foo"、
// "\\server\..."、"\foo"。非 Windows 平台上 filepath.IsAbs 不识别这些形式。
func isWindowsAbsPath(p string) bool {
	if len(p) >= 2 && isASCIILetter(p[0]) && p[1] == ':' {
		return true
	}
	return len(p) >= 1 && p[0] == '\\'
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// hasDotDotSegment 检测路径中是否包含 ".." 作为独立路径段。
// '/' 和 '\' 都视为分隔符。逐字符扫描，零分配。
func hasDotDotSegment(p string) bool {
	i := 0
	for i < len(p) {
		if p[i] == '/' || p[i] == '\\' {
			i++
			continue
		}
		j := i
		for j < len(p) && p[j] != '/' && p[j] != '\\' {
			j++
		}
		if j-i == 2 && p[i] == '.' && p[i+1] == '.' {
			return true
		}
		i = j
	}
	return false
}

// Clean 规范化一个相对根目录的路径。
//
// 返回使用 '/' 分隔、不含 "." 段和冗余分隔符的路径。
// 拒绝空路径、空字节、绝对路径和 ".." 路径段。
func Clean(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path is required: %w", ErrEmptyPath)
	}
	if containsNullByte(p) {
		return "", fmt.Errorf("path %q contains null byte: %w", p, ErrNullByte)
	}
	if strings.HasPrefix(p, "/") || isWindowsAbsPath(p) {
		return "", fmt.Errorf("path %q must be relative: %w", p, ErrInvalidPath)
	}
	// 在 Clean 之前检测：path.Clean 会把 "a/../b" 折叠为 "b"
	if hasDotDotSegment(p) {
		return "", fmt.Errorf("path %q: %w", p, ErrPathTraversal)
	}

	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if cleaned == "." {
		return "", fmt.Errorf("path %q names the root: %w", p, ErrInvalidPath)
	}
	return cleaned, nil
}

// Join 拼接路径段并执行 [Clean] 校验。
// 每个路径段单独检测 ".."，避免 path.Join 提前把穿越折叠掉。
func Join(elem ...string) (string, error) {
	for _, e := range elem {
		if hasDotDotSegment(e) {
			return "", fmt.Errorf("path segment %q: %w", e, ErrPathTraversal)
		}
	}
	return Clean(path.Join(elem...))
}

// MustJoin 与 Join 相同，但失败时 panic。
// 仅用于包级常量路径的初始化。
func MustJoin(elem ...string) string {
	p, err := Join(elem...)
	if err != nil {
		panic(err)
	}
	return p
}
