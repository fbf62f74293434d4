package xdate

import (
	"strconv"
	"strings"
	"time"
)

// 常用模式串
const (
	// PatternBucket 轮转桶（小时粒度）
	PatternBucket = "yyyyMMddHH"

	// PatternBackup 备份文件名中的时间戳（分钟粒度）
	PatternBackup = "yyyyMMddHHmm"

	// PatternDefault 默认的人类可读格式
	PatternDefault = "yyyy-MM-dd HH:mm:ss"

	// PatternLine 日志行前缀（毫秒精度）
	PatternLine = "yyyy-MM-dd HH:mm:ss.SSS"
)

// Format 按模式串格式化时间。
//
// 示例：
//
//	xdate.Format(t, "yyyyMMddHHmm") // "202401010900"
func Format(t time.Time, pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 8)

	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			i = writeQuoted(&b, pattern, i+1)
			continue
		}

		if !isToken(c) {
			b.WriteByte(c)
			i++
			continue
		}

		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		writeToken(&b, t, c, j-i)
		i = j
	}
	return b.String()
}

// writeQuoted 输出单引号包裹的字面量，返回闭合引号之后的位置。
// 未闭合的引号吞掉余下全部内容。
func writeQuoted(b *strings.Builder, pattern string, i int) int {
	if i < len(pattern) && pattern[i] == '\'' {
		b.WriteByte('\'')
		return i + 1
	}
	for i < len(pattern) {
		if pattern[i] == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return i + 1
		}
		b.WriteByte(pattern[i])
		i++
	}
	return i
}

func isToken(c byte) bool {
	switch c {
	case 'y', 'M', 'd', 'H', 'm', 's', 'S':
		return true
	default:
		return false
	}
}

func writeToken(b *strings.Builder, t time.Time, c byte, n int) {
	switch c {
	case 'y':
		year := t.Year()
		if n == 2 {
			pad(b, year%100, 2)
			return
		}
		pad(b, year, n)
	case 'M':
		pad(b, int(t.Month()), n)
	case 'd':
		pad(b, t.Day(), n)
	case 'H':
		pad(b, t.Hour(), n)
	case 'm':
		pad(b, t.Minute(), n)
	case 's':
		pad(b, t.Second(), n)
	case 'S':
		pad(b, t.Nanosecond()/int(time.Millisecond), n)
	}
}

// pad 输出至少 width 位的十进制数，不足左侧补零。
func pad(b *strings.Builder, v, width int) {
	s := strconv.Itoa(v)
	for k := len(s); k < width; k++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}
