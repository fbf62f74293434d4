// Package xdate 按 yyyyMMddHHmmss 风格的模式串格式化时间。
//
// 日志文件名、轮转桶和日志行前缀都使用这类模式串描述时间格式，
// 例如 "yyyyMMddHH"（轮转桶）、"yyyyMMddHHmm"（备份文件时间戳）、
// "yyyy-MM-dd HH:mm:ss.SSS"（日志行时间）。
//
// # 支持的占位符
//
//	yyyy  四位年份        yy  两位年份
//	MM    两位月份        M   月份（不补零）
//	dd    两位日期        d   日期（不补零）
//	HH    两位小时(24h)   H   小时（不补零）
//	mm    两位分钟        m   分钟（不补零）
//	ss    两位秒          s   秒（不补零）
//	SSS   三位毫秒        S   毫秒（不补零）
//
// 其余字符按原样输出。单引号包裹的内容视为字面量（'' 表示一个单引号）。
//
// Format 是纯函数：不读取当前时间、不访问时区数据库，调用方负责传入
// 已转换到目标时区的 time.Time。
package xdate
