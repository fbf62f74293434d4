// Package observability 提供日志输出与可观测性相关的子包。
//
// 子包列表：
//   - xsink: 分级日志输出，控制台回显、verbose 与级别文件、实时提醒
//   - xrotate: 日志文件按小时轮转、过期备份清理、按大小切割（lumberjack）
//   - xlog: 结构化日志，基于 log/slog 扩展，用于控制台与诊断输出
//   - xmetrics: 基于 OpenTelemetry 的日志写入与轮转指标
//
// 设计原则：
//   - 日志写入失败不向调用方传播，统一进入诊断日志与错误计数
//   - 时间源、文件系统、状态存储均可注入，便于测试
package observability
