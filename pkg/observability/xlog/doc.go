// Package xlog 基于 log/slog 的结构化日志。
//
// xlogkit 用它承担两件事：LogSink 的控制台输出，以及轮转、清理、写入失败等
// 诊断信息的输出通道。
//
// # 创建 Logger
//
// Builder 遇到第一个配置错误后，后续 Set 操作不再生效，错误由 [Builder.Build] 返回。
// 可用的配置：SetOutput、SetLevel、SetLevelString、SetFormat、SetAddSource、
// SetComponent、SetOmitTime、SetRotation、SetOnError、SetReplaceAttr。
//
//	logger, cleanup, err := xlog.New().
//		SetLevel(xlog.LevelDebug).
//		SetRotation("/var/log/xlogkit/diag.log", xrotate.DefaultSizePolicy()).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 错误处理
//
// handler 写入失败不会返回给调用方。失败次数可通过 [ErrorCounter] 读取，
// [Builder.SetOnError] 设置的回调带递归保护与 panic 隔离。
//
// # 全局 Logger
//
// [Default] 惰性创建默认 Logger；[SetDefault] 替换；[ResetDefault] 仅用于测试。
// [Discard] 返回丢弃全部输出的 Logger。
package xlog
