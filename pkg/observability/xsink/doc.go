// Package xsink 分级日志输出：内容渲染、文件追加、按小时轮转与实时提醒。
//
// # 级别
//
// DEBUG、LOG、INFO、WARN、ERROR。除 DEBUG 外每个级别都有专属文件
// （logs/log.log、logs/info.log、logs/warn.log、logs/error.log）与文件标记（[LOG] 等），
// 所有级别的内容同时写入 logs/log-verboses.log。
//
// # 内容
//
// 日志内容可以是字符串，也可以是模板加位置参数：
//
//	sink.Info(ctx, "started")
//	sink.Info(ctx, xsink.M("用户{}登录{}次", "Alice", 3))
//	sink.Info(ctx, []any{"用户{}登录{}次", "Alice", 3})
//
// 参数数量不匹配时输出原始内容并上报 [ErrArgMismatch]。
//
// # 轮转
//
// 每次写入 verbose 日志前检查小时桶，跨小时时由 xrotate.Hourly 备份全部日志文件、
// 重建带头信息的新文件并清理过期备份。小时桶保存在 xstate.Store 中，进程重启后不会重复轮转。
//
// # 失败处理
//
// 任何失败都不会返回给调用方：写入诊断日志、计入 [Sink.ErrorCount] 与
// xlogkit.sink.errors 指标，并回调 [WithOnError] 设置的函数。
//
// # 配置
//
// [Config] 的键名与配置文件一致（saveLogFile、show_debug_log、logSavedDays、root），
// 通过 [LoadConfig] 从 xconf 加载，[Sink.SetConfig] 支持热更新。
package xsink
