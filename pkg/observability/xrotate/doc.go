// Package xrotate 提供日志文件轮转与备份清理。
//
// # 按小时轮转（[Hourly]）
//
// Hourly 管理一组固定的日志文件（[Layout]），在每次写入前调用
// [Hourly.CheckAndRotate]：当前小时桶（yyyyMMddHH）与 xstate.Store 中记录的
// 上一个桶不同时，执行一次完整的轮转周期：
//
//  1. 先把新桶写入 Store，崩溃后重启不会对同一小时重复轮转
//  2. 按固定顺序把每个日志文件移动到 logback/{name}.{yyyyMMddHHmm}.log，
//     时间戳取"当前时间减一小时"
//  3. 用一行头信息重新初始化每个日志文件
//  4. 调用 [Sweeper] 清理过期备份
//
// 任何单个文件的失败都不会中断周期，失败通过 [Observer] 上报。
//
// # 备份清理（[Sweeper]）
//
// 从备份文件名中提取 12 位时间戳，早于"当前时间减保留天数"的备份被删除；
// 文件名不符合格式的条目同样被删除。
//
// # 按大小轮转（[NewLumberjack]）
//
// 基于 lumberjack v2 的 [Rotator] 实现，用于进程自身诊断日志的输出目标
// （见 xlog.Builder.SetRotation）。
package xrotate
